package reminder

import (
	"RemindHub/internal/model"
)

// ScanWindow 扫描窗口，两端都是 unix 秒
// 相邻两次提交的窗口满足 next.Start == prev.End + 1
type ScanWindow struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Contains 判断时间点是否落在窗口内（闭区间）
func (w ScanWindow) Contains(t int64) bool {
	return t >= w.Start && t <= w.End
}

// Tier 命中的提前量档位
type Tier struct {
	// 提前秒数
	Seconds int64
	// 档位天数，自定义档可能是小数
	Days float64
	// 是否来自自定义提前量
	IsCustom bool
}

// ChangeType 消息标题前缀用的变更类型
type ChangeType string

const (
	ChangeNone    ChangeType = ""
	ChangeAdded   ChangeType = "ADDED"
	ChangeUpdated ChangeType = "UPDATED"
	ChangeRemoved ChangeType = "REMOVED"
	ChangeOverdue ChangeType = "OVERDUE"
)

// Template 与收件人无关的消息骨架，构建后不再修改
type Template struct {
	Subject   string
	HTMLRows  []Row
	PlainRows []Row
	Header    string
	Footer    string

	// 事件开始时间，按收件人时区重排 when 行
	TimeStart  int64
	EventName  string
	EventID    int64
	Category   string
	CourseName string
}

// Row 消息正文中的一行 label/value
type Row struct {
	Label string
	Value string
	// when 行在按收件人渲染时会被替换
	IsWhen bool
}

// Message 按收件人渲染完成、可直接投递的消息
type Message struct {
	MessageID string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	EventID   int64  `json:"event_id"`
	Category  string `json:"category"`

	To       string `json:"to"`
	ToName   string `json:"to_name"`
	From     string `json:"from"`
	FromName string `json:"from_name"`

	Subject   string   `json:"subject"`
	HTMLBody  string   `json:"html_body"`
	PlainBody string   `json:"plain_body"`
	Headers   []string `json:"headers"`
}

// ReminderRef 一次扫描迭代内，模板与其收件人集合的组合
// 投递完成后即释放
type ReminderRef struct {
	Template   *Template
	Event      *model.Event
	Recipients []model.User
	Change     ChangeType
}

// DispatchOutcome 单个事件的投递统计
type DispatchOutcome struct {
	Sent   int
	Failed int
}

// CycleOutcome 一个扫描周期的汇总
type CycleOutcome struct {
	EventsSelected int
	EventsSent     int
	EventsSkipped  int
	Sent           int
	Failed         int
}

// HadSuccess 至少有一个事件成功投递过
func (o CycleOutcome) HadSuccess() bool {
	return o.EventsSent > 0
}
