package model

// 扫描结果类型
const (
	ScanResultSent     = "sent"
	ScanResultNoEvents = "no_events"
)

// ScanLogRecord 每次成功提交的扫描周期追加一行
// 只有最新一行参与下个窗口的起点计算，time 单调递增
type ScanLogRecord struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Time int64  `gorm:"not null;index:idx_scan_log_time" json:"time"`
	Type string `gorm:"type:varchar(16);not null" json:"type"`
}

func (ScanLogRecord) TableName() string {
	return "reminder_scan_log"
}

// OverdueSendMarker 逾期补发标记，每个事件至多一行
// 行的存在本身就是去重依据
type OverdueSendMarker struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID  int64 `gorm:"uniqueIndex;not null" json:"event_id"`
	SendTime int64 `gorm:"not null" json:"send_time"`
}

func (OverdueSendMarker) TableName() string {
	return "overdue_send_markers"
}

// CourseOverride 课程级提醒开关，提醒核心只读
// 管理接口可写
type CourseOverride struct {
	BaseModel
	CourseID         int64 `gorm:"uniqueIndex;not null" json:"course_id"`
	EnableCourse     bool  `gorm:"not null;default:true" json:"enable_course"`
	EnableActivities bool  `gorm:"not null;default:true" json:"enable_activities"`
	EnableGroup      bool  `gorm:"not null;default:true" json:"enable_group"`
}

func (CourseOverride) TableName() string {
	return "course_reminder_overrides"
}
