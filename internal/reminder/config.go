package reminder

import (
	"strconv"
	"strings"

	"RemindHub/config"
	"RemindHub/internal/model"
)

// TierConfig 单个事件类别的提前档位开关
// 三个固定档加一个可选的自定义提前秒数
type TierConfig struct {
	Seven bool
	Three bool
	One   bool

	// 0 表示未配置自定义档
	CustomSeconds int64
}

// HasAnyLead 是否存在任何可用提前量
func (t TierConfig) HasAnyLead() bool {
	return t.Seven || t.Three || t.One || t.CustomSeconds > 0
}

// Config 一个周期内不变的提醒配置快照
// 周期入口处构建一次，之后只读传递
type Config struct {
	Enabled bool

	// 首次运行无扫描记录时的回溯秒数
	FirstCycleCutoffSeconds int64

	// 按类别的提前档位，活动类事件（due/open/close/gradingdue）共用 due 档
	Tiers map[string]TierConfig

	// 事件可见性筛选
	OnlyVisible bool
	// both / openings / closings
	ActivitySendMode string

	CourseRoleIDs   []int64
	ActivityRoleIDs []int64

	SendAs         string
	SenderName     string
	SubjectPrefix  string
	NoReplyAddress string
	AdminAddress   string
	SiteBaseURL    string

	OverdueEnabled          bool
	OverdueExcludeCompleted bool
	CategorySkipEnded       bool

	NotifyOnCreated bool
	NotifyOnUpdated bool
	NotifyOnRemoved bool
}

// Snapshot 从全局配置构建本周期的快照
func Snapshot() Config {
	cfg := config.Cfg

	return Config{
		Enabled:                 cfg.RemindersEnabled,
		FirstCycleCutoffSeconds: int64(cfg.FirstCycleCutoffDays) * 86400,
		Tiers: map[string]TierConfig{
			model.EventTypeSite:     parseTierConfig(cfg.SiteTierDays, cfg.SiteCustomSeconds),
			model.EventTypeUser:     parseTierConfig(cfg.UserTierDays, cfg.UserCustomSeconds),
			model.EventTypeCourse:   parseTierConfig(cfg.CourseTierDays, cfg.CourseCustomSeconds),
			model.EventTypeDue:      parseTierConfig(cfg.DueTierDays, cfg.DueCustomSeconds),
			model.EventTypeGroup:    parseTierConfig(cfg.GroupTierDays, cfg.GroupCustomSeconds),
			model.EventTypeCategory: parseTierConfig(cfg.CategoryTierDays, cfg.CategoryCustomSeconds),
		},
		OnlyVisible:             cfg.EventFilterMode == "visible",
		ActivitySendMode:        cfg.ActivitySendMode,
		CourseRoleIDs:           parseRoleIDs(cfg.CourseRoleIDs),
		ActivityRoleIDs:         parseRoleIDs(cfg.ActivityRoleIDs),
		SendAs:                  cfg.SendAs,
		SenderName:              cfg.SenderName,
		SubjectPrefix:           cfg.SubjectPrefix,
		NoReplyAddress:          cfg.NoReplyAddress,
		AdminAddress:            cfg.AdminAddress,
		SiteBaseURL:             cfg.SiteBaseURL,
		OverdueEnabled:          cfg.OverdueEnabled,
		OverdueExcludeCompleted: cfg.OverdueExcludeCompleted,
		CategorySkipEnded:       cfg.CategorySkipEnded,
		NotifyOnCreated:         cfg.NotifyOnCreated,
		NotifyOnUpdated:         cfg.NotifyOnUpdated,
		NotifyOnRemoved:         cfg.NotifyOnRemoved,
	}
}

// parseTierConfig 解析 "111" 形式的档位串，顺序为 7 天 / 3 天 / 1 天
func parseTierConfig(days string, customSeconds int64) TierConfig {
	t := TierConfig{CustomSeconds: customSeconds}
	if len(days) >= 1 {
		t.Seven = days[0] == '1'
	}
	if len(days) >= 2 {
		t.Three = days[1] == '1'
	}
	if len(days) >= 3 {
		t.One = days[2] == '1'
	}
	return t
}

func parseRoleIDs(csv string) []int64 {
	parts := strings.Split(csv, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// TierFor 返回事件类别对应的档位配置
// 活动类事件与未识别但带模块名的事件共用 due 档
func (c Config) TierFor(category string) (TierConfig, bool) {
	key := category
	switch category {
	case model.EventTypeDue, model.EventTypeOpen, model.EventTypeClose, model.EventTypeGradingDue:
		key = model.EventTypeDue
	}
	t, ok := c.Tiers[key]
	return t, ok
}

// Sender 返回发件身份，SEND_AS=admin 但未配置地址时回落到 noreply
func (c Config) Sender() (addr, name string) {
	name = c.SenderName
	if c.SendAs == "admin" && c.AdminAddress != "" {
		return c.AdminAddress, name
	}
	return c.NoReplyAddress, name
}
