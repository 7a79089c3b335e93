package model

// 日历事件类型
const (
	EventTypeSite       = "site"
	EventTypeUser       = "user"
	EventTypeCourse     = "course"
	EventTypeDue        = "due"
	EventTypeOpen       = "open"
	EventTypeClose      = "close"
	EventTypeGroup      = "group"
	EventTypeCategory   = "category"
	EventTypeGradingDue = "gradingdue"
)

// Event 日历事件，本服务按周期读取快照，从不修改
type Event struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(254);not null" json:"name"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	Location    string `gorm:"type:varchar(254);not null;default:''" json:"location"`
	Type        string `gorm:"type:varchar(20);not null;index:idx_events_type" json:"type"`

	// 活动事件的模块引用，非活动事件为空/0
	ModuleName string `gorm:"type:varchar(50);not null;default:''" json:"module_name"`
	Instance   int64  `gorm:"not null;default:0" json:"instance"`

	CourseID   int64 `gorm:"not null;default:0;index:idx_events_course" json:"course_id"`
	GroupID    int64 `gorm:"not null;default:0" json:"group_id"`
	UserID     int64 `gorm:"not null;default:0" json:"user_id"`
	CategoryID int64 `gorm:"not null;default:0" json:"category_id"`

	TimeStart    int64 `gorm:"not null;index:idx_events_timestart" json:"time_start"`
	TimeDuration int64 `gorm:"not null;default:0" json:"time_duration"`
	Visible      bool  `gorm:"not null;default:true" json:"visible"`
}

func (Event) TableName() string {
	return "events"
}
