package model

// CourseModule 课程内的活动实例引用
// ModuleName + Instance 指向具体活动表（quizzes / assignments）
type CourseModule struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	CourseID   int64  `gorm:"not null;index:idx_course_modules_course" json:"course_id"`
	ModuleName string `gorm:"type:varchar(50);not null" json:"module_name"`
	Instance   int64  `gorm:"not null" json:"instance"`
	Visible    bool   `gorm:"not null;default:true" json:"visible"`

	// 条件访问规则（JSON），空表示无限制
	Availability string `gorm:"type:text;not null;default:''" json:"availability"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// Quiz 测验活动
type Quiz struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	CourseID  int64  `gorm:"not null" json:"course_id"`
	Name      string `gorm:"type:varchar(254);not null" json:"name"`
	Intro     string `gorm:"type:text;not null;default:''" json:"intro"`
	TimeOpen  int64  `gorm:"not null;default:0" json:"time_open"`
	TimeClose int64  `gorm:"not null;default:0" json:"time_close"`
	TimeLimit int64  `gorm:"not null;default:0" json:"time_limit"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Assignment 作业活动
type Assignment struct {
	ID                       int64  `gorm:"primaryKey" json:"id"`
	CourseID                 int64  `gorm:"not null" json:"course_id"`
	Name                     string `gorm:"type:varchar(254);not null" json:"name"`
	Intro                    string `gorm:"type:text;not null;default:''" json:"intro"`
	AllowSubmissionsFromDate int64  `gorm:"not null;default:0" json:"allow_submissions_from_date"`
	DueDate                  int64  `gorm:"not null;default:0" json:"due_date"`
	CutoffDate               int64  `gorm:"not null;default:0" json:"cutoff_date"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// ActivityCompletion 用户对活动的完成记录
// 逾期通知可配置为排除已完成用户
type ActivityCompletion struct {
	ID             int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseModuleID int64 `gorm:"not null;index:idx_activity_completions_cm" json:"course_module_id"`
	UserID         int64 `gorm:"not null" json:"user_id"`
	Completed      bool  `gorm:"not null;default:false" json:"completed"`
}

func (ActivityCompletion) TableName() string {
	return "activity_completions"
}
