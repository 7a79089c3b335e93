package model

// Course 课程目录快照
type Course struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	CategoryID int64  `gorm:"not null;default:0;index:idx_courses_category" json:"category_id"`
	ShortName  string `gorm:"type:varchar(100);not null" json:"short_name"`
	FullName   string `gorm:"type:varchar(254);not null" json:"full_name"`
	Visible    bool   `gorm:"not null;default:true" json:"visible"`

	// unix 秒，0 表示未设置
	StartDate int64 `gorm:"not null;default:0" json:"start_date"`
	EndDate   int64 `gorm:"not null;default:0" json:"end_date"`
}

func (Course) TableName() string {
	return "courses"
}

// HasEnded 课程结束日期是否已过
func (c *Course) HasEnded(now int64) bool {
	return c.EndDate > 0 && c.EndDate < now
}

// CourseCategory 课程分类，ParentID=0 为顶级
type CourseCategory struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	ParentID int64  `gorm:"not null;default:0;index:idx_categories_parent" json:"parent_id"`
	Name     string `gorm:"type:varchar(254);not null" json:"name"`
	Visible  bool   `gorm:"not null;default:true" json:"visible"`
}

func (CourseCategory) TableName() string {
	return "course_categories"
}

// 选课状态
const (
	EnrolmentStatusActive    = 0
	EnrolmentStatusSuspended = 1
)

// Enrolment 用户与课程的选课关系
type Enrolment struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID int64 `gorm:"not null;index:idx_enrolments_course_user" json:"course_id"`
	UserID   int64 `gorm:"not null;index:idx_enrolments_course_user" json:"user_id"`
	Status   int   `gorm:"not null;default:0" json:"status"`
}

func (Enrolment) TableName() string {
	return "enrolments"
}

// RoleAssignment 课程上下文中的角色授予
type RoleAssignment struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID int64 `gorm:"not null;index:idx_role_assignments_course" json:"course_id"`
	UserID   int64 `gorm:"not null;index:idx_role_assignments_user" json:"user_id"`
	RoleID   int64 `gorm:"not null" json:"role_id"`

	// 打分能力，gradingdue 类事件的收件人据此收窄
	CanGrade bool `gorm:"not null;default:false" json:"can_grade"`
}

func (RoleAssignment) TableName() string {
	return "role_assignments"
}

// Group 课程内分组
type Group struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	CourseID int64  `gorm:"not null;index:idx_groups_course" json:"course_id"`
	Name     string `gorm:"type:varchar(254);not null" json:"name"`
}

func (Group) TableName() string {
	return "groups"
}

// GroupMembership 分组成员，一个用户可能经由多个角色重复出现在来源数据中
type GroupMembership struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID int64 `gorm:"not null;index:idx_group_memberships_group" json:"group_id"`
	UserID  int64 `gorm:"not null" json:"user_id"`
}

func (GroupMembership) TableName() string {
	return "group_memberships"
}
