package reminder

import (
	"context"

	"RemindHub/internal/model"
)

// TimePredicate 事件选择谓词
// 事件入选条件：timestart 在窗口结束之后，且对任意 lead L，
// timestart - L 落入 [WindowStart, WindowEnd]
type TimePredicate struct {
	WindowStart int64
	WindowEnd   int64
	Leads       []int64
	OnlyVisible bool
}

// EventStore 日历事件的只读访问
// 查无记录时返回 (nil, nil)
type EventStore interface {
	EventsByTimePredicate(ctx context.Context, pred TimePredicate) ([]model.Event, error)
	Event(ctx context.Context, id int64) (*model.Event, error)

	// 逾期扫描用：timestart 在 [from, to) 内的 due/close 事件
	DueOrCloseBetween(ctx context.Context, from, to int64, onlyVisible bool) ([]model.Event, error)
}

// Directory 账户、角色、分组与可用性规则的只读访问
type Directory interface {
	// 所有已确认、未删除、未停用的账户
	ConfirmedUsers(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, id int64) (*model.User, error)

	// 课程内持有任一给定角色的账户，activeOnly 时仅保留选课状态 active 的
	RoleUsers(ctx context.Context, roleIDs []int64, courseID int64, activeOnly bool) ([]model.User, error)
	Group(ctx context.Context, id int64) (*model.Group, error)
	GroupMembers(ctx context.Context, groupID int64) ([]model.User, error)

	// 按活动的条件访问规则过滤
	FilterByAvailability(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error)
	// 仅保留持有打分能力的账户
	FilterGraders(ctx context.Context, users []model.User, courseID int64) ([]model.User, error)
	// 仅保留尚未完成该活动的账户
	FilterUnfinished(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error)
}

// CourseStore 课程、分类与活动实例的只读访问
type CourseStore interface {
	Course(ctx context.Context, id int64) (*model.Course, error)
	Category(ctx context.Context, id int64) (*model.CourseCategory, error)

	// 分类下的课程，recursive 时包含所有子孙分类
	CoursesInCategory(ctx context.Context, categoryID int64, recursive bool) ([]model.Course, error)

	Module(ctx context.Context, courseID int64, moduleName string, instance int64) (*model.CourseModule, error)
	Quiz(ctx context.Context, instance int64) (*model.Quiz, error)
	Assignment(ctx context.Context, instance int64) (*model.Assignment, error)
}

// OverrideStore 课程级开关，提醒核心只读
type OverrideStore interface {
	Override(ctx context.Context, courseID int64) (*model.CourseOverride, error)
}

// ScanLog 扫描日志，append-only
type ScanLog interface {
	Last(ctx context.Context) (*model.ScanLogRecord, error)
	Append(ctx context.Context, rec *model.ScanLogRecord) error
	DeleteBefore(ctx context.Context, cutoff int64) (int64, error)
}

// OverdueMarks 逾期补发标记，append-only
type OverdueMarks interface {
	Exists(ctx context.Context, eventID int64) (bool, error)
	Insert(ctx context.Context, eventID, sendTime int64) error
}

// Transport 消息投递，返回 nil 表示已被接收
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
