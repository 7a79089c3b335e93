package reminder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"RemindHub/internal/model"
	"RemindHub/pkg/logger"
)

// ResolveMode 收件人解析的调用模式
type ResolveMode int

const (
	ModeNormal ResolveMode = iota
	// 逾期补发模式，可按配置排除已完成活动的用户
	ModeOverdue
)

// Resolver 按事件类别解析收件人集合
type Resolver struct {
	dir       Directory
	courses   CourseStore
	overrides OverrideStore
}

func NewResolver(dir Directory, courses CourseStore, overrides OverrideStore) *Resolver {
	return &Resolver{dir: dir, courses: courses, overrides: overrides}
}

// Resolve 解析事件的收件人，返回空集表示跳过该事件
// 收件人集合总是按用户 ID 去重
func (r *Resolver) Resolve(ctx context.Context, event *model.Event, cfg Config, mode ResolveMode) ([]model.User, error) {
	switch event.Type {
	case model.EventTypeSite:
		return r.resolveSite(ctx)
	case model.EventTypeUser:
		return r.resolveUser(ctx, event)
	case model.EventTypeCourse:
		return r.resolveCourse(ctx, event.CourseID, cfg)
	case model.EventTypeDue, model.EventTypeOpen, model.EventTypeClose, model.EventTypeGradingDue:
		return r.resolveActivity(ctx, event, cfg, mode)
	case model.EventTypeGroup:
		return r.resolveGroup(ctx, event, cfg)
	case model.EventTypeCategory:
		return r.resolveCategory(ctx, event, cfg)
	default:
		// 未识别类别：带模块名的按普通活动处理，否则记录并跳过
		if event.ModuleName != "" {
			return r.resolveActivity(ctx, event, cfg, mode)
		}
		logger.Logger.Warn("Skipping event with unrecognized type",
			zap.Int64("event_id", event.ID),
			zap.String("type", event.Type),
		)
		return nil, nil
	}
}

func (r *Resolver) resolveSite(ctx context.Context) ([]model.User, error) {
	users, err := r.dir.ConfirmedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve site recipients: %w", err)
	}
	return dedupUsers(users), nil
}

func (r *Resolver) resolveUser(ctx context.Context, event *model.Event) ([]model.User, error) {
	user, err := r.dir.User(ctx, event.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", event.UserID, err)
	}
	if user == nil {
		logger.Logger.Warn("Skipping user event, account not found",
			zap.Int64("event_id", event.ID),
			zap.Int64("user_id", event.UserID),
		)
		return nil, nil
	}
	return []model.User{*user}, nil
}

func (r *Resolver) resolveCourse(ctx context.Context, courseID int64, cfg Config) ([]model.User, error) {
	course, err := r.courses.Course(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up course %d: %w", courseID, err)
	}
	if course == nil {
		logger.Logger.Warn("Skipping course event, course not found", zap.Int64("course_id", courseID))
		return nil, nil
	}
	if !course.Visible && cfg.OnlyVisible {
		return nil, nil
	}

	enabled, err := r.courseEnabled(ctx, courseID, func(o *model.CourseOverride) bool { return o.EnableCourse })
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	users, err := r.dir.RoleUsers(ctx, cfg.CourseRoleIDs, courseID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve course recipients: %w", err)
	}
	return dedupUsers(users), nil
}

// resolveActivity 活动类事件的三条互斥路径：
// 用户改写实例 > 分组改写实例 > 角色 + 活跃选课 + 可用性过滤
func (r *Resolver) resolveActivity(ctx context.Context, event *model.Event, cfg Config, mode ResolveMode) ([]model.User, error) {
	// (a) 用户改写实例：无论角色配置如何，收件人就是这一个账户
	if event.CourseID <= 0 && event.UserID > 0 {
		return r.resolveUser(ctx, event)
	}

	// (b) 分组改写实例
	if event.CourseID <= 0 && event.GroupID > 0 {
		users, err := r.dir.GroupMembers(ctx, event.GroupID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve group-override recipients: %w", err)
		}
		return dedupUsers(users), nil
	}

	// (c) 常规路径
	course, err := r.courses.Course(ctx, event.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up course %d: %w", event.CourseID, err)
	}
	if course == nil {
		logger.Logger.Warn("Skipping activity event, course not found",
			zap.Int64("event_id", event.ID),
			zap.Int64("course_id", event.CourseID),
		)
		return nil, nil
	}
	if !course.Visible && cfg.OnlyVisible {
		return nil, nil
	}

	enabled, err := r.courseEnabled(ctx, event.CourseID, func(o *model.CourseOverride) bool { return o.EnableActivities })
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	module, err := r.courses.Module(ctx, event.CourseID, event.ModuleName, event.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to look up module %s/%d: %w", event.ModuleName, event.Instance, err)
	}
	if module == nil {
		logger.Logger.Warn("Skipping activity event, module instance not found",
			zap.Int64("event_id", event.ID),
			zap.String("module", event.ModuleName),
			zap.Int64("instance", event.Instance),
		)
		return nil, nil
	}

	users, err := r.dir.RoleUsers(ctx, cfg.ActivityRoleIDs, event.CourseID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve activity recipients: %w", err)
	}

	users, err = r.dir.FilterByAvailability(ctx, users, module.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply availability filter: %w", err)
	}

	if event.Type == model.EventTypeGradingDue {
		users, err = r.dir.FilterGraders(ctx, users, event.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to narrow to graders: %w", err)
		}
	}

	if mode == ModeOverdue && cfg.OverdueExcludeCompleted {
		users, err = r.dir.FilterUnfinished(ctx, users, module.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to exclude completed users: %w", err)
		}
	}

	return dedupUsers(users), nil
}

func (r *Resolver) resolveGroup(ctx context.Context, event *model.Event, cfg Config) ([]model.User, error) {
	group, err := r.dir.Group(ctx, event.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up group %d: %w", event.GroupID, err)
	}
	if group == nil {
		logger.Logger.Warn("Skipping group event, group not found",
			zap.Int64("event_id", event.ID),
			zap.Int64("group_id", event.GroupID),
		)
		return nil, nil
	}

	// 课程级开关以分组所属课程为准，事件上的课程字段不可靠
	if group.CourseID > 0 {
		enabled, err := r.courseEnabled(ctx, group.CourseID, func(o *model.CourseOverride) bool { return o.EnableGroup })
		if err != nil {
			return nil, err
		}
		if !enabled {
			return nil, nil
		}
	}

	users, err := r.dir.GroupMembers(ctx, event.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve group recipients: %w", err)
	}
	if len(users) == 0 {
		logger.Logger.Warn("Group event resolved to no members",
			zap.Int64("event_id", event.ID),
			zap.Int64("group_id", event.GroupID),
		)
	}
	return dedupUsers(users), nil
}

// resolveCategory 类别事件：对类别下每个课程跑课程路径，跨课程按用户去重
func (r *Resolver) resolveCategory(ctx context.Context, event *model.Event, cfg Config) ([]model.User, error) {
	category, err := r.courses.Category(ctx, event.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %d: %w", event.CategoryID, err)
	}
	if category == nil {
		logger.Logger.Warn("Skipping category event, category not found", zap.Int64("category_id", event.CategoryID))
		return nil, nil
	}

	courses, err := r.courses.CoursesInCategory(ctx, event.CategoryID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list category courses: %w", err)
	}

	now := event.TimeStart // 结课判断相对事件本身即可，避免再取一次时钟
	merged := make([]model.User, 0)
	for i := range courses {
		if cfg.CategorySkipEnded && courses[i].HasEnded(now) {
			continue
		}
		users, err := r.resolveCourse(ctx, courses[i].ID, cfg)
		if err != nil {
			// 单个课程解析失败不拖垮整个类别
			logger.Logger.Error("Failed to resolve recipients for category course",
				zap.Int64("event_id", event.ID),
				zap.Int64("course_id", courses[i].ID),
				zap.Error(err),
			)
			continue
		}
		merged = append(merged, users...)
	}
	return dedupUsers(merged), nil
}

// courseEnabled 读课程级开关，无记录时视为全部启用
func (r *Resolver) courseEnabled(ctx context.Context, courseID int64, pick func(*model.CourseOverride) bool) (bool, error) {
	override, err := r.overrides.Override(ctx, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to read course override for %d: %w", courseID, err)
	}
	if override == nil {
		return true, nil
	}
	return pick(override), nil
}

// dedupUsers 按用户 ID 去重，保持首次出现的顺序
func dedupUsers(users []model.User) []model.User {
	seen := make(map[int64]bool, len(users))
	out := make([]model.User, 0, len(users))
	for i := range users {
		if seen[users[i].ID] {
			continue
		}
		seen[users[i].ID] = true
		out = append(out, users[i])
	}
	return out
}
