package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"RemindHub/internal/model"
	"RemindHub/storage/database"
)

// 站点事件不给匿名账户发
const guestUsername = "guest"

// DirectoryRepo 账户、角色与分组的只读仓库
type DirectoryRepo struct {
	db *gorm.DB
}

func NewDirectoryRepo() *DirectoryRepo {
	return &DirectoryRepo{db: database.DB()}
}

func (r *DirectoryRepo) ConfirmedUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("confirmed = ? AND deleted = ? AND suspended = ?", true, false, false).
		Where("username <> ?", guestUsername).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *DirectoryRepo) User(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("deleted = ?", false).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleUsers 课程内持有任一给定角色的账户
// activeOnly 时额外要求选课状态为 active
func (r *DirectoryRepo) RoleUsers(ctx context.Context, roleIDs []int64, courseID int64, activeOnly bool) ([]model.User, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).
		Table("users").
		Distinct("users.*").
		Joins("JOIN role_assignments ra ON ra.user_id = users.id AND ra.course_id = ?", courseID).
		Joins("JOIN enrolments e ON e.user_id = users.id AND e.course_id = ?", courseID).
		Where("ra.role_id IN ?", roleIDs).
		Where("users.confirmed = ? AND users.deleted = ? AND users.suspended = ?", true, false, false)

	if activeOnly {
		q = q.Where("e.status = ?", model.EnrolmentStatusActive)
	}

	var users []model.User
	if err := q.Order("users.id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *DirectoryRepo) Group(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GroupMembers 分组全部成员，来源数据可能跨角色重复，这里先去重
func (r *DirectoryRepo) GroupMembers(ctx context.Context, groupID int64) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Table("users").
		Distinct("users.*").
		Joins("JOIN group_memberships gm ON gm.user_id = users.id").
		Where("gm.group_id = ?", groupID).
		Where("users.confirmed = ? AND users.deleted = ? AND users.suspended = ?", true, false, false).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// availabilityRule 活动的条件访问规则
// 空规则表示对所有人可用
type availabilityRule struct {
	GroupIDs []int64 `json:"group_ids,omitempty"`
	From     int64   `json:"from,omitempty"`
	Until    int64   `json:"until,omitempty"`
}

// FilterByAvailability 按活动的条件访问规则过滤收件人
func (r *DirectoryRepo) FilterByAvailability(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error) {
	if len(users) == 0 {
		return users, nil
	}

	var module model.CourseModule
	err := r.db.WithContext(ctx).First(&module, courseModuleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return users, nil
	}
	if err != nil {
		return nil, err
	}
	if module.Availability == "" {
		return users, nil
	}

	var rule availabilityRule
	if err := json.Unmarshal([]byte(module.Availability), &rule); err != nil {
		// 规则损坏时不过滤，宁可多发不漏发
		return users, nil
	}

	if len(rule.GroupIDs) == 0 {
		return users, nil
	}

	var memberIDs []int64
	err = r.db.WithContext(ctx).
		Model(&model.GroupMembership{}).
		Distinct("user_id").
		Where("group_id IN ?", rule.GroupIDs).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return nil, err
	}

	allowed := make(map[int64]bool, len(memberIDs))
	for _, id := range memberIDs {
		allowed[id] = true
	}

	out := make([]model.User, 0, len(users))
	for i := range users {
		if allowed[users[i].ID] {
			out = append(out, users[i])
		}
	}
	return out, nil
}

// FilterGraders 仅保留课程内持有打分能力的账户
func (r *DirectoryRepo) FilterGraders(ctx context.Context, users []model.User, courseID int64) ([]model.User, error) {
	if len(users) == 0 {
		return users, nil
	}

	var graderIDs []int64
	err := r.db.WithContext(ctx).
		Model(&model.RoleAssignment{}).
		Distinct("user_id").
		Where("course_id = ? AND can_grade = ?", courseID, true).
		Pluck("user_id", &graderIDs).Error
	if err != nil {
		return nil, err
	}

	graders := make(map[int64]bool, len(graderIDs))
	for _, id := range graderIDs {
		graders[id] = true
	}

	out := make([]model.User, 0, len(users))
	for i := range users {
		if graders[users[i].ID] {
			out = append(out, users[i])
		}
	}
	return out, nil
}

// FilterUnfinished 去掉已完成该活动的账户
func (r *DirectoryRepo) FilterUnfinished(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error) {
	if len(users) == 0 {
		return users, nil
	}

	var completedIDs []int64
	err := r.db.WithContext(ctx).
		Model(&model.ActivityCompletion{}).
		Distinct("user_id").
		Where("course_module_id = ? AND completed = ?", courseModuleID, true).
		Pluck("user_id", &completedIDs).Error
	if err != nil {
		return nil, err
	}

	completed := make(map[int64]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	out := make([]model.User, 0, len(users))
	for i := range users {
		if !completed[users[i].ID] {
			out = append(out, users[i])
		}
	}
	return out, nil
}
