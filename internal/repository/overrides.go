package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"RemindHub/internal/model"
	"RemindHub/storage/database"
)

// OverrideRepo 课程级提醒开关
// 提醒核心只读，管理接口可写
type OverrideRepo struct {
	db *gorm.DB
}

func NewOverrideRepo() *OverrideRepo {
	return &OverrideRepo{db: database.DB()}
}

func (r *OverrideRepo) Override(ctx context.Context, courseID int64) (*model.CourseOverride, error) {
	var override model.CourseOverride
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// Save 按课程 upsert
func (r *OverrideRepo) Save(ctx context.Context, override *model.CourseOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enable_course", "enable_activities", "enable_group", "updated_at"}),
		}).
		Create(override).Error
}

func (r *OverrideRepo) List(ctx context.Context, limit int) ([]model.CourseOverride, error) {
	if limit <= 0 {
		limit = 100
	}

	var overrides []model.CourseOverride
	err := r.db.WithContext(ctx).Order("course_id").Limit(limit).Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}
