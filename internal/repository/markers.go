package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"RemindHub/internal/model"
	"RemindHub/storage/database"
)

// MarkerRepo 逾期补发标记，append-only
type MarkerRepo struct {
	db *gorm.DB
}

func NewMarkerRepo() *MarkerRepo {
	return &MarkerRepo{db: database.DB()}
}

func (r *MarkerRepo) Exists(ctx context.Context, eventID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OverdueSendMarker{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert 幂等插入，并发重复时静默忽略
func (r *MarkerRepo) Insert(ctx context.Context, eventID, sendTime int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&model.OverdueSendMarker{EventID: eventID, SendTime: sendTime}).Error
}
