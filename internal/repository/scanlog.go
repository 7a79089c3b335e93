package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"RemindHub/internal/model"
	"RemindHub/storage/database"
)

// ScanLogRepo 扫描日志，append-only
type ScanLogRepo struct {
	db *gorm.DB
}

func NewScanLogRepo() *ScanLogRepo {
	return &ScanLogRepo{db: database.DB()}
}

// Last 只有最新一行参与窗口计算
func (r *ScanLogRepo) Last(ctx context.Context) (*model.ScanLogRecord, error) {
	var rec model.ScanLogRecord
	err := r.db.WithContext(ctx).Order("time DESC, id DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *ScanLogRepo) Append(ctx context.Context, rec *model.ScanLogRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// DeleteBefore 清理保留期之外的历史记录，返回删除行数
// 最新一行是窗口水位线，无论多旧都保留
func (r *ScanLogRepo) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	latest := r.db.Model(&model.ScanLogRecord{}).Select("id").Order("time DESC, id DESC").Limit(1)
	res := r.db.WithContext(ctx).
		Where("time < ?", cutoff).
		Where("id NOT IN (?)", latest).
		Delete(&model.ScanLogRecord{})
	return res.RowsAffected, res.Error
}

// Recent 管理接口的日志视图
func (r *ScanLogRepo) Recent(ctx context.Context, limit int) ([]model.ScanLogRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var recs []model.ScanLogRecord
	err := r.db.WithContext(ctx).Order("time DESC, id DESC").Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
