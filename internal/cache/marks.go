package cache

import (
	"context"

	"go.uber.org/zap"

	"RemindHub/internal/reminder"
	"RemindHub/pkg/logger"
)

// CachedMarks 给逾期标记仓库加一层 Redis 快速路径
// 数据库仍是权威来源，缓存只省掉重复事件的落库查询
type CachedMarks struct {
	inner reminder.OverdueMarks
}

func NewCachedMarks(inner reminder.OverdueMarks) *CachedMarks {
	return &CachedMarks{inner: inner}
}

func (m *CachedMarks) Exists(ctx context.Context, eventID int64) (bool, error) {
	cached, err := IsOverdueMarked(ctx, eventID)
	if err != nil {
		// 缓存故障退回数据库
		logger.Logger.Warn("Overdue marker cache lookup failed",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
	} else if cached {
		return true, nil
	}

	exists, err := m.inner.Exists(ctx, eventID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := MarkOverdue(ctx, eventID); err != nil {
			logger.Logger.Warn("Failed to backfill overdue marker cache",
				zap.Int64("event_id", eventID),
				zap.Error(err),
			)
		}
	}
	return exists, nil
}

func (m *CachedMarks) Insert(ctx context.Context, eventID, sendTime int64) error {
	if err := m.inner.Insert(ctx, eventID, sendTime); err != nil {
		return err
	}

	if err := MarkOverdue(ctx, eventID); err != nil {
		logger.Logger.Warn("Failed to cache overdue marker",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
	}
	return nil
}
