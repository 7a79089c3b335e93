package cache

import (
	"context"
	"fmt"
	"time"

	"RemindHub/storage/redis"
)

const (
	messageProcessedPrefix = "message:processed"
	overdueMarkerPrefix    = "overdue:marked"

	processedTTL     = 48 * time.Hour
	overdueMarkerTTL = 72 * time.Hour
)

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message as processing: %w", err)
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}

// IsOverdueMarked 逾期标记的快速路径，避免每个候选事件都落库查询
// 缓存未命中不是权威答案，还要回查数据库
func IsOverdueMarked(ctx context.Context, eventID int64) (bool, error) {
	key := redis.Key(overdueMarkerPrefix, fmt.Sprintf("%d", eventID))
	n, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkOverdue 标记事件已补发，数据库标记落库后调用
func MarkOverdue(ctx context.Context, eventID int64) error {
	key := redis.Key(overdueMarkerPrefix, fmt.Sprintf("%d", eventID))
	return redis.Client().Set(ctx, key, "1", overdueMarkerTTL).Err()
}
