package cache

import (
	"context"
	"time"

	"RemindHub/storage/redis"
)

// SetNX 实现的分布式锁，挡住重叠的扫描周期
// 手动触发与 cron 触发可能同时到来
const (
	lockPrefix = "lock"

	// 锁名
	LockReminderCycle = "reminder_cycle"
	LockOverdueCycle  = "overdue_cycle"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}
