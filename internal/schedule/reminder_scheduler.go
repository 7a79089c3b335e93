package schedule

// 提醒调度器：按 cron 周期驱动扫描窗口、逾期补发与日志清理

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"RemindHub/config"
	"RemindHub/internal/cache"
	"RemindHub/internal/queue"
	"RemindHub/internal/reminder"
	"RemindHub/internal/repository"
	"RemindHub/pkg/errors"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/snowflake"
)

var (
	schedulerOnce sync.Once
	schedulerInst *ReminderScheduler
)

type ReminderScheduler struct {
	logger  *zap.Logger
	engine  *reminder.Engine
	scanLog *repository.ScanLogRepo

	lastCycleTime time.Time
}

func GetScheduler() *ReminderScheduler {
	schedulerOnce.Do(func() {
		scanLog := repository.NewScanLogRepo()

		engine := reminder.NewEngine(reminder.EngineDeps{
			Events:    repository.NewEventRepo(),
			Directory: repository.NewDirectoryRepo(),
			Courses:   repository.NewCourseRepo(),
			Overrides: repository.NewOverrideRepo(),
			ScanLog:   scanLog,
			Marks:     cache.NewCachedMarks(repository.NewMarkerRepo()),
			Transport: queue.NewTransport(),
			NewID:     nextMessageID,
		})

		schedulerInst = &ReminderScheduler{
			logger:  logger.Logger,
			engine:  engine,
			scanLog: scanLog,
		}
	})
	return schedulerInst
}

// nextMessageID 消息 ID 优先用 snowflake，节点未初始化时退回 uuid
func nextMessageID() string {
	id, err := snowflake.NextString()
	if err != nil {
		return uuid.NewString()
	}
	return id
}

// Engine 暴露给管理接口做手动触发和变更广播
func (s *ReminderScheduler) Engine() *reminder.Engine {
	return s.engine
}

// RunReminderCycle 执行一个提醒扫描周期
// 分布式锁挡住 cron 与手动触发的重叠
func (s *ReminderScheduler) RunReminderCycle(ctx context.Context) error {
	locked, err := cache.TryLock(ctx, cache.LockReminderCycle, 10*time.Minute)
	if err != nil {
		return err
	}
	if !locked {
		s.logger.Info("Reminder cycle already running, skipping")
		return errors.CycleAlreadyActive
	}
	defer func() {
		if err := cache.Unlock(ctx, cache.LockReminderCycle); err != nil {
			s.logger.Warn("Failed to release reminder cycle lock", zap.Error(err))
		}
	}()

	s.lastCycleTime = time.Now()

	outcome, err := s.engine.RunCycle(ctx, reminder.Snapshot())
	if err != nil {
		return err
	}

	s.logger.Info("Reminder cycle completed",
		zap.Int("events_selected", outcome.EventsSelected),
		zap.Int("events_sent", outcome.EventsSent),
		zap.Int("sent", outcome.Sent),
		zap.Int("failed", outcome.Failed),
	)
	return nil
}

// RunOverdueCycle 执行一次逾期补发扫描
func (s *ReminderScheduler) RunOverdueCycle(ctx context.Context) error {
	locked, err := cache.TryLock(ctx, cache.LockOverdueCycle, 10*time.Minute)
	if err != nil {
		return err
	}
	if !locked {
		s.logger.Info("Overdue cycle already running, skipping")
		return errors.CycleAlreadyActive
	}
	defer func() {
		if err := cache.Unlock(ctx, cache.LockOverdueCycle); err != nil {
			s.logger.Warn("Failed to release overdue cycle lock", zap.Error(err))
		}
	}()

	outcome, err := s.engine.RunOverdue(ctx, reminder.Snapshot())
	if err != nil {
		return err
	}

	s.logger.Info("Overdue cycle completed",
		zap.Int("events_selected", outcome.EventsSelected),
		zap.Int("events_sent", outcome.EventsSent),
		zap.Int("failed", outcome.Failed),
	)
	return nil
}

// CleanScanLog 清理保留期之外的扫描日志
func (s *ReminderScheduler) CleanScanLog(ctx context.Context) error {
	retention := int64(config.Cfg.ScanLogRetentionDays) * 86400
	cutoff := time.Now().Unix() - retention

	deleted, err := s.scanLog.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	s.logger.Info("Scan log cleaned",
		zap.Int64("deleted", deleted),
		zap.Int64("cutoff", cutoff),
	)
	return nil
}
