package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"RemindHub/config"
	"RemindHub/internal/schedule"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/snowflake"
	"RemindHub/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	ctx := context.Background()

	scheduler := schedule.GetScheduler()

	c := cron.New()

	if _, err := c.AddFunc(config.Cfg.ReminderCron, func() {
		if err := scheduler.RunReminderCycle(ctx); err != nil {
			logger.Logger.Error("Reminder cycle failed", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Failed to register reminder cycle job",
			zap.String("cron", config.Cfg.ReminderCron),
			zap.Error(err),
		)
	}

	if _, err := c.AddFunc(config.Cfg.OverdueCron, func() {
		if err := scheduler.RunOverdueCycle(ctx); err != nil {
			logger.Logger.Error("Overdue cycle failed", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Failed to register overdue cycle job",
			zap.String("cron", config.Cfg.OverdueCron),
			zap.Error(err),
		)
	}

	if _, err := c.AddFunc(config.Cfg.CleanLogCron, func() {
		if err := scheduler.CleanScanLog(ctx); err != nil {
			logger.Logger.Error("Scan log cleanup failed", zap.Error(err))
		}
	}); err != nil {
		logger.Logger.Fatal("Failed to register scan log cleanup job",
			zap.String("cron", config.Cfg.CleanLogCron),
			zap.Error(err),
		)
	}

	c.Start()

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("reminder_cron", config.Cfg.ReminderCron),
		zap.String("overdue_cron", config.Cfg.OverdueCron),
		zap.String("clean_log_cron", config.Cfg.CleanLogCron),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.Logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// 等待运行中的任务结束再退出
	<-c.Stop().Done()

	logger.Logger.Info("Scheduler service stopped")
}
