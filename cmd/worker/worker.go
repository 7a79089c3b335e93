package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"RemindHub/config"
	"RemindHub/internal/queue"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/mailer"
	"RemindHub/storage"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// worker 是唯一做最终投递的进程，SMTP 起不来就没必要跑
	if err := mailer.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize mail client", zap.Error(err))
	}

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 消费阻塞在 channel 上，关闭连接时自然退出
	go func() {
		if err := queue.StartDeliveryConsumer(ctx); err != nil {
			logger.Logger.Error("Delivery consumer exited", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
