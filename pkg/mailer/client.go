package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"RemindHub/config"
	"RemindHub/pkg/logger"
)

// Mail 一封待投递的提醒邮件。
type Mail struct {
	From     string
	FromName string
	To       string
	Subject  string
	PlainBody string
	HTMLBody  string
	// 附加头部，例如 Message-ID、X-Course-Id 等
	Headers []string
}

// Client 邮件客户端接口
type Client interface {
	// Send 投递单封邮件，返回 nil 表示被下游接受
	Send(ctx context.Context, mail Mail) error
}

var (
	mailClient Client
	mailOnce   sync.Once
	mailErr    error
)

// Init 初始化邮件客户端
func Init() error {
	mailOnce.Do(func() {
		cfg := config.Cfg

		if cfg.SMTPHost == "" {
			mailErr = errNoSMTPHost
			return
		}

		mailClient = NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

		logger.Logger.Info("Mail client initialized successfully",
			zap.String("smtp_host", cfg.SMTPHost),
			zap.String("smtp_port", cfg.SMTPPort),
		)
	})

	return mailErr
}

// SetClient 覆盖全局客户端，仅供测试注入 mock 使用。
func SetClient(c Client) {
	mailClient = c
}

func GetClient() Client {
	if mailClient == nil {
		panic("mail client not initialized, call mailer.Init() first")
	}
	return mailClient
}

func Send(ctx context.Context, mail Mail) error {
	return GetClient().Send(ctx, mail)
}
