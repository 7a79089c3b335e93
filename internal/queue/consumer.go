package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"RemindHub/internal/cache"
	"RemindHub/internal/reminder"
	"RemindHub/pkg/errors"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/mailer"
	"RemindHub/storage/mq"
)

// StartDeliveryConsumer 启动投递消费者
// 幂等性靠 Redis SETNX 的消息标记保证，重复消息直接跳过
func StartDeliveryConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg reminder.Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal delivery message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，不阻塞投递，可能重复
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		mail := mailer.Mail{
			From:      msg.From,
			FromName:  msg.FromName,
			To:        msg.To,
			Subject:   msg.Subject,
			PlainBody: msg.PlainBody,
			HTMLBody:  msg.HTMLBody,
			Headers:   append([]string{"Message-ID: <" + msg.MessageID + "@remindhub>"}, msg.Headers...),
		}

		if err := mailer.Send(ctx, mail); err != nil {
			// 投递失败取消标记，由 MQ 重投
			if unmarkErr := cache.UnmarkMessageProcessing(ctx, msg.MessageID); unmarkErr != nil {
				logger.Logger.Warn("Failed to unmark message after delivery failure",
					zap.String("message_id", msg.MessageID),
					zap.Error(unmarkErr),
				)
			}
			return fmt.Errorf("failed to deliver reminder mail: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		logger.Logger.Info("Reminder delivered",
			zap.String("message_id", msg.MessageID),
			zap.Int64("event_id", msg.EventID),
			zap.String("category", msg.Category),
		)
		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueDeliveries,
		ConsumerTag:   "reminder_delivery_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}
