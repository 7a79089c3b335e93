package reminder

import (
	"context"

	"go.uber.org/zap"

	"RemindHub/pkg/logger"
)

// Dispatcher 逐个收件人渲染并投递
// 单个收件人的失败只计数，从不中断批次
type Dispatcher struct {
	transport Transport
	renderer  *Renderer

	// 消息 ID 生成器，测试时可注入固定实现
	newID func() string
}

func NewDispatcher(transport Transport, renderer *Renderer, newID func() string) *Dispatcher {
	return &Dispatcher{transport: transport, renderer: renderer, newID: newID}
}

// Dispatch 投递一个 ReminderRef 的全部收件人
func (d *Dispatcher) Dispatch(ctx context.Context, ref *ReminderRef, cfg Config) DispatchOutcome {
	var outcome DispatchOutcome

	for i := range ref.Recipients {
		user := &ref.Recipients[i]
		if user.Email == "" {
			continue
		}

		msg := d.renderer.RenderForRecipient(ref.Template, ref.Event, user, cfg, d.newID())
		if err := d.transport.Send(ctx, msg); err != nil {
			outcome.Failed++
			logger.Logger.Error("Failed to send reminder",
				zap.Int64("event_id", ref.Event.ID),
				zap.Int64("user_id", user.ID),
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			continue
		}
		outcome.Sent++
	}

	// 释放模板与收件人集合，帮助大批次尽早回收
	ref.Template = nil
	ref.Recipients = nil

	return outcome
}
