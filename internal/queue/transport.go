package queue

import (
	"context"

	"RemindHub/internal/reminder"
	"RemindHub/storage/mq"
)

// MQTransport 把渲染好的消息发进 RabbitMQ，由 worker 做最终投递
// 发布成功即视为 transport 已接收
type MQTransport struct{}

func NewTransport() *MQTransport {
	return &MQTransport{}
}

func (t *MQTransport) Send(ctx context.Context, msg reminder.Message) error {
	return mq.PublishMessage(mq.ExchangeReminders, mq.KeyDeliveries, msg)
}
