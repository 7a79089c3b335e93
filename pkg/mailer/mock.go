package mailer

import (
	"context"
	"errors"
	"sync"
)

// MockClient 可配置的邮件客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Sent  []Mail

	// FailNext 置为 true 时，下一次调用返回 mock 错误并自动复位
	FailNext bool
	// FailAddresses 中的收件地址永远投递失败
	FailAddresses map[string]bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Sent:          make([]Mail, 0),
		FailAddresses: make(map[string]bool),
	}
}

func (m *MockClient) Send(ctx context.Context, mail Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return errors.New("mock mail send failure")
	}
	if m.FailAddresses[mail.To] {
		return errors.New("mock mail send failure for " + mail.To)
	}

	m.Sent = append(m.Sent, mail)
	return nil
}

// SentTo 返回已成功投递到给定地址的封数
func (m *MockClient) SentTo(addr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, mail := range m.Sent {
		if mail.To == addr {
			n++
		}
	}
	return n
}
