package app

import (
	"sync"

	"gatherly_backend/internal/email"
	"gatherly_backend/internal/logger"
)

// MockEmailProvider records messages instead of sending them. Used when
// no SMTP host is configured (local development and tests).
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []*email.Email
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (m *MockEmailProvider) Send(msg *email.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	logger.Debug("mock email captured", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendVerification(to, token string) error {
	return m.Send(&email.Email{
		To:      []string{to},
		Subject: "Verify your email",
		Body:    token,
	})
}

func (m *MockEmailProvider) Validate() error { return nil }

func (m *MockEmailProvider) Close() error { return nil }
