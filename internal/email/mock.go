package email

import (
	"context"
	"fmt"
	"sync"
)

// MockSender is an in-memory Sender for testing.
type MockSender struct {
	mu sync.Mutex

	// SendFunc allows customizing send behavior
	SendFunc func(ctx context.Context, email *Email) (string, error)

	// Sent stores every delivered message
	Sent []*Email

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockSender creates a new mock sender.
func NewMockSender() *MockSender {
	return &MockSender{}
}

// Send records the email and returns a synthetic message ID.
func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("Send(%v, %q)", email.To, email.Subject))

	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}

	m.Sent = append(m.Sent, email)
	return fmt.Sprintf("mock-%d", len(m.Sent)), nil
}
