package mocks

import (
	"sync"

	"github.com/phrazzld/tasktrack-api/internal/notify"
)

// MockNotificationQueue records enqueued notifications.
type MockNotificationQueue struct {
	// Err, when set, is returned by Enqueue and the message is not recorded.
	Err error

	mu       sync.Mutex
	Messages []notify.Message
}

// Enqueue implements service.NotificationQueue
func (m *MockNotificationQueue) Enqueue(msg notify.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockNotificationQueue) Sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.Messages))
	copy(out, m.Messages)
	return out
}
