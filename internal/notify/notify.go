package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

var (
	// ErrNotification wraps every delivery failure reported by a Notifier.
	ErrNotification = errors.New("notification failed")

	// ErrNotConfigured is returned by a sink that lacks the credentials it
	// needs. The message is skipped rather than failed.
	ErrNotConfigured = errors.New("notification sink not configured")

	// ErrQueueFull is returned by Enqueue when the dispatcher queue has no room.
	ErrQueueFull = errors.New("notification queue is full")

	// ErrDispatcherStopped is returned by Enqueue after Stop.
	ErrDispatcherStopped = errors.New("notification dispatcher is stopped")
)

// Message describes a task that has been assigned to someone.
type Message struct {
	TaskID        uuid.UUID  `json:"taskId"`
	OwnerID       uuid.UUID  `json:"ownerId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Assignee      string     `json:"assignee"`
	AssigneeEmail string     `json:"assigneeEmail"`
	Priority      string     `json:"priority,omitempty"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NewTaskAssigned builds the notification for a freshly created task.
func NewTaskAssigned(task *domain.Task) Message {
	return Message{
		TaskID:        task.ID,
		OwnerID:       task.OwnerID,
		Title:         task.Title,
		Description:   task.Description,
		Assignee:      task.Assignee,
		AssigneeEmail: task.AssigneeEmail,
		Priority:      string(task.Priority),
		Status:        string(task.Status),
		DueDate:       task.DueDate,
		CreatedAt:     task.CreatedAt,
	}
}

// Notifier delivers a single message over one transport.
type Notifier interface {
	// Notify attempts delivery once. Errors wrap ErrNotification or
	// ErrNotConfigured.
	Notify(ctx context.Context, msg Message) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg Message) error

// Notify calls f(ctx, msg).
func (f NotifierFunc) Notify(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Delivery outcomes reported to a Recorder.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
	ResultDropped = "dropped"
)

// Recorder observes delivery outcomes, typically for metrics.
type Recorder interface {
	RecordNotification(result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordNotification(string) {}
