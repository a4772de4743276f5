package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read and
// delete is scoped by owner; there is no unscoped accessor.
type TaskStore interface {
	// Create saves a new task. The task's OwnerID has already been set from
	// the authenticated caller.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner returns the owner's tasks, newest first.
	// Returns an empty slice when the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// DeleteByOwner atomically removes the task with the given ID if and only
	// if it belongs to ownerID, returning the removed task.
	// Returns ErrTaskNotFound when nothing matched.
	DeleteByOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}
