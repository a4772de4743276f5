package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/notify"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// CreateTaskInput carries client-supplied task fields. There is no owner
// field: ownership always comes from the authenticated caller.
type CreateTaskInput struct {
	Title         string
	Description   string
	Assignee      string
	AssigneeEmail string
	Priority      string
	Status        string
	DueDate       string
}

// CreateTaskResult is returned by TaskService.Create.
type CreateTaskResult struct {
	Task *domain.Task
	// EmailSent reports that a notification was scheduled for the assignee
	// address, not that it was delivered.
	EmailSent bool
}

// NotificationQueue accepts notifications without blocking.
type NotificationQueue interface {
	Enqueue(msg notify.Message) error
}

// TaskService is the owner-scoped task repository.
type TaskService interface {
	// Create validates and stores a task owned by ownerID, then schedules the
	// assignee notification.
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*CreateTaskResult, error)

	// List returns ownerID's tasks, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// Delete removes one of ownerID's tasks. Returns store.ErrTaskNotFound
	// when the task does not exist or belongs to someone else.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore     store.TaskStore
	notifications NotificationQueue
	logger        *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(
	taskStore store.TaskStore,
	notifications NotificationQueue,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore:     taskStore,
		notifications: notifications,
		logger:        logger.With("component", "task_service"),
	}
}

// Create stores the task and schedules the notification. A notification that
// cannot be scheduled is logged and otherwise ignored.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*CreateTaskResult, error) {
	task, err := domain.NewTask(ownerID, domain.TaskFields{
		Title:         input.Title,
		Description:   input.Description,
		Assignee:      input.Assignee,
		AssigneeEmail: input.AssigneeEmail,
		Priority:      input.Priority,
		Status:        input.Status,
		DueDate:       input.DueDate,
	})
	if err != nil {
		s.logger.Debug("task rejected by validation",
			"owner_id", ownerID,
			"error", err)
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to save task",
			"error", redact.Error(err),
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", ownerID)

	emailSent := task.AssigneeEmail != ""
	if emailSent && s.notifications != nil {
		if err := s.notifications.Enqueue(notify.NewTaskAssigned(task)); err != nil {
			s.logger.Warn("task notification dropped",
				"task_id", task.ID,
				"error", err)
		}
	}

	return &CreateTaskResult{Task: task, EmailSent: emailSent}, nil
}

// List returns the owner's tasks.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", redact.Error(err),
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Delete removes the owner's task in a single owner-scoped store operation.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.DeleteByOwner(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found for owner",
				"task_id", taskID,
				"owner_id", ownerID)
		} else {
			s.logger.Error("failed to delete task",
				"error", redact.Error(err),
				"task_id", taskID,
				"owner_id", ownerID)
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("task deleted",
		"task_id", taskID,
		"owner_id", ownerID)

	return task, nil
}
