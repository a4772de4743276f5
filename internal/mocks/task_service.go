package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateFn func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*service.CreateTaskResult, error)
	ListFn   func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	DeleteFn func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// Ensure MockTaskService implements service.TaskService interface
var _ service.TaskService = (*MockTaskService)(nil)

// Create implements the service.TaskService interface
func (m *MockTaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*service.CreateTaskResult, error) {
	return m.CreateFn(ctx, ownerID, input)
}

// List implements the service.TaskService interface
func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	return m.ListFn(ctx, ownerID)
}

// Delete implements the service.TaskService interface
func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return m.DeleteFn(ctx, ownerID, taskID)
}
