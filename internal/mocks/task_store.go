package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Without function
// overrides it keeps tasks in memory and applies the same owner scoping as
// the real stores.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	ListByOwnerFn   func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	DeleteByOwnerFn func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Err, when set, is returned by every default implementation.
	Err error

	mu    sync.RWMutex
	Tasks map[uuid.UUID]*domain.Task
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[uuid.UUID]*domain.Task)}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *task
	m.Tasks[task.ID] = &stored
	return nil
}

// ListByOwner implements the TaskStore interface
func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.OwnerID == ownerID {
			found := *task
			tasks = append(tasks, &found)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID.String() < tasks[j].ID.String()
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// DeleteByOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteByOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteByOwnerFn != nil {
		return m.DeleteByOwnerFn(ctx, ownerID, taskID)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.Tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	delete(m.Tasks, taskID)
	return task, nil
}
