package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn     func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	GetByIDFn      func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Ensure MockUserService implements service.UserService interface
var _ service.UserService = (*MockUserService)(nil)

// Register implements the service.UserService interface
func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	return m.RegisterFn(ctx, input)
}

// Authenticate implements the service.UserService interface
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.AuthenticateFn(ctx, email, password)
}

// GetByID implements the service.UserService interface
func (m *MockUserService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.GetByIDFn(ctx, userID)
}
