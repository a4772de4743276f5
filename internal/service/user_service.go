package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// RegisterInput carries raw signup fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService is the credential store: it registers users, checks their
// passwords and resolves them by ID.
type UserService interface {
	// Register creates a new user. Returns a *domain.ValidationError for bad
	// input and store.ErrEmailExists when the email is taken.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate returns the user whose email and password match.
	// Returns ErrInvalidCredentials for any mismatch.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetByID retrieves a user by their ID.
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	logger    *slog.Logger

	// dummyHash is compared against when the email is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	dummyHash, err := hasher.Hash("tasktrack-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger.With("component", "user_service"),
		dummyHash: dummyHash,
	}, nil
}

// Register validates the input, hashes the password and stores the user.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateSignup(input.FirstName, input.LastName, input.Email, input.Password); err != nil {
		s.logger.Debug("signup rejected by validation", "error", err)
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)

	// Early duplicate check; the store's unique constraint still settles races.
	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		s.logger.Debug("attempted to register with existing email",
			"email", redact.Email(email))
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		s.logger.Error("failed to check for existing user",
			"error", redact.Error(err))
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(input.FirstName, input.LastName, email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("lost signup race on existing email",
				"email", redact.Email(email))
		} else {
			s.logger.Error("failed to save user",
				"error", redact.Error(err))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)

	return user, nil
}

// Authenticate checks an email and password pair.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		_ = s.hasher.Compare(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			s.logger.Debug("login attempt for unknown email",
				"email", redact.Email(email))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login",
			"error", redact.Error(err))
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login attempt with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (s *UserServiceImpl) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found", "user_id", userID)
		} else {
			s.logger.Error("failed to retrieve user",
				"error", redact.Error(err),
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}
