package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, userStore store.UserStore) (*service.UserServiceImpl, *mocks.MockPasswordHasher) {
	t.Helper()

	log, _ := logger.NewTestLogger(t)
	hasher := &mocks.MockPasswordHasher{}
	svc, err := service.NewUserService(userStore, hasher, log)
	require.NoError(t, err)
	return svc, hasher
}

func validRegistration() service.RegisterInput {
	return service.RegisterInput{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     " Ada@Example.com ",
		Password:  "s3cret-pass",
	}
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("stores normalized user with hashed password", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		svc, _ := newUserService(t, userStore)

		user, err := svc.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Ada", user.FirstName)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.NotEqual(t, "s3cret-pass", user.HashedPassword)

		stored, err := userStore.GetByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		svc, _ := newUserService(t, mocks.NewMockUserStore())
		_, err := svc.Register(context.Background(), service.RegisterInput{LastName: "Lovelace", Password: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, "Missing required fields: firstName, email", err.Error())
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		userStore := mocks.NewMockUserStore()
		svc, _ := newUserService(t, userStore)

		_, err := svc.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		input := validRegistration()
		input.Email = "ADA@example.com"
		_, err = svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.Len(t, userStore.Users, 1)
	})

	t.Run("duplicate detected by store constraint", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.TestifyMockUserStore{}
		userStore.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, store.ErrUserNotFound)
		userStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(store.ErrEmailExists)

		svc, _ := newUserService(t, userStore)
		_, err := svc.Register(context.Background(), validRegistration())

		assert.ErrorIs(t, err, store.ErrEmailExists)
		userStore.AssertExpectations(t)
	})

	t.Run("store unavailable", func(t *testing.T) {
		t.Parallel()

		userStore := &mocks.TestifyMockUserStore{}
		userStore.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, store.ErrStoreUnavailable)

		svc, _ := newUserService(t, userStore)
		_, err := svc.Register(context.Background(), validRegistration())

		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc, hasher := newUserService(t, userStore)

	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "ADA@example.com ", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		before := hasher.Calls()

		_, wrongPassErr := svc.Authenticate(context.Background(), "ada@example.com", "nope")
		_, unknownErr := svc.Authenticate(context.Background(), "nobody@example.com", "nope")

		assert.ErrorIs(t, wrongPassErr, service.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
		assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
		assert.Equal(t, before+2, hasher.Calls(), "both paths perform one comparison")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "", "")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		failing := mocks.NewMockUserStore()
		failing.GetByEmailError = store.ErrStoreUnavailable
		svc, _ := newUserService(t, failing)

		_, err := svc.Authenticate(context.Background(), "ada@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
		assert.False(t, errors.Is(err, service.ErrInvalidCredentials))
	})
}

func TestUserService_GetByID(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	svc, _ := newUserService(t, userStore)

	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, err := svc.GetByID(context.Background(), registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
