package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(t *testing.T, users *mocks.MockUserService) *AuthHandler {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	return NewAuthHandler(users, &mocks.MockJWTService{Token: "signed-token"}, log)
}

func TestSignup(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		user := testUser()
		var got service.RegisterInput
		h := newAuthHandler(t, &mocks.MockUserService{
			RegisterFn: func(_ context.Context, input service.RegisterInput) (*domain.User, error) {
				got = input
				return user, nil
			},
		})

		rec := httptest.NewRecorder()
		h.Signup(rec, newJSONRequest(t, http.MethodPost, "/api/signup", map[string]string{
			"firstName": "Ada",
			"lastName":  "Lovelace",
			"email":     "Ada@Example.com",
			"password":  "hunter22",
		}))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Ada@Example.com", got.Email)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "User registered successfully", resp.Message)
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "missing fields",
			err:     fmt.Errorf("register: %w", domain.NewMissingFieldsError("firstName", "email")),
			status:  http.StatusBadRequest,
			message: "Missing required fields: firstName, email",
		},
		{
			name:    "duplicate email",
			err:     fmt.Errorf("register: %w", store.ErrEmailExists),
			status:  http.StatusBadRequest,
			message: "Email already registered. Please use a different email or try logging in.",
		},
		{
			name:    "store down",
			err:     fmt.Errorf("register: %w", store.ErrStoreUnavailable),
			status:  http.StatusServiceUnavailable,
			message: "Service temporarily unavailable",
		},
		{
			name:    "unexpected",
			err:     fmt.Errorf("postgres://admin:pw@db/tasks exploded"),
			status:  http.StatusInternalServerError,
			message: "An error occurred during signup. Please try again.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newAuthHandler(t, &mocks.MockUserService{
				RegisterFn: func(context.Context, service.RegisterInput) (*domain.User, error) {
					return nil, tc.err
				},
			})

			rec := httptest.NewRecorder()
			h.Signup(rec, newJSONRequest(t, http.MethodPost, "/api/signup", map[string]string{}))

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Message)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()
		h := newAuthHandler(t, &mocks.MockUserService{})

		rec := httptest.NewRecorder()
		h.Signup(rec, newJSONRequest(t, http.MethodPost, "/api/signup", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request format", decodeError(t, rec).Message)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		user := testUser()
		h := newAuthHandler(t, &mocks.MockUserService{
			AuthenticateFn: func(_ context.Context, email, password string) (*domain.User, error) {
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "hunter22", password)
				return user, nil
			},
		})

		rec := httptest.NewRecorder()
		h.Login(rec, newJSONRequest(t, http.MethodPost, "/api/login", LoginRequest{
			Email:    "ada@example.com",
			Password: "hunter22",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "Ada", resp.User.FirstName)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()
		h := newAuthHandler(t, &mocks.MockUserService{
			AuthenticateFn: func(context.Context, string, string) (*domain.User, error) {
				return nil, service.ErrInvalidCredentials
			},
		})

		rec := httptest.NewRecorder()
		h.Login(rec, newJSONRequest(t, http.MethodPost, "/api/login", LoginRequest{Email: "x@example.com"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid login credentials", decodeError(t, rec).Message)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()
	h := newAuthHandler(t, &mocks.MockUserService{})

	t.Run("returns context user", func(t *testing.T) {
		t.Parallel()
		user := testUser()

		rec := httptest.NewRecorder()
		h.Me(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), user))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp UserResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.ID)
		assert.Equal(t, "ada@example.com", resp.Email)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("no user in context", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

}
