package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/api"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/platform/metrics"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

type storeState bool

func (s storeState) Connected() bool { return bool(s) }

type testServer struct {
	handler       http.Handler
	notifications *mocks.MockNotificationQueue
}

func newTestServer(t *testing.T, rateLimit int, connected bool) *testServer {
	t.Helper()

	log, _ := logger.NewTestLogger(t)

	jwtService, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	userService, err := service.NewUserService(
		mocks.NewMockUserStore(),
		auth.NewBcryptHasher(4),
		log,
	)
	require.NoError(t, err)

	notifications := &mocks.MockNotificationQueue{}
	taskService := service.NewTaskService(mocks.NewMockTaskStore(), notifications, log)

	handler := newRouter(routerDeps{
		logger:        log,
		metrics:       metrics.NewWithRegistry(prometheus.NewRegistry()),
		jwtService:    jwtService,
		userService:   userService,
		taskService:   taskService,
		storeState:    storeState(connected),
		authRateLimit: rateLimit,
	})

	return &testServer{handler: handler, notifications: notifications}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) signup(t *testing.T, email string) api.AuthResponse {
	t.Helper()

	rr := s.do(t, http.MethodPost, "/api/signup", "", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     email,
		"password":  "correct horse",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t, 0, true)

	session := srv.signup(t, "ada@example.com")
	assert.Equal(t, "User registered successfully", session.Message)

	rr := srv.do(t, http.MethodGet, "/api/me", session.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var me api.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, session.User.ID, me.ID)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = srv.do(t, http.MethodPost, "/api/tasks", session.Token, map[string]string{
		"title":         "Write report",
		"assignee":      "Grace",
		"assigneeEmail": "grace@example.com",
		"priority":      "High",
		"status":        "To Do",
		"owner":         "00000000-0000-0000-0000-000000000000",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created api.CreateTaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Task created successfully", created.Message)
	assert.Equal(t, session.User.ID, created.Task.Owner, "owner comes from the session")
	assert.True(t, created.EmailSent)
	require.Len(t, srv.notifications.Sent(), 1)

	rr = srv.do(t, http.MethodGet, "/api/tasks", session.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks []api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.Task.ID, tasks[0].ID)

	rr = srv.do(t, http.MethodDelete, "/api/tasks/"+created.Task.ID.String(), session.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Task deleted successfully")

	rr = srv.do(t, http.MethodGet, "/api/tasks", session.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCreatedTaskListsWithIdenticalFields(t *testing.T) {
	srv := newTestServer(t, 0, true)
	session := srv.signup(t, "ada@example.com")

	rr := srv.do(t, http.MethodPost, "/api/tasks", session.Token, map[string]string{
		"title":         "Write spec",
		"description":   "First draft for review",
		"assignee":      "Bob",
		"assigneeEmail": "bob@x.com",
		"priority":      "High",
		"status":        "To Do",
		"dueDate":       "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created api.CreateTaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = srv.do(t, http.MethodGet, "/api/tasks", session.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tasks []api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	got := tasks[0]

	assert.Equal(t, created.Task.ID, got.ID)
	assert.Equal(t, "Write spec", got.Title)
	assert.Equal(t, "First draft for review", got.Description)
	assert.Equal(t, "Bob", got.Assignee)
	assert.Equal(t, "bob@x.com", got.AssigneeEmail)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, "To Do", got.Status)
	require.NotNil(t, got.DueDate)
	assert.True(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*got.DueDate), "due date %v", *got.DueDate)
	assert.Equal(t, session.User.ID, got.Owner)
	assert.True(t, created.Task.CreatedAt.Equal(got.CreatedAt),
		"createdAt differs: create=%v list=%v", created.Task.CreatedAt, got.CreatedAt)
	assert.Equal(t, created.Task, got)
}

func TestTasksAreOwnerScoped(t *testing.T) {
	srv := newTestServer(t, 0, true)

	owner := srv.signup(t, "owner@example.com")
	other := srv.signup(t, "other@example.com")

	rr := srv.do(t, http.MethodPost, "/api/tasks", owner.Token, map[string]string{
		"title":         "Private",
		"assignee":      "Grace",
		"assigneeEmail": "grace@example.com",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created api.CreateTaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = srv.do(t, http.MethodGet, "/api/tasks", other.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = srv.do(t, http.MethodDelete, "/api/tasks/"+created.Task.ID.String(), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Task not found", decodeErr(t, rr).Message)

	rr = srv.do(t, http.MethodGet, "/api/tasks", owner.Token, nil)
	var tasks []api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 1)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, 0, true)
	srv.signup(t, "ada@example.com")

	rr := srv.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "ADA@example.com",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Login successful")

	rr = srv.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid login credentials", decodeErr(t, rr).Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, 0, true)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodDelete, "/api/tasks/" + "5f0c1d2e-0000-4000-8000-000000000000"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := srv.do(t, route.method, route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			resp := decodeErr(t, rr)
			assert.Equal(t, "Please authenticate", resp.Message)
			assert.NotEmpty(t, resp.TraceID)
		})
	}

	rr := srv.do(t, http.MethodGet, "/api/tasks", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token", decodeErr(t, rr).Message)
}

func TestUnroutedPaths(t *testing.T) {
	srv := newTestServer(t, 0, true)
	session := srv.signup(t, "ada@example.com")

	rr := srv.do(t, http.MethodGet, "/api/tasks/5f0c1d2e-0000-4000-8000-000000000000", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Route not found", decodeErr(t, rr).Message)

	rr = srv.do(t, http.MethodPost, "/api/tasks/5f0c1d2e-0000-4000-8000-000000000000/reminder", session.Token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAuthRateLimit(t *testing.T) {
	srv := newTestServer(t, 2, true)

	body := map[string]string{"email": "nobody@example.com", "password": "x"}
	for i := 0; i < 2; i++ {
		rr := srv.do(t, http.MethodPost, "/api/login", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}

	rr := srv.do(t, http.MethodPost, "/api/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, decodeErr(t, rr).Message, "Too many requests")
}

func TestHealthEndpoint(t *testing.T) {
	rr := newTestServer(t, 0, true).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","database":"connected"}`, rr.Body.String())

	rr = newTestServer(t, 0, false).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "disconnected")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, 0, true)
	srv.do(t, http.MethodGet, "/health", "", nil)

	rr := srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tasktrack_http_requests_total")
}
