package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))

	ctx := SetTraceID(context.Background())
	first := GetTraceID(ctx)
	assert.Len(t, first, TraceIDLength*2)
	assert.NotEqual(t, first, GetTraceID(SetTraceID(context.Background())))
	assert.Len(t, generateFallbackTraceID(), TraceIDLength*2)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()
	log, buf := logger.NewTestLogger(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	ctx := logger.WithLogger(SetTraceID(req.Context()), log)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to fetch tasks",
		errors.New("connect postgres://admin:hunter2@db:5432/tasks failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"message":"Failed to fetch tasks","trace_id":"`+GetTraceID(ctx)+`"}`,
		rec.Body.String())

	logged := buf.String()
	assert.Contains(t, logged, "API error response")
	assert.NotContains(t, logged, "hunter2")
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"required,max=5"`
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
		require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &p))
		assert.Equal(t, "ok", p.Name)
		assert.NoError(t, ValidateRequest(p))
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var p payload
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"} {}`))
		assert.Error(t, DecodeJSON(httptest.NewRecorder(), req, &p))
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		var p payload
		body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), req, &p), ErrBodyTooLarge)
	})

	t.Run("struct validation", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, ValidateRequest(payload{Name: "too long"}))
	})
}
