package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withUser attaches an authenticated user the way the auth middleware does.
func withUser(req *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, user.ID)
	ctx = context.WithValue(ctx, shared.UserContextKey, user)
	return req.WithContext(ctx)
}

// withURLParam sets a chi URL parameter on the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$secret-hash",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
