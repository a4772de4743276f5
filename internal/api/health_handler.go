package api

import (
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
)

// ConnectionState reports whether the record store is reachable.
// The persistence gateway implements it.
type ConnectionState interface {
	Connected() bool
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	store ConnectionState
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store ConnectionState) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health reports 200 while the store is connected and 503 otherwise. The
// process itself stays up either way.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.store.Connected() {
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status:   "degraded",
			Database: "disconnected",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "ok",
		Database: "connected",
	})
}
