package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthTimeout bounds the database ping
const healthTimeout = 2 * time.Second

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{db: db, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "unreachable",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}
