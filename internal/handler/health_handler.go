package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/repository"
)

// HealthHandler reports liveness and store reachability.
type HealthHandler struct {
	db     repository.Health
	logger zerolog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db repository.Health, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error().Err(err).Msg("store ping failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(errorEnvelope{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "store unreachable",
			Success:    false,
			Errors:     []string{},
		})
		return
	}

	respond(w, http.StatusOK, map[string]string{"database": "ok"}, "health check")
}
