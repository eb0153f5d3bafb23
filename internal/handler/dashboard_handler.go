package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/service"
)

// DashboardHandler serves the caller-scoped channel dashboard.
type DashboardHandler struct {
	dashboard *service.DashboardService
	videos    *service.VideoService
	logger    zerolog.Logger
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService, videos *service.VideoService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		videos:    videos,
		logger:    logger.With().Str("handler", "dashboard").Logger(),
	}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context(), callerID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, stats, "channel stats fetched successfully")
}

// Videos handles GET /dashboard/videos.
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.videos.ListByOwner(r.Context(), callerID(r), query.ParsePageRequest(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, page, "channel videos fetched successfully")
}
