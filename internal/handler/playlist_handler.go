package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/service"
)

// PlaylistHandler serves playlist routes.
type PlaylistHandler struct {
	playlists *service.PlaylistService
	logger    zerolog.Logger
}

// NewPlaylistHandler creates a PlaylistHandler.
func NewPlaylistHandler(playlists *service.PlaylistService, logger zerolog.Logger) *PlaylistHandler {
	return &PlaylistHandler{
		playlists: playlists,
		logger:    logger.With().Str("handler", "playlist").Logger(),
	}
}

// Create handles POST /playlists.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	playlist, err := h.playlists.Create(r.Context(), callerID(r), req.Name, req.Description)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, playlist, "playlist created successfully")
}

// Get handles GET /playlists/{playlistId}.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.playlists.Get(r.Context(), chi.URLParam(r, "playlistId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, doc, "playlist fetched successfully")
}

// ListByUser handles GET /playlists/user/{userId}.
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	docs, err := h.playlists.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, docs, "playlists fetched successfully")
}

// Update handles PATCH /playlists/{playlistId}.
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	playlist, err := h.playlists.Update(r.Context(), callerID(r), chi.URLParam(r, "playlistId"), service.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, playlist, "playlist updated successfully")
}

// AddVideo handles PATCH /playlists/{playlistId}/videos/{videoId}.
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.AddVideo(r.Context(), callerID(r),
		chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, playlist, "video added to playlist successfully")
}

// RemoveVideo handles DELETE /playlists/{playlistId}/videos/{videoId}.
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.RemoveVideo(r.Context(), callerID(r),
		chi.URLParam(r, "playlistId"), chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, playlist, "video removed from playlist successfully")
}

// Delete handles DELETE /playlists/{playlistId}.
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.playlists.Delete(r.Context(), callerID(r), chi.URLParam(r, "playlistId")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, nil, "playlist deleted successfully")
}
