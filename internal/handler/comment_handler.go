package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/service"
)

// CommentHandler serves comment thread routes.
type CommentHandler struct {
	comments *service.CommentService
	logger   zerolog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(comments *service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger.With().Str("handler", "comment").Logger(),
	}
}

// ListByVideo handles GET /comments/{videoId}.
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.comments.ListByVideo(r.Context(), chi.URLParam(r, "id"),
		query.ParsePageRequest(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, page, "comments fetched successfully")
}

// Add handles POST /comments/{videoId}.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	comment, err := h.comments.Add(r.Context(), callerID(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, comment, "comment added successfully")
}

// Update handles PATCH /comments/{commentId}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), callerID(r), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, comment, "comment updated successfully")
}

// Delete handles DELETE /comments/{commentId}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), callerID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, nil, "comment deleted successfully")
}
