package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/service"
)

// VideoHandler serves video listing, detail, and lifecycle routes.
type VideoHandler struct {
	videos        *service.VideoService
	maxUploadSize int64
	logger        zerolog.Logger
}

// NewVideoHandler creates a VideoHandler.
func NewVideoHandler(videos *service.VideoService, maxUploadSize int64, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		videos:        videos,
		maxUploadSize: maxUploadSize,
		logger:        logger.With().Str("handler", "video").Logger(),
	}
}

// List handles GET /videos.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.videos.List(r.Context(), service.ListVideosInput{
		Query:    q.Get("query"),
		OwnerID:  q.Get("userId"),
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
		Page:     query.ParsePageRequest(q.Get("page"), q.Get("limit")),
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, page, "videos fetched successfully")
}

// Get handles GET /videos/{videoId}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.videos.Get(r.Context(), callerID(r), chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, doc, "video fetched successfully")
}

// Publish handles POST /videos (multipart).
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondError(w, h.logger, domain.ErrMissingField)
		return
	}

	media, err := formUpload(r, "videoFile")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	video, err := h.videos.Publish(r.Context(), callerID(r), service.PublishVideoInput{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		DurationSeconds: duration,
		Media:           media,
		Thumbnail:       thumbnail,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, video, "video published successfully")
}

// Update handles PATCH /videos/{videoId} (multipart, thumbnail optional).
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		respondError(w, h.logger, domain.ErrMissingField)
		return
	}

	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	video, err := h.videos.Update(r.Context(), callerID(r), chi.URLParam(r, "videoId"), service.UpdateVideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, video, "video updated successfully")
}

// Delete handles DELETE /videos/{videoId}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.videos.Delete(r.Context(), callerID(r), chi.URLParam(r, "videoId")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, nil, "video deleted successfully")
}

// TogglePublish handles PATCH /videos/{videoId}/toggle-publish.
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := h.videos.TogglePublish(r.Context(), callerID(r), chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, video, "publish status toggled successfully")
}

// Mine handles GET /videos/my: the caller's videos including unpublished.
func (h *VideoHandler) Mine(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.videos.ListByOwner(r.Context(), callerID(r), query.ParsePageRequest(q.Get("page"), q.Get("limit")))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, page, "videos fetched successfully")
}
