package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/service"
)

// LikeHandler serves like toggle and liked-videos routes.
type LikeHandler struct {
	likes  *service.LikeService
	logger zerolog.Logger
}

// NewLikeHandler creates a LikeHandler.
func NewLikeHandler(likes *service.LikeService, logger zerolog.Logger) *LikeHandler {
	return &LikeHandler{
		likes:  likes,
		logger: logger.With().Str("handler", "like").Logger(),
	}
}

// ToggleVideo handles POST /likes/video/{videoId}.
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	res, err := h.likes.ToggleVideoLike(r.Context(), callerID(r), chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, res, "video like toggled successfully")
}

// ToggleComment handles POST /likes/comment/{commentId}.
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	res, err := h.likes.ToggleCommentLike(r.Context(), callerID(r), chi.URLParam(r, "commentId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, res, "comment like toggled successfully")
}

// ToggleTweet handles POST /likes/tweet/{tweetId}.
func (h *LikeHandler) ToggleTweet(w http.ResponseWriter, r *http.Request) {
	res, err := h.likes.ToggleTweetLike(r.Context(), callerID(r), chi.URLParam(r, "tweetId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, res, "tweet like toggled successfully")
}

// LikedVideos handles GET /likes/videos.
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	docs, err := h.likes.LikedVideos(r.Context(), callerID(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, docs, "liked videos fetched successfully")
}
