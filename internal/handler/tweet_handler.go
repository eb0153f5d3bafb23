package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/service"
)

// TweetHandler serves tweet routes.
type TweetHandler struct {
	tweets *service.TweetService
	logger zerolog.Logger
}

// NewTweetHandler creates a TweetHandler.
func NewTweetHandler(tweets *service.TweetService, logger zerolog.Logger) *TweetHandler {
	return &TweetHandler{
		tweets: tweets,
		logger: logger.With().Str("handler", "tweet").Logger(),
	}
}

// Create handles POST /tweets.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	tweet, err := h.tweets.Create(r.Context(), callerID(r), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusCreated, tweet, "tweet created successfully")
}

// ListByUser handles GET /tweets/user/{userId}.
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	docs, err := h.tweets.ListByUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, docs, "tweets fetched successfully")
}

// Update handles PATCH /tweets/{tweetId}.
func (h *TweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	tweet, err := h.tweets.Update(r.Context(), callerID(r), chi.URLParam(r, "tweetId"), req.Content)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, tweet, "tweet updated successfully")
}

// Delete handles DELETE /tweets/{tweetId}.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tweets.Delete(r.Context(), callerID(r), chi.URLParam(r, "tweetId")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, nil, "tweet deleted successfully")
}
