package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/service"
)

// SubscriptionHandler serves subscription toggle and listing routes.
type SubscriptionHandler struct {
	subs   *service.SubscriptionService
	logger zerolog.Logger
}

// NewSubscriptionHandler creates a SubscriptionHandler.
func NewSubscriptionHandler(subs *service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subs:   subs,
		logger: logger.With().Str("handler", "subscription").Logger(),
	}
}

// Toggle handles POST /subscriptions/channelId/{channelId}.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	res, err := h.subs.Toggle(r.Context(), callerID(r), chi.URLParam(r, "channelId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, res, "subscription toggled successfully")
}

// Subscribers handles GET /subscriptions/channelId/{channelId}.
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	docs, err := h.subs.Subscribers(r.Context(), chi.URLParam(r, "channelId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, docs, "subscribers fetched successfully")
}

// SubscribedChannels handles GET /subscriptions/userId/{subscriberId}.
func (h *SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) {
	docs, err := h.subs.SubscribedChannels(r.Context(), chi.URLParam(r, "subscriberId"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, docs, "subscribed channels fetched successfully")
}
