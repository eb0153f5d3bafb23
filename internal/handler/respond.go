// Package handler exposes the HTTP surface: one handler type per resource,
// a shared response envelope, and the error-to-status mapping.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/auth"
	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/service"
)

// envelope is the uniform success response body.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// errorEnvelope is the uniform error response body.
type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// respondError maps a service error onto the taxonomy: validation 400,
// unauthenticated 401, forbidden 403, not found 404, conflict 409, everything
// else a generic 500 that never leaks internals.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrInvalidUserName),
		errors.Is(err, domain.ErrSelfSubscription),
		errors.Is(err, domain.ErrVideoAlreadyInPlaylist):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenMismatch):
		status = http.StatusUnauthorized
		message = "unauthorized request"

	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = "forbidden"

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrVideoNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrTweetNotFound),
		errors.Is(err, domain.ErrPlaylistNotFound),
		errors.Is(err, domain.ErrRelationNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrRelationAlreadyExists):
		status = http.StatusConflict
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}

// decodeJSON parses a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrMissingField)
	}
	return nil
}

// callerID returns the authenticated user's ID, or empty when the request
// carries no identity.
func callerID(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return id.UserID
	}
	return ""
}

// formUpload reads a multipart file field into a service Upload. A missing
// optional field returns nil without error.
func formUpload(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	contentType := header.Header.Get("Content-Type")
	return &service.Upload{Reader: file, ContentType: contentType}, nil
}
