// Package domain contains the core business entities for ClipTube.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, blob store, etc.).

var (
	// ===========================================
	// Validation Errors
	// ===========================================

	// ErrInvalidID indicates an identifier does not have a valid shape.
	ErrInvalidID = errors.New("invalid id")

	// ErrMissingField indicates a required request field is absent or blank.
	ErrMissingField = errors.New("required field is missing")

	// ErrInvalidEmail indicates the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword indicates the password does not meet requirements.
	ErrInvalidPassword = errors.New("invalid password: must be at least 8 characters")

	// ErrInvalidUserName indicates the username does not meet requirements.
	ErrInvalidUserName = errors.New("invalid username: must be 3-64 characters")

	// ErrSelfSubscription indicates a user tried to subscribe to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")

	// ===========================================
	// Not Found Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrVideoNotFound indicates the requested video does not exist.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrTweetNotFound indicates the requested tweet does not exist.
	ErrTweetNotFound = errors.New("tweet not found")

	// ErrPlaylistNotFound indicates the requested playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrRelationNotFound indicates a like or subscription does not exist.
	ErrRelationNotFound = errors.New("relation not found")

	// ===========================================
	// Conflict Errors
	// ===========================================

	// ErrUserAlreadyExists indicates a user with the same username/email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRelationAlreadyExists indicates the (subject, object) relation exists.
	// Raised by the store's unique index when a toggle loses a race.
	ErrRelationAlreadyExists = errors.New("relation already exists")

	// ErrVideoAlreadyInPlaylist indicates the playlist already holds the video.
	ErrVideoAlreadyInPlaylist = errors.New("video already in playlist")

	// ===========================================
	// Authentication/Authorization Errors
	// ===========================================

	// ErrUnauthenticated indicates the request carries no resolvable identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials indicates login verification failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden indicates the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., video id, username).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
