// Package auth provides password hashing, JWT session tokens, and the
// caller-identity middleware.
package auth

import "errors"

var (
	// ErrMissingToken indicates no credentials accompanied the request.
	ErrMissingToken = errors.New("missing access token")

	// ErrInvalidToken indicates the token failed verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenMismatch indicates a refresh token that verifies but is not
	// the one currently stored for the user (rotated or revoked).
	ErrTokenMismatch = errors.New("refresh token is expired or already used")
)
