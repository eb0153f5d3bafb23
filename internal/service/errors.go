// Package service provides the per-resource business logic for ClipTube.
package service

import (
	"errors"
	"fmt"

	"github.com/cliptube/cliptube/internal/domain"
)

// ErrInternal hides store and blob-store failures from callers. The handler
// layer maps it to a generic 500; the original cause is logged, not exposed.
var ErrInternal = errors.New("internal server error")

// internalErr wraps an infrastructure failure as ErrInternal.
func internalErr(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// validateID rejects identifiers that do not have a valid shape before any
// store access. Invalid shape is a 400, distinct from a well-formed ID that
// matches nothing (404).
func validateID(id string) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}

// requireField rejects blank required request fields.
func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingField, name)
	}
	return nil
}
