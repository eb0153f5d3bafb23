package domain

import "github.com/google/uuid"

// NewID returns a new entity identifier. IDs are UUIDv7 strings, so they are
// opaque, globally unique, and sort by creation time.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ValidID reports whether s has the shape of an entity identifier.
// It says nothing about whether the entity exists.
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
