// Package cache defines the caching abstraction used for hot read paths and
// the view-counter buffer.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for caching operations. The Redis implementation
// backs multi-node deployments; the in-memory implementation backs the
// single-binary default.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an optional TTL.
	// If ttl is 0, the value doesn't expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX sets a value only if the key doesn't exist.
	// Returns true if the value was set, false if the key already exists.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Increment atomically increments an integer value, creating it at delta
	// if absent.
	Increment(ctx context.Context, key string, delta int64) (int64, error)
}

// Error represents a cache error type.
type Error string

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss Error = "cache miss"

	// ErrCacheUnavailable indicates the cache is unavailable.
	ErrCacheUnavailable Error = "cache unavailable"
)

func (e Error) Error() string {
	return string(e)
}
