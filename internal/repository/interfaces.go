// Package repository defines data access interfaces for ClipTube.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user. Returns domain.ErrUserAlreadyExists when the
	// store's unique index on username or email rejects the row; the index,
	// not the caller's pre-check, closes the race window.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByUserName retrieves a user by normalized username.
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error

	// UpdateRefreshTokenHash rotates the stored refresh-token hash.
	// An empty hash logs the user out.
	UpdateRefreshTokenHash(ctx context.Context, id, hash string) error

	// AddWatchHistory appends a video to the user's watch history if absent.
	// The operation is idempotent (set-union).
	AddWatchHistory(ctx context.Context, userID, videoID string) error

	// ExistsByUserName checks if a user with the given username exists.
	ExistsByUserName(ctx context.Context, userName string) (bool, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// =============================================================================
// Video Repository
// =============================================================================

// VideoRepository defines the interface for video data access.
type VideoRepository interface {
	// Create creates a new video record.
	Create(ctx context.Context, video *domain.Video) error

	// GetByID retrieves a video by ID.
	GetByID(ctx context.Context, id string) (*domain.Video, error)

	// Update updates an existing video.
	Update(ctx context.Context, video *domain.Video) error

	// AddViews adds delta to the persisted view counter. Best-effort callers
	// tolerate failure; the counter is an engagement metric, not a ledger.
	AddViews(ctx context.Context, id string, delta int64) error

	// Delete hard-deletes a video. Dependent comments, likes, and playlist
	// membership cascade at the store level.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Comment Repository
// =============================================================================

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Like Repository
// =============================================================================

// LikeRepository defines the interface for like data access.
// Likes form a toggle relation; the unique index on
// (liked_by, kind, target_id) is the correctness backstop for concurrent
// toggles.
type LikeRepository interface {
	// Create inserts a like. Returns domain.ErrRelationAlreadyExists when the
	// unique index rejects a duplicate (a lost toggle race).
	Create(ctx context.Context, like *domain.Like) error

	// Find returns the like for (likedBy, kind, targetID), or
	// domain.ErrRelationNotFound.
	Find(ctx context.Context, likedBy string, kind domain.LikeKind, targetID string) (*domain.Like, error)

	// Delete removes a like by ID.
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Subscription Repository
// =============================================================================

// SubscriptionRepository defines the interface for subscription data access.
// Same toggle semantics as likes, keyed by (subscriber, channel).
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Find(ctx context.Context, subscriberID, channelID string) (*domain.Subscription, error)
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Tweet Repository
// =============================================================================

// TweetRepository defines the interface for tweet data access.
type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	GetByID(ctx context.Context, id string) (*domain.Tweet, error)
	Update(ctx context.Context, tweet *domain.Tweet) error
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Playlist Repository
// =============================================================================

// PlaylistRepository defines the interface for playlist data access.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByID(ctx context.Context, id string) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error)

	// Update persists name, description, and the ordered video sequence.
	Update(ctx context.Context, playlist *domain.Playlist) error

	Delete(ctx context.Context, id string) error
}

// =============================================================================
// Store
// =============================================================================

// Store bundles every repository plus the collection source the query engine
// reads from. The source scans collections in creation order, which gives
// pipelines their documented default ordering.
type Store struct {
	Users         UserRepository
	Videos        VideoRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Subscriptions SubscriptionRepository
	Tweets        TweetRepository
	Playlists     PlaylistRepository
	Source        query.Source
}

// Health is an interface for database health checks and teardown, satisfied
// by both driver packages.
type Health interface {
	Ping(ctx context.Context) error
	Close() error
}
