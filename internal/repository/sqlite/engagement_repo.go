package sqlite

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// likeRepository implements repository.LikeRepository for SQLite.
type likeRepository struct {
	db *DB
}

// NewLikeRepository creates a new SQLite like repository.
func NewLikeRepository(db *DB) repository.LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like. The unique index on (liked_by, kind, target_id)
// rejects a duplicate insert from a lost toggle race.
func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (id, kind, target_id, liked_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		like.ID,
		string(like.Kind),
		like.TargetID,
		like.LikedBy,
		formatTime(like.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRelationAlreadyExists
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

// Find returns the like for (likedBy, kind, targetID).
func (r *likeRepository) Find(ctx context.Context, likedBy string, kind domain.LikeKind, targetID string) (*domain.Like, error) {
	query := `
		SELECT id, kind, target_id, liked_by, created_at
		FROM likes
		WHERE liked_by = ? AND kind = ? AND target_id = ?
	`

	like := &domain.Like{}
	var kindStr, createdAt string

	err := r.db.QueryRowContext(ctx, query, likedBy, string(kind), targetID).Scan(
		&like.ID,
		&kindStr,
		&like.TargetID,
		&like.LikedBy,
		&createdAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRelationNotFound
		}
		return nil, fmt.Errorf("failed to find like: %w", err)
	}

	like.Kind = domain.LikeKind(kindStr)
	like.CreatedAt = parseTime(createdAt)

	return like, nil
}

// Delete removes a like by ID.
func (r *likeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRelationNotFound
	}

	return nil
}

// subscriptionRepository implements repository.SubscriptionRepository for SQLite.
type subscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new SQLite subscription repository.
func NewSubscriptionRepository(db *DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create inserts a subscription. The unique index on
// (subscriber_id, channel_id) is the toggle-race backstop.
func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID,
		sub.SubscriberID,
		sub.ChannelID,
		formatTime(sub.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrRelationAlreadyExists
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// Find returns the subscription for (subscriberID, channelID).
func (r *subscriptionRepository) Find(ctx context.Context, subscriberID, channelID string) (*domain.Subscription, error) {
	query := `
		SELECT id, subscriber_id, channel_id, created_at
		FROM subscriptions
		WHERE subscriber_id = ? AND channel_id = ?
	`

	sub := &domain.Subscription{}
	var createdAt string

	err := r.db.QueryRowContext(ctx, query, subscriberID, channelID).Scan(
		&sub.ID,
		&sub.SubscriberID,
		&sub.ChannelID,
		&createdAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRelationNotFound
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	sub.CreatedAt = parseTime(createdAt)

	return sub, nil
}

// Delete removes a subscription by ID.
func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRelationNotFound
	}

	return nil
}

var (
	_ repository.LikeRepository         = (*likeRepository)(nil)
	_ repository.SubscriptionRepository = (*subscriptionRepository)(nil)
)
