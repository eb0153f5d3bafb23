package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// tweetRepository implements repository.TweetRepository for SQLite.
type tweetRepository struct {
	db *DB
}

// NewTweetRepository creates a new SQLite tweet repository.
func NewTweetRepository(db *DB) repository.TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, content, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tweet.ID,
		tweet.Content,
		tweet.OwnerID,
		formatTime(tweet.CreatedAt),
		formatTime(tweet.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create tweet: %w", err)
	}

	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*domain.Tweet, error) {
	query := `
		SELECT id, content, owner_id, created_at, updated_at
		FROM tweets
		WHERE id = ?
	`

	tweet := &domain.Tweet{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tweet.ID,
		&tweet.Content,
		&tweet.OwnerID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}

	tweet.CreatedAt = parseTime(createdAt)
	tweet.UpdatedAt = parseTime(updatedAt)

	return tweet, nil
}

func (r *tweetRepository) Update(ctx context.Context, tweet *domain.Tweet) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tweets SET content = ?, updated_at = ? WHERE id = ?`,
		tweet.Content,
		formatTime(tweet.UpdatedAt),
		tweet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTweetNotFound
	}

	return nil
}

// Delete removes a tweet and its likes in one transaction.
func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM likes WHERE kind = 'tweet' AND target_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tweet likes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tweet: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return domain.ErrTweetNotFound
		}

		return nil
	})
}

// Ensure tweetRepository implements repository.TweetRepository.
var _ repository.TweetRepository = (*tweetRepository)(nil)
