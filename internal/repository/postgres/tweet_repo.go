package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// tweetRepository implements repository.TweetRepository for PostgreSQL.
type tweetRepository struct {
	db *DB
}

// NewTweetRepository creates a new PostgreSQL tweet repository.
func NewTweetRepository(db *DB) repository.TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *domain.Tweet) error {
	query := `
		INSERT INTO tweets (id, content, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		tweet.ID,
		tweet.Content,
		tweet.OwnerID,
		tweet.CreatedAt,
		tweet.UpdatedAt,
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
		WHERE id = $1
	`

	tweet := &domain.Tweet{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&tweet.ID,
		&tweet.Content,
		&tweet.OwnerID,
		&tweet.CreatedAt,
		&tweet.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrTweetNotFound
		}
		return nil, fmt.Errorf("failed to get tweet: %w", err)
	}

	return tweet, nil
}

func (r *tweetRepository) Update(ctx context.Context, tweet *domain.Tweet) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE tweets SET content = $1, updated_at = $2 WHERE id = $3`,
		tweet.Content,
		tweet.UpdatedAt,
		tweet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tweet: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTweetNotFound
	}

	return nil
}

// Delete removes a tweet and its likes in one transaction.
func (r *tweetRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM likes WHERE kind = 'tweet' AND target_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete tweet likes: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete tweet: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrTweetNotFound
		}

		return nil
	})
}

// Ensure tweetRepository implements repository.TweetRepository.
var _ repository.TweetRepository = (*tweetRepository)(nil)
