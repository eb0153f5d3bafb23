package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// videoRepository implements repository.VideoRepository for PostgreSQL.
type videoRepository struct {
	db *DB
}

// NewVideoRepository creates a new PostgreSQL video repository.
func NewVideoRepository(db *DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// Create creates a new video record.
func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, video_url, thumbnail_url, title, description,
			duration_seconds, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.DurationSeconds,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by ID.
func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := `
		SELECT id, owner_id, video_url, thumbnail_url, title, description,
			duration_seconds, views, is_published, created_at, updated_at
		FROM videos
		WHERE id = $1
	`

	video := &domain.Video{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Title,
		&video.Description,
		&video.DurationSeconds,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// Update updates an existing video.
func (r *videoRepository) Update(ctx context.Context, video *domain.Video) error {
	query := `
		UPDATE videos
		SET video_url = $1, thumbnail_url = $2, title = $3, description = $4,
			duration_seconds = $5, is_published = $6, updated_at = $7
		WHERE id = $8
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.DurationSeconds,
		video.IsPublished,
		video.UpdatedAt,
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// AddViews adds delta to the persisted view counter.
func (r *videoRepository) AddViews(ctx context.Context, id string, delta int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE videos SET views = views + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// Delete hard-deletes a video and cascades to its dependents. Comments,
// playlist membership, and watch history cascade through foreign keys; likes
// reference their subject polymorphically, so they are swept in the same
// transaction.
func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM likes
			WHERE (kind = 'video' AND target_id = $1)
			   OR (kind = 'comment' AND target_id IN (SELECT id FROM comments WHERE video_id = $1))
		`, id)
		if err != nil {
			return fmt.Errorf("failed to delete video likes: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrVideoNotFound
		}

		return nil
	})
}

// Ensure videoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*videoRepository)(nil)
