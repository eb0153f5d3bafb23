package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// videoRepository implements repository.VideoRepository for SQLite.
type videoRepository struct {
	db *DB
}

// NewVideoRepository creates a new SQLite video repository.
func NewVideoRepository(db *DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// Create creates a new video record.
func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (id, owner_id, video_url, thumbnail_url, title, description,
			duration_seconds, views, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		video.ID,
		video.OwnerID,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.DurationSeconds,
		video.Views,
		boolToInt(video.IsPublished),
		formatTime(video.CreatedAt),
		formatTime(video.UpdatedAt),
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
		WHERE id = ?
	`

	video := &domain.Video{}
	var isPublished int
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Title,
		&video.Description,
		&video.DurationSeconds,
		&video.Views,
		&isPublished,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	video.IsPublished = isPublished != 0
	video.CreatedAt = parseTime(createdAt)
	video.UpdatedAt = parseTime(updatedAt)

	return video, nil
}

// Update updates an existing video.
func (r *videoRepository) Update(ctx context.Context, video *domain.Video) error {
	query := `
		UPDATE videos
		SET video_url = ?, thumbnail_url = ?, title = ?, description = ?,
			duration_seconds = ?, is_published = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		video.VideoURL,
		video.ThumbnailURL,
		video.Title,
		video.Description,
		video.DurationSeconds,
		boolToInt(video.IsPublished),
		formatTime(video.UpdatedAt),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// AddViews adds delta to the persisted view counter.
func (r *videoRepository) AddViews(ctx context.Context, id string, delta int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET views = views + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// Delete hard-deletes a video and cascades to its dependents. Comments,
// playlist membership, and watch history cascade through foreign keys; likes
// reference their subject polymorphically, so they are swept in the same
// transaction.
func (r *videoRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM likes
			WHERE (kind = 'video' AND target_id = ?)
			   OR (kind = 'comment' AND target_id IN (SELECT id FROM comments WHERE video_id = ?))
		`, id, id)
		if err != nil {
			return fmt.Errorf("failed to delete video likes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return domain.ErrVideoNotFound
		}

		return nil
	})
}

// Ensure videoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*videoRepository)(nil)
