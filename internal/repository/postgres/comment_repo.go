package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// commentRepository implements repository.CommentRepository for PostgreSQL.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new PostgreSQL comment repository.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, content, video_id, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		comment.ID,
		comment.Content,
		comment.VideoID,
		comment.OwnerID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT id, content, video_id, owner_id, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	comment := &domain.Comment{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.Content,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// Delete removes a comment and its likes in one transaction.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM likes WHERE kind = 'comment' AND target_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrCommentNotFound
		}

		return nil
	})
}

// Ensure commentRepository implements repository.CommentRepository.
var _ repository.CommentRepository = (*commentRepository)(nil)
