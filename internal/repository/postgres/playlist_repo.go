package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// playlistRepository implements repository.PlaylistRepository for PostgreSQL.
// The ordered video sequence lives in playlist_videos, keyed by position.
type playlistRepository struct {
	db *DB
}

// NewPlaylistRepository creates a new PostgreSQL playlist repository.
func NewPlaylistRepository(db *DB) repository.PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	query := `
		INSERT INTO playlists (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.OwnerID,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id string) (*domain.Playlist, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists
		WHERE id = $1
	`

	playlist := &domain.Playlist{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.OwnerID,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPlaylistNotFound
		}
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}

	videos, err := r.playlistVideos(ctx, playlist.ID)
	if err != nil {
		return nil, err
	}
	playlist.VideoIDs = videos

	return playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Playlist, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM playlists
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*domain.Playlist
	for rows.Next() {
		playlist := &domain.Playlist{}
		err := rows.Scan(
			&playlist.ID,
			&playlist.Name,
			&playlist.Description,
			&playlist.OwnerID,
			&playlist.CreatedAt,
			&playlist.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating playlists: %w", err)
	}

	for _, playlist := range playlists {
		videos, err := r.playlistVideos(ctx, playlist.ID)
		if err != nil {
			return nil, err
		}
		playlist.VideoIDs = videos
	}

	return playlists, nil
}

func (r *playlistRepository) playlistVideos(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY position`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist videos: %w", err)
	}
	defer rows.Close()

	var videos []string
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist video: %w", err)
		}
		videos = append(videos, videoID)
	}
	return videos, rows.Err()
}

// Update persists name, description, and the ordered video sequence. The
// sequence is rewritten wholesale inside one transaction so readers never see
// a partially updated ordering.
func (r *playlistRepository) Update(ctx context.Context, playlist *domain.Playlist) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE playlists SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
			playlist.Name,
			playlist.Description,
			playlist.UpdatedAt,
			playlist.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update playlist: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrPlaylistNotFound
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM playlist_videos WHERE playlist_id = $1`, playlist.ID); err != nil {
			return fmt.Errorf("failed to clear playlist videos: %w", err)
		}

		for i, videoID := range playlist.VideoIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO playlist_videos (playlist_id, video_id, position) VALUES ($1, $2, $3)`,
				playlist.ID, videoID, i+1)
			if err != nil {
				return fmt.Errorf("failed to insert playlist video: %w", err)
			}
		}

		return nil
	})
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPlaylistNotFound
	}

	return nil
}

// Ensure playlistRepository implements repository.PlaylistRepository.
var _ repository.PlaylistRepository = (*playlistRepository)(nil)
