package sqlite

import (
	"context"
	"fmt"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/repository"
)

// userRepository implements repository.UserRepository for SQLite.
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, user_name, email, full_name, avatar_url, cover_image_url,
	password_hash, refresh_token_hash, created_at, updated_at`

// Create creates a new user. The unique indexes on user_name and email close
// the race between the service's existence pre-check and this insert.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, user_name, email, full_name, avatar_url, cover_image_url,
			password_hash, refresh_token_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.UserName,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
		user.RefreshTokenHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already exists", domain.ErrUserAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUserName retrieves a user by normalized username.
func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.getBy(ctx, "user_name", domain.NormalizeUserName(userName))
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column)

	user := &domain.User{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)

	history, err := r.watchHistory(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.WatchHistory = history

	return user, nil
}

func (r *userRepository) watchHistory(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT video_id FROM watch_history WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watch history: %w", err)
	}
	defer rows.Close()

	var history []string
	for rows.Next() {
		var videoID string
		if err := rows.Scan(&videoID); err != nil {
			return nil, fmt.Errorf("failed to scan watch history: %w", err)
		}
		history = append(history, videoID)
	}
	return history, rows.Err()
}

// Update updates an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET user_name = ?, email = ?, full_name = ?, avatar_url = ?,
			cover_image_url = ?, password_hash = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.UserName,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
		formatTime(user.UpdatedAt),
		user.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already exists", domain.ErrUserAlreadyExists)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// UpdateRefreshTokenHash rotates the stored refresh-token hash.
func (r *userRepository) UpdateRefreshTokenHash(ctx context.Context, id, hash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// AddWatchHistory appends a video to the watch history if absent. The insert
// is a set-union: the primary key on (user_id, video_id) makes replays no-ops.
func (r *userRepository) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM watch_history WHERE user_id = ?))
		ON CONFLICT (user_id, video_id) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, userID, videoID, userID); err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

// ExistsByUserName checks if a user with the given username exists.
func (r *userRepository) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE user_name = ?`,
		domain.NormalizeUserName(userName)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByEmail checks if a user with the given email exists.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// Ensure userRepository implements repository.UserRepository.
var _ repository.UserRepository = (*userRepository)(nil)
