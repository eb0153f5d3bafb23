// Package domain contains the core business entities for ClipTube.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the video-sharing platform.
package domain

import (
	"strings"
	"time"
)

// User represents a registered account and, equivalently, a channel.
// Other users subscribe to a user's channel; videos, comments, tweets, and
// playlists all reference their owner by UserID, never by embedding.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// UserName is the unique handle, stored normalized to lowercase.
	UserName string `json:"userName"`

	// Email is the unique email address for the user.
	Email string `json:"email"`

	// FullName is the display name.
	FullName string `json:"fullName"`

	// AvatarURL points at the user's avatar in the blob store. Required.
	AvatarURL string `json:"avatar"`

	// CoverImageURL points at the channel cover image. Optional.
	CoverImageURL string `json:"coverImage,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed in API responses.
	PasswordHash string `json:"-"`

	// RefreshTokenHash is the SHA-256 hash of the current refresh token.
	// Empty when the user is logged out; rotates on login and refresh.
	RefreshTokenHash string `json:"-"`

	// WatchHistory is the ordered, de-duplicated list of watched video IDs.
	WatchHistory []string `json:"watchHistory,omitempty"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser creates a new User. The username is normalized to lowercase so the
// store-level unique index covers case variants.
func NewUser(userName, email, fullName, passwordHash, avatarURL, coverImageURL string) *User {
	now := time.Now().UTC()
	return &User{
		ID:            NewID(),
		UserName:      NormalizeUserName(userName),
		Email:         strings.ToLower(strings.TrimSpace(email)),
		FullName:      strings.TrimSpace(fullName),
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NormalizeUserName lowercases and trims a username.
func NormalizeUserName(userName string) string {
	return strings.ToLower(strings.TrimSpace(userName))
}

// AddWatchHistory appends videoID to the watch history if absent.
// Returns true if the history changed.
func (u *User) AddWatchHistory(videoID string) bool {
	for _, id := range u.WatchHistory {
		if id == videoID {
			return false
		}
	}
	u.WatchHistory = append(u.WatchHistory, videoID)
	return true
}
