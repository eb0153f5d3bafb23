package domain

import "time"

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTweet creates a new Tweet.
func NewTweet(ownerID, content string) *Tweet {
	now := time.Now().UTC()
	return &Tweet{
		ID:        NewID(),
		Content:   content,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
