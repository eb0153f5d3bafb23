package domain

import "time"

// Comment is a user comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	VideoID   string    `json:"video"`
	OwnerID   string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewComment creates a new Comment.
func NewComment(videoID, ownerID, content string) *Comment {
	now := time.Now().UTC()
	return &Comment{
		ID:        NewID(),
		Content:   content,
		VideoID:   videoID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
