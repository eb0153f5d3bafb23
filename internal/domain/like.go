package domain

import "time"

// LikeKind identifies the kind of entity a like targets.
// A like references exactly one subject kind.
type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

// Valid reports whether k is a known like kind.
func (k LikeKind) Valid() bool {
	switch k {
	case LikeVideo, LikeComment, LikeTweet:
		return true
	}
	return false
}

// Like is the toggle relation between a user and a single target entity.
// Invariant: at most one Like per (LikedBy, Kind, TargetID), enforced by a
// store-level unique index - the check-then-act in the service is advisory.
type Like struct {
	ID        string    `json:"id"`
	Kind      LikeKind  `json:"kind"`
	TargetID  string    `json:"targetId"`
	LikedBy   string    `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLike creates a new Like of the given kind.
func NewLike(kind LikeKind, targetID, likedBy string) *Like {
	return &Like{
		ID:        NewID(),
		Kind:      kind,
		TargetID:  targetID,
		LikedBy:   likedBy,
		CreatedAt: time.Now().UTC(),
	}
}
