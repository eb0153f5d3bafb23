package sqlite

import (
	"github.com/cliptube/cliptube/internal/repository"
)

// NewStore assembles the full repository set backed by a single SQLite
// database handle.
func NewStore(db *DB) *repository.Store {
	return &repository.Store{
		Users:         NewUserRepository(db),
		Videos:        NewVideoRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Subscriptions: NewSubscriptionRepository(db),
		Tweets:        NewTweetRepository(db),
		Playlists:     NewPlaylistRepository(db),
		Source:        NewCatalog(db),
	}
}
