package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
)

func newTestLikeService(t *testing.T) (*LikeService, *mockSource) {
	t.Helper()
	store, src := newMockStore()
	return NewLikeService(store, zerolog.Nop()), src
}

func TestLikeServiceToggleVideo(t *testing.T) {
	svc, src := newTestLikeService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	fan := seedUser(t, src, "fan")
	video := seedVideo(t, src, owner.ID, "Likeable")

	res, err := svc.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, res.Created)

	_, err = src.likes.Find(ctx, fan.ID, domain.LikeVideo, video.ID)
	require.NoError(t, err)

	res, err = svc.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, res.Created)

	_, err = src.likes.Find(ctx, fan.ID, domain.LikeVideo, video.ID)
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)

	_, err = svc.ToggleVideoLike(ctx, fan.ID, domain.NewID())
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)

	_, err = svc.ToggleVideoLike(ctx, fan.ID, "bad-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestLikeServiceKindsAreIndependent(t *testing.T) {
	svc, src := newTestLikeService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	fan := seedUser(t, src, "fan")
	video := seedVideo(t, src, owner.ID, "Multi")
	comment := domain.NewComment(video.ID, owner.ID, "hello")
	require.NoError(t, src.comments.Create(ctx, comment))
	tweet := domain.NewTweet(owner.ID, "announcement")
	require.NoError(t, src.tweets.Create(ctx, tweet))

	_, err := svc.ToggleVideoLike(ctx, fan.ID, video.ID)
	require.NoError(t, err)
	_, err = svc.ToggleCommentLike(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	_, err = svc.ToggleTweetLike(ctx, fan.ID, tweet.ID)
	require.NoError(t, err)

	// Removing the comment like leaves the other kinds untouched.
	res, err := svc.ToggleCommentLike(ctx, fan.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, res.Created)

	_, err = src.likes.Find(ctx, fan.ID, domain.LikeVideo, video.ID)
	assert.NoError(t, err)
	_, err = src.likes.Find(ctx, fan.ID, domain.LikeTweet, tweet.ID)
	assert.NoError(t, err)

	_, err = svc.ToggleCommentLike(ctx, fan.ID, domain.NewID())
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
	_, err = svc.ToggleTweetLike(ctx, fan.ID, domain.NewID())
	assert.ErrorIs(t, err, domain.ErrTweetNotFound)
}

func TestLikeServiceLikedVideos(t *testing.T) {
	svc, src := newTestLikeService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	fan := seedUser(t, src, "fan")
	liked := seedVideo(t, src, owner.ID, "Kept")
	removed := seedVideo(t, src, owner.ID, "Gone")
	tweet := domain.NewTweet(owner.ID, "post")
	require.NoError(t, src.tweets.Create(ctx, tweet))

	_, err := svc.ToggleVideoLike(ctx, fan.ID, liked.ID)
	require.NoError(t, err)
	_, err = svc.ToggleVideoLike(ctx, fan.ID, removed.ID)
	require.NoError(t, err)
	_, err = svc.ToggleTweetLike(ctx, fan.ID, tweet.ID)
	require.NoError(t, err)

	// A like whose video was deleted is dropped from the listing.
	require.NoError(t, src.videos.Delete(ctx, removed.ID))

	docs, err := svc.LikedVideos(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	videoDoc, ok := docs[0]["likedVideo"].(query.Document)
	require.True(t, ok)
	assert.Equal(t, liked.ID, videoDoc["id"])

	ownerDoc, ok := videoDoc["owner"].(query.Document)
	require.True(t, ok)
	assert.Equal(t, "owner", ownerDoc["userName"])
}
