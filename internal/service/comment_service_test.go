package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
)

func newTestCommentService(t *testing.T) (*CommentService, *mockSource) {
	t.Helper()
	store, src := newMockStore()
	return NewCommentService(store, zerolog.Nop()), src
}

func TestCommentServiceAdd(t *testing.T) {
	svc, src := newTestCommentService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	viewer := seedUser(t, src, "viewer")
	video := seedVideo(t, src, owner.ID, "Commented")

	comment, err := svc.Add(ctx, viewer.ID, video.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, viewer.ID, comment.OwnerID)
	assert.Equal(t, video.ID, comment.VideoID)

	_, err = svc.Add(ctx, viewer.ID, video.ID, "")
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.Add(ctx, viewer.ID, domain.NewID(), "orphan")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)

	_, err = svc.Add(ctx, viewer.ID, "bad-id", "orphan")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestCommentServiceListByVideo(t *testing.T) {
	svc, src := newTestCommentService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	viewer := seedUser(t, src, "viewer")
	video := seedVideo(t, src, owner.ID, "Busy Thread")

	var last *domain.Comment
	for i := range 3 {
		c, err := svc.Add(ctx, viewer.ID, video.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
		last = c
	}
	require.NoError(t, src.likes.Create(ctx, domain.NewLike(domain.LikeComment, last.ID, owner.ID)))

	page, err := svc.ListByVideo(ctx, video.ID, query.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalDocs)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Docs, 2)

	// Newest first; the latest comment carries the like.
	first := page.Docs[0]
	assert.Equal(t, last.ID, first["id"])
	assert.Equal(t, int64(1), first["likesCount"])

	ownerDoc, ok := first["owner"].(query.Document)
	require.True(t, ok)
	assert.Equal(t, "viewer", ownerDoc["userName"])

	_, err = svc.ListByVideo(ctx, domain.NewID(), query.PageRequest{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestCommentServiceUpdateDelete(t *testing.T) {
	svc, src := newTestCommentService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	viewer := seedUser(t, src, "viewer")
	video := seedVideo(t, src, owner.ID, "Moderated")

	comment, err := svc.Add(ctx, viewer.ID, video.ID, "typo herre")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, viewer.ID, comment.ID, "typo here")
	require.NoError(t, err)
	assert.Equal(t, "typo here", updated.Content)

	// The video owner cannot edit someone else's comment.
	_, err = svc.Update(ctx, owner.ID, comment.ID, "mine now")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(ctx, owner.ID, comment.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, viewer.ID, comment.ID))
	_, err = src.comments.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)

	err = svc.Delete(ctx, viewer.ID, comment.ID)
	assert.ErrorIs(t, err, domain.ErrCommentNotFound)
}
