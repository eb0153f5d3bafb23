package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliptube/cliptube/internal/cache/memory"
	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
)

func newTestVideoService(t *testing.T) (*VideoService, *mockSource, *mockBlobStore) {
	t.Helper()
	store, src := newMockStore()
	blobs := newMockBlobStore()

	c := memory.NewCache()
	t.Cleanup(c.Stop)
	views := NewViewCounter(store.Videos, c, time.Hour, zerolog.Nop())
	t.Cleanup(views.Stop)

	svc := NewVideoService(store, blobs, views, zerolog.Nop())
	return svc, src, blobs
}

func seedUser(t *testing.T, src *mockSource, userName string) *domain.User {
	t.Helper()
	user := domain.NewUser(userName, userName+"@example.com", "Full "+userName, "hash", "https://blobs.test/a", "")
	require.NoError(t, src.users.Create(context.Background(), user))
	return user
}

func seedVideo(t *testing.T, src *mockSource, ownerID, title string) *domain.Video {
	t.Helper()
	video := domain.NewVideo(ownerID, "https://blobs.test/v", "https://blobs.test/t", title, "about "+title, 42)
	require.NoError(t, src.videos.Create(context.Background(), video))
	return video
}

func TestVideoServiceListFiltersAndSearch(t *testing.T) {
	svc, src, _ := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	other := seedUser(t, src, "other")

	seedVideo(t, src, owner.ID, "Go Concurrency Patterns")
	seedVideo(t, src, other.ID, "Cooking with Gas")
	hidden := seedVideo(t, src, owner.ID, "Unlisted Draft")
	hidden.IsPublished = false
	require.NoError(t, src.videos.Update(ctx, hidden))

	page, err := svc.List(ctx, ListVideosInput{Page: query.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs)
	for _, doc := range page.Docs {
		ownerDoc, ok := doc["owner"].(query.Document)
		require.True(t, ok)
		assert.NotEmpty(t, ownerDoc["userName"])
	}

	byOwner, err := svc.List(ctx, ListVideosInput{
		OwnerID: owner.ID,
		Page:    query.PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, byOwner.TotalDocs)

	search, err := svc.List(ctx, ListVideosInput{
		Query: "CONCURRENCY",
		Page:  query.PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 1, search.TotalDocs)
	assert.Equal(t, "Go Concurrency Patterns", search.Docs[0]["title"])

	// Unpublished videos stay hidden even when the search would match.
	draft, err := svc.List(ctx, ListVideosInput{
		Query: "Unlisted",
		Page:  query.PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, draft.TotalDocs)
}

func TestVideoServiceGetEnrichment(t *testing.T) {
	svc, src, _ := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	fan := seedUser(t, src, "fan")
	video := seedVideo(t, src, owner.ID, "Watch Me")

	require.NoError(t, src.subs.Create(ctx, domain.NewSubscription(fan.ID, owner.ID)))
	require.NoError(t, src.likes.Create(ctx, domain.NewLike(domain.LikeVideo, video.ID, fan.ID)))
	require.NoError(t, src.comments.Create(ctx, domain.NewComment(video.ID, fan.ID, "nice")))

	doc, err := svc.Get(ctx, fan.ID, video.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), doc["likesCount"])
	assert.Equal(t, int64(1), doc["commentsCount"])
	assert.Equal(t, int64(1), doc["views"])
	assert.Equal(t, true, doc["isLiked"])

	ownerDoc, ok := doc["owner"].(query.Document)
	require.True(t, ok)
	assert.Equal(t, "owner", ownerDoc["userName"])
	assert.Equal(t, int64(1), ownerDoc["subscribersCount"])

	// The viewer's history gained the video.
	viewer, err := src.users.GetByID(ctx, fan.ID)
	require.NoError(t, err)
	assert.Contains(t, viewer.WatchHistory, video.ID)

	anon, err := svc.Get(ctx, "", video.ID)
	require.NoError(t, err)
	assert.Equal(t, false, anon["isLiked"])

	_, err = svc.Get(ctx, fan.ID, domain.NewID())
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)

	_, err = svc.Get(ctx, fan.ID, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestVideoServiceViewsPersistOnStop(t *testing.T) {
	store, src := newMockStore()
	blobs := newMockBlobStore()
	c := memory.NewCache()
	defer c.Stop()
	views := NewViewCounter(store.Videos, c, time.Hour, zerolog.Nop())
	svc := NewVideoService(store, blobs, views, zerolog.Nop())
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	video := seedVideo(t, src, owner.ID, "Counted")

	for range 3 {
		_, err := svc.Get(ctx, "", video.ID)
		require.NoError(t, err)
	}

	views.Stop()

	persisted, err := src.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), persisted.Views)
}

func TestVideoServicePublish(t *testing.T) {
	svc, src, blobs := newTestVideoService(t)
	ctx := context.Background()
	owner := seedUser(t, src, "owner")

	input := PublishVideoInput{
		Title:           "My New Video",
		Description:     "hello",
		DurationSeconds: 120,
		Media:           &Upload{Reader: strings.NewReader("media-bytes"), ContentType: "video/mp4"},
		Thumbnail:       &Upload{Reader: strings.NewReader("thumb-bytes"), ContentType: "image/png"},
	}

	video, err := svc.Publish(ctx, owner.ID, input)
	require.NoError(t, err)
	assert.True(t, video.IsPublished)
	assert.NotEmpty(t, video.VideoURL)
	assert.NotEmpty(t, video.ThumbnailURL)

	stored, err := src.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.VideoURL, stored.VideoURL)

	_, err = svc.Publish(ctx, owner.ID, PublishVideoInput{
		Media:     &Upload{Reader: strings.NewReader("x"), ContentType: "video/mp4"},
		Thumbnail: &Upload{Reader: strings.NewReader("x"), ContentType: "image/png"},
	})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.Publish(ctx, owner.ID, PublishVideoInput{Title: "No Media"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	// Upload failure means no record is created.
	blobs.uploadErr = assert.AnError
	before := len(src.videos.order)
	_, err = svc.Publish(ctx, owner.ID, input)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Len(t, src.videos.order, before)
}

func TestVideoServiceOwnershipGuard(t *testing.T) {
	svc, src, _ := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	stranger := seedUser(t, src, "stranger")
	video := seedVideo(t, src, owner.ID, "Mine")

	_, err := svc.Update(ctx, stranger.ID, video.ID, UpdateVideoInput{Title: "Stolen"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(ctx, stranger.ID, video.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.TogglePublish(ctx, stranger.ID, video.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Existence is checked before ownership: a missing video is 404 even for
	// a stranger.
	_, err = svc.Update(ctx, stranger.ID, domain.NewID(), UpdateVideoInput{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestVideoServiceDeleteRequiresBlobCleanup(t *testing.T) {
	svc, src, blobs := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	video := seedVideo(t, src, owner.ID, "Doomed")

	blobs.deleteErr = assert.AnError
	err := svc.Delete(ctx, owner.ID, video.ID)
	assert.ErrorIs(t, err, ErrInternal)

	// Record survives when blob cleanup fails.
	_, err = src.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)

	blobs.deleteErr = nil
	require.NoError(t, svc.Delete(ctx, owner.ID, video.ID))
	_, err = src.videos.GetByID(ctx, video.ID)
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
	assert.Contains(t, blobs.deletedURLs(), video.VideoURL)
	assert.Contains(t, blobs.deletedURLs(), video.ThumbnailURL)
}

func TestVideoServiceTogglePublish(t *testing.T) {
	svc, src, _ := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	video := seedVideo(t, src, owner.ID, "Flip Me")

	flipped, err := svc.TogglePublish(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, flipped.IsPublished)

	again, err := svc.TogglePublish(ctx, owner.ID, video.ID)
	require.NoError(t, err)
	assert.True(t, again.IsPublished)
}

func TestVideoServiceListByOwnerIncludesUnpublished(t *testing.T) {
	svc, src, _ := newTestVideoService(t)
	ctx := context.Background()

	owner := seedUser(t, src, "owner")
	seedVideo(t, src, owner.ID, "Public")
	draft := seedVideo(t, src, owner.ID, "Draft")
	draft.IsPublished = false
	require.NoError(t, src.videos.Update(ctx, draft))

	page, err := svc.ListByOwner(ctx, owner.ID, query.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalDocs)
}
