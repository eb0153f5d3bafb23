package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// The mocks below back each repository with a map plus an insertion-order
// slice, so the source scans collections in creation order the way the real
// catalogs do.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	order []string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (r *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == user.UserName || u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	r.order = append(r.order, user.ID)
	return nil
}

func (r *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *mockUserRepo) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == userName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *mockUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *mockUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *mockUserRepo) UpdateRefreshTokenHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *mockUserRepo) AddWatchHistory(_ context.Context, userID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.AddWatchHistory(videoID)
	return nil
}

func (r *mockUserRepo) ExistsByUserName(_ context.Context, userName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*domain.Video
	order  []string
}

func newMockVideoRepo() *mockVideoRepo {
	return &mockVideoRepo{videos: make(map[string]*domain.Video)}
}

func (r *mockVideoRepo) Create(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *video
	r.videos[video.ID] = &cp
	r.order = append(r.order, video.ID)
	return nil
}

func (r *mockVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *mockVideoRepo) Update(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return domain.ErrVideoNotFound
	}
	cp := *video
	r.videos[video.ID] = &cp
	return nil
}

func (r *mockVideoRepo) AddViews(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	v.Views += delta
	return nil
}

func (r *mockVideoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(r.videos, id)
	for i, vid := range r.order {
		if vid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*domain.Comment
	order    []string
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *mockCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *comment
	r.comments[comment.ID] = &cp
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *mockCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *mockCommentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	for i, cid := range r.order {
		if cid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockLikeRepo struct {
	mu    sync.Mutex
	likes map[string]*domain.Like
	order []string
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{likes: make(map[string]*domain.Like)}
}

func (r *mockLikeRepo) Create(_ context.Context, like *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.LikedBy == like.LikedBy && l.Kind == like.Kind && l.TargetID == like.TargetID {
			return domain.ErrRelationAlreadyExists
		}
	}
	cp := *like
	r.likes[like.ID] = &cp
	r.order = append(r.order, like.ID)
	return nil
}

func (r *mockLikeRepo) Find(_ context.Context, likedBy string, kind domain.LikeKind, targetID string) (*domain.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.likes {
		if l.LikedBy == likedBy && l.Kind == kind && l.TargetID == targetID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrRelationNotFound
}

func (r *mockLikeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.likes[id]; !ok {
		return domain.ErrRelationNotFound
	}
	delete(r.likes, id)
	for i, lid := range r.order {
		if lid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockSubscriptionRepo struct {
	mu    sync.Mutex
	subs  map[string]*domain.Subscription
	order []string
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[string]*domain.Subscription)}
}

func (r *mockSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.SubscriberID == sub.SubscriberID && s.ChannelID == sub.ChannelID {
			return domain.ErrRelationAlreadyExists
		}
	}
	cp := *sub
	r.subs[sub.ID] = &cp
	r.order = append(r.order, sub.ID)
	return nil
}

func (r *mockSubscriptionRepo) Find(_ context.Context, subscriberID, channelID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subs {
		if s.SubscriberID == subscriberID && s.ChannelID == channelID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrRelationNotFound
}

func (r *mockSubscriptionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return domain.ErrRelationNotFound
	}
	delete(r.subs, id)
	for i, sid := range r.order {
		if sid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockTweetRepo struct {
	mu     sync.Mutex
	tweets map[string]*domain.Tweet
	order  []string
}

func newMockTweetRepo() *mockTweetRepo {
	return &mockTweetRepo{tweets: make(map[string]*domain.Tweet)}
}

func (r *mockTweetRepo) Create(_ context.Context, tweet *domain.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tweet
	r.tweets[tweet.ID] = &cp
	r.order = append(r.order, tweet.ID)
	return nil
}

func (r *mockTweetRepo) GetByID(_ context.Context, id string) (*domain.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tweets[id]
	if !ok {
		return nil, domain.ErrTweetNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *mockTweetRepo) Update(_ context.Context, tweet *domain.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[tweet.ID]; !ok {
		return domain.ErrTweetNotFound
	}
	cp := *tweet
	r.tweets[tweet.ID] = &cp
	return nil
}

func (r *mockTweetRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[id]; !ok {
		return domain.ErrTweetNotFound
	}
	delete(r.tweets, id)
	for i, tid := range r.order {
		if tid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockPlaylistRepo struct {
	mu        sync.Mutex
	playlists map[string]*domain.Playlist
	order     []string
}

func newMockPlaylistRepo() *mockPlaylistRepo {
	return &mockPlaylistRepo{playlists: make(map[string]*domain.Playlist)}
}

func clonePlaylist(p *domain.Playlist) *domain.Playlist {
	cp := *p
	cp.VideoIDs = append([]string(nil), p.VideoIDs...)
	return &cp
}

func (r *mockPlaylistRepo) Create(_ context.Context, playlist *domain.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playlists[playlist.ID] = clonePlaylist(playlist)
	r.order = append(r.order, playlist.ID)
	return nil
}

func (r *mockPlaylistRepo) GetByID(_ context.Context, id string) (*domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.playlists[id]
	if !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	return clonePlaylist(p), nil
}

func (r *mockPlaylistRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Playlist
	for _, id := range r.order {
		if p := r.playlists[id]; p != nil && p.OwnerID == ownerID {
			out = append(out, clonePlaylist(p))
		}
	}
	return out, nil
}

func (r *mockPlaylistRepo) Update(_ context.Context, playlist *domain.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[playlist.ID]; !ok {
		return domain.ErrPlaylistNotFound
	}
	r.playlists[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (r *mockPlaylistRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return domain.ErrPlaylistNotFound
	}
	delete(r.playlists, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// mockSource projects the mock repos into engine documents with the same
// field names the real catalogs emit.
type mockSource struct {
	users     *mockUserRepo
	videos    *mockVideoRepo
	comments  *mockCommentRepo
	likes     *mockLikeRepo
	subs      *mockSubscriptionRepo
	tweets    *mockTweetRepo
	playlists *mockPlaylistRepo
}

func (s *mockSource) Scan(_ context.Context, collection string) ([]query.Document, error) {
	switch collection {
	case "users":
		s.users.mu.Lock()
		defer s.users.mu.Unlock()
		docs := make([]query.Document, 0, len(s.users.order))
		for _, id := range s.users.order {
			u := s.users.users[id]
			docs = append(docs, query.Document{
				"id":         u.ID,
				"userName":   u.UserName,
				"email":      u.Email,
				"fullName":   u.FullName,
				"avatar":     u.AvatarURL,
				"coverImage": u.CoverImageURL,
				"createdAt":  u.CreatedAt,
			})
		}
		return docs, nil

	case "videos":
		s.videos.mu.Lock()
		defer s.videos.mu.Unlock()
		docs := make([]query.Document, 0, len(s.videos.order))
		for _, id := range s.videos.order {
			v := s.videos.videos[id]
			docs = append(docs, query.Document{
				"id":          v.ID,
				"owner":       v.OwnerID,
				"videoFile":   v.VideoURL,
				"thumbnail":   v.ThumbnailURL,
				"title":       v.Title,
				"description": v.Description,
				"duration":    v.DurationSeconds,
				"views":       v.Views,
				"isPublished": v.IsPublished,
				"createdAt":   v.CreatedAt,
			})
		}
		return docs, nil

	case "comments":
		s.comments.mu.Lock()
		defer s.comments.mu.Unlock()
		docs := make([]query.Document, 0, len(s.comments.order))
		for _, id := range s.comments.order {
			c := s.comments.comments[id]
			docs = append(docs, query.Document{
				"id":        c.ID,
				"content":   c.Content,
				"video":     c.VideoID,
				"owner":     c.OwnerID,
				"createdAt": c.CreatedAt,
			})
		}
		return docs, nil

	case "likes":
		s.likes.mu.Lock()
		defer s.likes.mu.Unlock()
		docs := make([]query.Document, 0, len(s.likes.order))
		for _, id := range s.likes.order {
			l := s.likes.likes[id]
			doc := query.Document{
				"id":        l.ID,
				"likedBy":   l.LikedBy,
				"createdAt": l.CreatedAt,
			}
			doc[string(l.Kind)] = l.TargetID
			docs = append(docs, doc)
		}
		return docs, nil

	case "subscriptions":
		s.subs.mu.Lock()
		defer s.subs.mu.Unlock()
		docs := make([]query.Document, 0, len(s.subs.order))
		for _, id := range s.subs.order {
			sub := s.subs.subs[id]
			docs = append(docs, query.Document{
				"id":         sub.ID,
				"subscriber": sub.SubscriberID,
				"channel":    sub.ChannelID,
				"createdAt":  sub.CreatedAt,
			})
		}
		return docs, nil

	case "tweets":
		s.tweets.mu.Lock()
		defer s.tweets.mu.Unlock()
		docs := make([]query.Document, 0, len(s.tweets.order))
		for _, id := range s.tweets.order {
			t := s.tweets.tweets[id]
			docs = append(docs, query.Document{
				"id":        t.ID,
				"content":   t.Content,
				"owner":     t.OwnerID,
				"createdAt": t.CreatedAt,
			})
		}
		return docs, nil
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

// mockBlobStore records uploads and deletions in memory.
type mockBlobStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{uploads: make(map[string][]byte)}
}

func (b *mockBlobStore) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.uploads[key] = data
	return "https://blobs.test/" + key, nil
}

func (b *mockBlobStore) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, url)
	return nil
}

func (b *mockBlobStore) deletedURLs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := append([]string(nil), b.deleted...)
	sort.Strings(out)
	return out
}

func newMockStore() (*repository.Store, *mockSource) {
	src := &mockSource{
		users:     newMockUserRepo(),
		videos:    newMockVideoRepo(),
		comments:  newMockCommentRepo(),
		likes:     newMockLikeRepo(),
		subs:      newMockSubscriptionRepo(),
		tweets:    newMockTweetRepo(),
		playlists: newMockPlaylistRepo(),
	}
	store := &repository.Store{
		Users:         src.users,
		Videos:        src.videos,
		Comments:      src.comments,
		Likes:         src.likes,
		Subscriptions: src.subs,
		Tweets:        src.tweets,
		Playlists:     src.playlists,
		Source:        src,
	}
	return store, src
}

var (
	_ repository.UserRepository         = (*mockUserRepo)(nil)
	_ repository.VideoRepository        = (*mockVideoRepo)(nil)
	_ repository.CommentRepository      = (*mockCommentRepo)(nil)
	_ repository.LikeRepository         = (*mockLikeRepo)(nil)
	_ repository.SubscriptionRepository = (*mockSubscriptionRepo)(nil)
	_ repository.TweetRepository        = (*mockTweetRepo)(nil)
	_ repository.PlaylistRepository     = (*mockPlaylistRepo)(nil)
	_ query.Source                      = (*mockSource)(nil)
)
