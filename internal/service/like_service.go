package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// LikeService toggles likes on videos, comments, and tweets. A like is
// kind-exclusive: liking a video says nothing about comments or tweets with
// the same owner.
type LikeService struct {
	likes    repository.LikeRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
	engine   *query.Engine
	logger   zerolog.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(store *repository.Store, logger zerolog.Logger) *LikeService {
	return &LikeService{
		likes:    store.Likes,
		videos:   store.Videos,
		comments: store.Comments,
		tweets:   store.Tweets,
		engine:   query.NewEngine(store.Source),
		logger:   logger.With().Str("service", "like").Logger(),
	}
}

// ToggleVideoLike flips the caller's like on a video.
func (s *LikeService) ToggleVideoLike(ctx context.Context, callerID, videoID string) (*ToggleResult, error) {
	exists := func(ctx context.Context) error {
		_, err := s.videos.GetByID(ctx, videoID)
		return err
	}
	return s.toggle(ctx, callerID, domain.LikeVideo, videoID, exists, domain.ErrVideoNotFound)
}

// ToggleCommentLike flips the caller's like on a comment.
func (s *LikeService) ToggleCommentLike(ctx context.Context, callerID, commentID string) (*ToggleResult, error) {
	exists := func(ctx context.Context) error {
		_, err := s.comments.GetByID(ctx, commentID)
		return err
	}
	return s.toggle(ctx, callerID, domain.LikeComment, commentID, exists, domain.ErrCommentNotFound)
}

// ToggleTweetLike flips the caller's like on a tweet.
func (s *LikeService) ToggleTweetLike(ctx context.Context, callerID, tweetID string) (*ToggleResult, error) {
	exists := func(ctx context.Context) error {
		_, err := s.tweets.GetByID(ctx, tweetID)
		return err
	}
	return s.toggle(ctx, callerID, domain.LikeTweet, tweetID, exists, domain.ErrTweetNotFound)
}

func (s *LikeService) toggle(
	ctx context.Context,
	callerID string,
	kind domain.LikeKind,
	targetID string,
	exists func(ctx context.Context) error,
	notFound error,
) (*ToggleResult, error) {
	if err := validateID(targetID); err != nil {
		return nil, err
	}
	if err := exists(ctx); err != nil {
		if errors.Is(err, notFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	result, err := toggleRelation(ctx,
		func(ctx context.Context) (string, error) {
			like, err := s.likes.Find(ctx, callerID, kind, targetID)
			if err != nil {
				return "", err
			}
			return like.ID, nil
		},
		func(ctx context.Context) error {
			return s.likes.Create(ctx, domain.NewLike(kind, targetID, callerID))
		},
		func(ctx context.Context, id string) error {
			return s.likes.Delete(ctx, id)
		},
	)
	if err != nil {
		s.logger.Error().Err(err).Str("kind", string(kind)).Str("target_id", targetID).
			Msg("like toggle failed")
		return nil, err
	}
	return result, nil
}

// LikedVideos returns the caller's liked videos, each unwound into the joined
// video with its owner. Likes whose video has since been deleted are dropped
// by the unwind.
func (s *LikeService) LikedVideos(ctx context.Context, callerID string) ([]query.Document, error) {
	// Comment and tweet likes carry no "video" field, so the lookup joins
	// nothing for them and the unwind filters them out.
	pipeline := query.Pipeline{
		query.Match{All: []query.Cond{{Field: "likedBy", Op: query.OpEq, Value: callerID}}},
		query.Lookup{
			From:         "videos",
			LocalField:   string(domain.LikeVideo),
			ForeignField: "id",
			As:           "likedVideo",
			Pipeline:     append(query.Pipeline{}, ownerLookup("owner", "owner")...),
		},
		query.Unwind{Field: "likedVideo"},
		query.Project{"likedVideo", "createdAt"},
		query.Sort{Field: "createdAt", Descending: true},
	}

	docs, err := s.engine.Run(ctx, "likes", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", callerID).Msg("liked videos pipeline failed")
		return nil, internalErr(err)
	}
	return docs, nil
}
