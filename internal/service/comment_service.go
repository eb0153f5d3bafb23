package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// CommentService handles video comment threads.
type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	engine   *query.Engine
	logger   zerolog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(store *repository.Store, logger zerolog.Logger) *CommentService {
	return &CommentService{
		comments: store.Comments,
		videos:   store.Videos,
		engine:   query.NewEngine(store.Source),
		logger:   logger.With().Str("service", "comment").Logger(),
	}
}

// ListByVideo returns a video's comments newest first, each enriched with its
// owner and like count.
func (s *CommentService) ListByVideo(ctx context.Context, videoID string, page query.PageRequest) (*query.Page, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	pipeline := query.Pipeline{
		query.Match{All: []query.Cond{{Field: "video", Op: query.OpEq, Value: videoID}}},
	}
	pipeline = append(pipeline, ownerLookup("owner", "owner")...)
	pipeline = append(pipeline,
		query.Lookup{
			From:         "likes",
			LocalField:   "id",
			ForeignField: "comment",
			As:           "likes",
		},
		query.AddFields{"likesCount": query.Size{Field: "likes"}},
		query.Project{"content", "video", "owner", "likesCount", "createdAt"},
		query.Sort{Field: "createdAt", Descending: true},
	)

	result, err := s.engine.Paginate(ctx, "comments", pipeline, page)
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("comment listing pipeline failed")
		return nil, internalErr(err)
	}
	return result, nil
}

// Add creates a comment on a video.
func (s *CommentService) Add(ctx context.Context, callerID, videoID, content string) (*domain.Comment, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	comment := domain.NewComment(videoID, callerID, content)
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("failed to create comment")
		return nil, internalErr(err)
	}
	return comment, nil
}

// Update rewrites a comment's content, owner-only.
func (s *CommentService) Update(ctx context.Context, callerID, commentID, content string) (*domain.Comment, error) {
	if err := requireField("content", content); err != nil {
		return nil, err
	}

	comment, err := s.ownedComment(ctx, callerID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, internalErr(err)
	}
	return comment, nil
}

// Delete removes a comment and its likes, owner-only.
func (s *CommentService) Delete(ctx context.Context, callerID, commentID string) error {
	if _, err := s.ownedComment(ctx, callerID, commentID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return err
		}
		return internalErr(err)
	}
	return nil
}

func (s *CommentService) ownedComment(ctx context.Context, callerID, commentID string) (*domain.Comment, error) {
	if err := validateID(commentID); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if err := assertOwner(comment.OwnerID, callerID); err != nil {
		return nil, err
	}
	return comment, nil
}
