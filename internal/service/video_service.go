package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/domain"
	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
	"github.com/cliptube/cliptube/internal/storage"
)

// VideoService handles publishing, listing, and the enriched detail fetch.
type VideoService struct {
	videos repository.VideoRepository
	users  repository.UserRepository
	likes  repository.LikeRepository
	engine *query.Engine
	blobs  storage.BlobStore
	views  *ViewCounter
	logger zerolog.Logger
}

// NewVideoService creates a new VideoService.
func NewVideoService(
	store *repository.Store,
	blobs storage.BlobStore,
	views *ViewCounter,
	logger zerolog.Logger,
) *VideoService {
	return &VideoService{
		videos: store.Videos,
		users:  store.Users,
		likes:  store.Likes,
		engine: query.NewEngine(store.Source),
		blobs:  blobs,
		views:  views,
		logger: logger.With().Str("service", "video").Logger(),
	}
}

// ListVideosInput selects, orders, and pages the public video listing.
type ListVideosInput struct {
	// Query is a free-text search over title and description.
	Query string

	// OwnerID restricts the listing to one channel's videos.
	OwnerID string

	// SortBy and SortType order the result ("desc" descending, anything
	// else ascending). An empty SortBy keeps creation order.
	SortBy   string
	SortType string

	Page query.PageRequest
}

// List returns the paginated published-video listing with owner enrichment.
// Unpublished videos never appear here regardless of search or sort.
func (s *VideoService) List(ctx context.Context, input ListVideosInput) (*query.Page, error) {
	match := query.Match{
		All: []query.Cond{{Field: "isPublished", Op: query.OpEq, Value: true}},
	}
	if input.OwnerID != "" {
		if err := validateID(input.OwnerID); err != nil {
			return nil, err
		}
		match.All = append(match.All, query.Cond{Field: "owner", Op: query.OpEq, Value: input.OwnerID})
	}
	if input.Query != "" {
		match.Any = []query.Cond{
			{Field: "title", Op: query.OpContainsFold, Value: input.Query},
			{Field: "description", Op: query.OpContainsFold, Value: input.Query},
		}
	}

	pipeline := query.Pipeline{match}
	pipeline = append(pipeline, ownerLookup("owner", "owner")...)
	pipeline = append(pipeline, query.SortByToken(input.SortBy, input.SortType))

	page, err := s.engine.Paginate(ctx, "videos", pipeline, input.Page)
	if err != nil {
		s.logger.Error().Err(err).Msg("video listing pipeline failed")
		return nil, internalErr(err)
	}
	return page, nil
}

// Get returns the enriched video detail. The returned views value is the
// stored counter plus one; the increment is persisted best-effort in the
// background and the caller's watch history gains the video independently.
func (s *VideoService) Get(ctx context.Context, callerID, videoID string) (query.Document, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}

	pipeline := query.Pipeline{
		matchID(videoID),
		query.Lookup{
			From:         "likes",
			LocalField:   "id",
			ForeignField: "video",
			As:           "likes",
		},
		query.Lookup{
			From:         "comments",
			LocalField:   "id",
			ForeignField: "video",
			As:           "comments",
		},
		query.Lookup{
			From:         "users",
			LocalField:   "owner",
			ForeignField: "id",
			As:           "owner",
			Pipeline: query.Pipeline{
				query.Lookup{
					From:         "subscriptions",
					LocalField:   "id",
					ForeignField: "channel",
					As:           "subscribers",
				},
				query.AddFields{"subscribersCount": query.Size{Field: "subscribers"}},
				query.Project{"fullName", "userName", "avatar", "subscribersCount"},
			},
		},
		query.AddFields{
			"owner":         query.First{Field: "owner"},
			"likesCount":    query.Size{Field: "likes"},
			"commentsCount": query.Size{Field: "comments"},
			"views":         query.Inc{Field: "views", By: 1},
		},
		query.Project{
			"videoFile", "thumbnail", "title", "description", "duration",
			"views", "isPublished", "owner", "likesCount", "commentsCount",
			"createdAt",
		},
	}

	docs, err := s.engine.Run(ctx, "videos", pipeline)
	if err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("video detail pipeline failed")
		return nil, internalErr(err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrVideoNotFound
	}

	doc := docs[0]

	isLiked := false
	if callerID != "" {
		if _, err := s.likes.Find(ctx, callerID, domain.LikeVideo, videoID); err == nil {
			isLiked = true
		} else if !errors.Is(err, domain.ErrRelationNotFound) {
			return nil, internalErr(err)
		}
	}
	doc["isLiked"] = isLiked

	s.views.Add(ctx, videoID)

	if callerID != "" {
		if err := s.users.AddWatchHistory(ctx, callerID, videoID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", callerID).Str("video_id", videoID).
				Msg("failed to append watch history")
		}
	}

	return doc, nil
}

// PublishVideoInput carries a new video and its media uploads.
type PublishVideoInput struct {
	Title           string
	Description     string
	DurationSeconds float64
	Media           *Upload
	Thumbnail       *Upload
}

// Publish uploads media and thumbnail, then creates the video record. The
// record is created only after both uploads succeed; a failure in between
// leaves at worst an orphaned blob, never a half-created record.
func (s *VideoService) Publish(ctx context.Context, ownerID string, input PublishVideoInput) (*domain.Video, error) {
	if err := requireField("title", input.Title); err != nil {
		return nil, err
	}
	if input.Media == nil {
		return nil, fmt.Errorf("%w: videoFile", domain.ErrMissingField)
	}
	if input.Thumbnail == nil {
		return nil, fmt.Errorf("%w: thumbnail", domain.ErrMissingField)
	}

	id := domain.NewID()

	videoURL, err := s.blobs.Upload(ctx, "videos/"+id+"/media", input.Media.Reader, input.Media.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Msg("video upload failed")
		return nil, internalErr(err)
	}
	thumbURL, err := s.blobs.Upload(ctx, "videos/"+id+"/thumbnail", input.Thumbnail.Reader, input.Thumbnail.ContentType)
	if err != nil {
		s.logger.Error().Err(err).Msg("thumbnail upload failed")
		return nil, internalErr(err)
	}

	video := domain.NewVideo(ownerID, videoURL, thumbURL, input.Title, input.Description, input.DurationSeconds)
	video.ID = id

	if err := s.videos.Create(ctx, video); err != nil {
		s.logger.Error().Err(err).Str("video_id", video.ID).Msg("failed to create video")
		return nil, internalErr(err)
	}

	s.logger.Info().Str("video_id", video.ID).Str("owner_id", ownerID).Msg("video published")
	return video, nil
}

// UpdateVideoInput carries the mutable video fields. Nil Thumbnail keeps the
// current one.
type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *Upload
}

// Update applies owner-only edits to title, description, and thumbnail.
func (s *VideoService) Update(ctx context.Context, callerID, videoID string, input UpdateVideoInput) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		video.Title = input.Title
	}
	if input.Description != "" {
		video.Description = input.Description
	}

	var oldThumb string
	if input.Thumbnail != nil {
		url, err := s.blobs.Upload(ctx, "videos/"+video.ID+"/thumbnail-"+domain.NewID(), input.Thumbnail.Reader, input.Thumbnail.ContentType)
		if err != nil {
			s.logger.Error().Err(err).Str("video_id", videoID).Msg("thumbnail upload failed")
			return nil, internalErr(err)
		}
		oldThumb = video.ThumbnailURL
		video.ThumbnailURL = url
	}

	video.UpdatedAt = time.Now().UTC()
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, internalErr(err)
	}

	if oldThumb != "" {
		if err := s.blobs.Delete(ctx, oldThumb); err != nil {
			s.logger.Warn().Err(err).Str("url", oldThumb).Msg("failed to release old thumbnail")
		}
	}

	return video, nil
}

// Delete removes a video. Both blob deletions must succeed before the record
// is removed, so an entity record never points at deleted media; the record
// delete then cascades to comments, likes, playlist membership, and watch
// history.
func (s *VideoService) Delete(ctx context.Context, callerID, videoID string) error {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, video.VideoURL); err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("media blob delete failed, aborting")
		return internalErr(err)
	}
	if err := s.blobs.Delete(ctx, video.ThumbnailURL); err != nil {
		s.logger.Error().Err(err).Str("video_id", videoID).Msg("thumbnail blob delete failed, aborting")
		return internalErr(err)
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return err
		}
		return internalErr(err)
	}

	s.logger.Info().Str("video_id", videoID).Msg("video deleted")
	return nil
}

// TogglePublish flips the publish flag, owner-only.
func (s *VideoService) TogglePublish(ctx context.Context, callerID, videoID string) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	video.UpdatedAt = time.Now().UTC()

	if err := s.videos.Update(ctx, video); err != nil {
		return nil, internalErr(err)
	}
	return video, nil
}

// ListByOwner returns one channel's videos including unpublished ones,
// newest first. Only the owner may call it.
func (s *VideoService) ListByOwner(ctx context.Context, ownerID string, page query.PageRequest) (*query.Page, error) {
	pipeline := query.Pipeline{
		query.Match{All: []query.Cond{{Field: "owner", Op: query.OpEq, Value: ownerID}}},
		query.Lookup{
			From:         "likes",
			LocalField:   "id",
			ForeignField: "video",
			As:           "likes",
		},
		query.AddFields{"likesCount": query.Size{Field: "likes"}},
		query.Project{
			"videoFile", "thumbnail", "title", "description", "duration",
			"views", "isPublished", "likesCount", "createdAt",
		},
		query.Sort{Field: "createdAt", Descending: true},
	}

	result, err := s.engine.Paginate(ctx, "videos", pipeline, page)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("owner video listing failed")
		return nil, internalErr(err)
	}
	return result, nil
}

// ownedVideo loads a video and applies the ownership guard, existence first.
func (s *VideoService) ownedVideo(ctx context.Context, callerID, videoID string) (*domain.Video, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if err := assertOwner(video.OwnerID, callerID); err != nil {
		return nil, err
	}
	return video, nil
}
