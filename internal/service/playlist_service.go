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

// PlaylistService manages owned, ordered video collections.
type PlaylistService struct {
	playlists repository.PlaylistRepository
	videos    repository.VideoRepository
	users     repository.UserRepository
	engine    *query.Engine
	logger    zerolog.Logger
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(store *repository.Store, logger zerolog.Logger) *PlaylistService {
	return &PlaylistService{
		playlists: store.Playlists,
		videos:    store.Videos,
		users:     store.Users,
		engine:    query.NewEngine(store.Source),
		logger:    logger.With().Str("service", "playlist").Logger(),
	}
}

// Create makes a new empty playlist for the caller.
func (s *PlaylistService) Create(ctx context.Context, callerID, name, description string) (*domain.Playlist, error) {
	if err := requireField("name", name); err != nil {
		return nil, err
	}

	playlist := domain.NewPlaylist(callerID, name, description)
	if err := s.playlists.Create(ctx, playlist); err != nil {
		s.logger.Error().Err(err).Msg("failed to create playlist")
		return nil, internalErr(err)
	}
	return playlist, nil
}

// Get returns a playlist with its videos resolved in playlist order. Videos
// deleted since they were added are silently skipped.
func (s *PlaylistService) Get(ctx context.Context, playlistID string) (query.Document, error) {
	if err := validateID(playlistID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}
	return s.enrich(ctx, playlist)
}

// ListByUser returns a user's playlists, each with resolved videos.
func (s *PlaylistService) ListByUser(ctx context.Context, userID string) ([]query.Document, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	playlists, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, internalErr(err)
	}

	docs := make([]query.Document, 0, len(playlists))
	for _, p := range playlists {
		doc, err := s.enrich(ctx, p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UpdatePlaylistInput carries the mutable playlist fields. Empty strings keep
// the current values.
type UpdatePlaylistInput struct {
	Name        string
	Description string
}

// Update edits name and description, owner-only.
func (s *PlaylistService) Update(ctx context.Context, callerID, playlistID string, input UpdatePlaylistInput) (*domain.Playlist, error) {
	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		playlist.Name = input.Name
	}
	if input.Description != "" {
		playlist.Description = input.Description
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, internalErr(err)
	}
	return playlist, nil
}

// AddVideo appends a video to a playlist, owner-only. The video must exist;
// duplicates are rejected.
func (s *PlaylistService) AddVideo(ctx context.Context, callerID, playlistID, videoID string) (*domain.Playlist, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}

	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}

	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if err := playlist.AddVideo(videoID); err != nil {
		return nil, err
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, internalErr(err)
	}
	return playlist, nil
}

// RemoveVideo removes a video from a playlist, owner-only.
func (s *PlaylistService) RemoveVideo(ctx context.Context, callerID, playlistID, videoID string) (*domain.Playlist, error) {
	if err := validateID(videoID); err != nil {
		return nil, err
	}

	playlist, err := s.ownedPlaylist(ctx, callerID, playlistID)
	if err != nil {
		return nil, err
	}

	if err := playlist.RemoveVideo(videoID); err != nil {
		return nil, err
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.playlists.Update(ctx, playlist); err != nil {
		return nil, internalErr(err)
	}
	return playlist, nil
}

// Delete removes a playlist, owner-only. Videos themselves are untouched.
func (s *PlaylistService) Delete(ctx context.Context, callerID, playlistID string) error {
	if _, err := s.ownedPlaylist(ctx, callerID, playlistID); err != nil {
		return err
	}

	if err := s.playlists.Delete(ctx, playlistID); err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return err
		}
		return internalErr(err)
	}
	return nil
}

// enrich shapes a playlist document with its videos resolved through the
// engine, keeping playlist order.
func (s *PlaylistService) enrich(ctx context.Context, playlist *domain.Playlist) (query.Document, error) {
	doc := query.Document{
		"id":          playlist.ID,
		"name":        playlist.Name,
		"description": playlist.Description,
		"owner":       playlist.OwnerID,
		"createdAt":   playlist.CreatedAt,
		"videos":      []query.Document{},
	}
	if len(playlist.VideoIDs) == 0 {
		return doc, nil
	}

	all, err := s.engine.Run(ctx, "videos", query.Pipeline{
		query.Project{"videoFile", "thumbnail", "title", "description", "duration", "views", "createdAt"},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("playlist_id", playlist.ID).Msg("playlist video pipeline failed")
		return nil, internalErr(err)
	}

	byID := make(map[string]query.Document, len(all))
	for _, v := range all {
		if id, ok := v["id"].(string); ok {
			byID[id] = v
		}
	}

	videos := make([]query.Document, 0, len(playlist.VideoIDs))
	for _, id := range playlist.VideoIDs {
		if v, ok := byID[id]; ok {
			videos = append(videos, v)
		}
	}
	doc["videos"] = videos
	return doc, nil
}

func (s *PlaylistService) ownedPlaylist(ctx context.Context, callerID, playlistID string) (*domain.Playlist, error) {
	if err := validateID(playlistID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, domain.ErrPlaylistNotFound) {
			return nil, err
		}
		return nil, internalErr(err)
	}

	if err := assertOwner(playlist.OwnerID, callerID); err != nil {
		return nil, err
	}
	return playlist, nil
}
