package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/query"
	"github.com/cliptube/cliptube/internal/repository"
)

// DashboardService aggregates a channel's own statistics. Everything here is
// caller-scoped: the dashboard shows only the authenticated channel.
type DashboardService struct {
	engine *query.Engine
	logger zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(store *repository.Store, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		engine: query.NewEngine(store.Source),
		logger: logger.With().Str("service", "dashboard").Logger(),
	}
}

// ChannelStats holds the aggregate totals for one channel.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalViews       int64 `json:"totalViews"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalLikes       int64 `json:"totalLikes"`
}

// Stats computes the channel totals: video count, summed views, subscriber
// count, and likes received across the channel's videos.
func (s *DashboardService) Stats(ctx context.Context, channelID string) (*ChannelStats, error) {
	videos, err := s.engine.Run(ctx, "videos", query.Pipeline{
		query.Match{All: []query.Cond{{Field: "owner", Op: query.OpEq, Value: channelID}}},
		query.Lookup{
			From:         "likes",
			LocalField:   "id",
			ForeignField: "video",
			As:           "likes",
		},
		query.AddFields{"likesCount": query.Size{Field: "likes"}},
		query.Project{"views", "likesCount"},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelID).Msg("dashboard video pipeline failed")
		return nil, internalErr(err)
	}

	stats := &ChannelStats{TotalVideos: int64(len(videos))}
	for _, v := range videos {
		stats.TotalViews += asCount(v["views"])
		stats.TotalLikes += asCount(v["likesCount"])
	}

	subs, err := s.engine.Run(ctx, "subscriptions", query.Pipeline{
		query.Match{All: []query.Cond{{Field: "channel", Op: query.OpEq, Value: channelID}}},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("channel_id", channelID).Msg("dashboard subscription pipeline failed")
		return nil, internalErr(err)
	}
	stats.TotalSubscribers = int64(len(subs))

	return stats, nil
}

func asCount(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
