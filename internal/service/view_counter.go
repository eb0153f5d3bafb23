package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cliptube/cliptube/internal/cache"
	"github.com/cliptube/cliptube/internal/repository"
)

// ViewCounter buffers view increments in the cache and flushes them to the
// store in the background. Views are an engagement metric, not a ledger: a
// failed persist never fails the read that observed the incremented value,
// and increments lost to a crash are acceptable.
type ViewCounter struct {
	videos   repository.VideoRepository
	cache    cache.Cache
	logger   zerolog.Logger
	interval time.Duration

	mu    sync.Mutex
	dirty map[string]struct{}

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewViewCounter creates a ViewCounter and starts its flush loop.
func NewViewCounter(videos repository.VideoRepository, c cache.Cache, interval time.Duration, logger zerolog.Logger) *ViewCounter {
	vc := &ViewCounter{
		videos:   videos,
		cache:    c,
		logger:   logger.With().Str("component", "view_counter").Logger(),
		interval: interval,
		dirty:    make(map[string]struct{}),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go vc.loop()
	return vc
}

// Add records one view for the video. Best-effort: errors are logged, never
// returned to the read path.
func (vc *ViewCounter) Add(ctx context.Context, videoID string) {
	if _, err := vc.cache.Increment(ctx, pendingViewsKey(videoID), 1); err != nil {
		vc.logger.Warn().Err(err).Str("video_id", videoID).Msg("failed to buffer view")
		return
	}

	vc.mu.Lock()
	vc.dirty[videoID] = struct{}{}
	vc.mu.Unlock()
}

// Stop flushes pending counts once and stops the loop.
func (vc *ViewCounter) Stop() {
	vc.stopOnce.Do(func() { close(vc.stopCh) })
	<-vc.doneCh
}

func (vc *ViewCounter) loop() {
	defer close(vc.doneCh)

	ticker := time.NewTicker(vc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-vc.stopCh:
			vc.flush(context.Background())
			return
		case <-ticker.C:
			vc.flush(context.Background())
		}
	}
}

// flush drains buffered counts into the store. A video whose persist fails
// stays dirty and keeps its buffered count for the next round.
func (vc *ViewCounter) flush(ctx context.Context) {
	vc.mu.Lock()
	ids := make([]string, 0, len(vc.dirty))
	for id := range vc.dirty {
		ids = append(ids, id)
	}
	vc.dirty = make(map[string]struct{})
	vc.mu.Unlock()

	for _, id := range ids {
		pending, err := vc.cache.Increment(ctx, pendingViewsKey(id), 0)
		if err != nil || pending <= 0 {
			continue
		}

		if err := vc.videos.AddViews(ctx, id, pending); err != nil {
			vc.logger.Warn().Err(err).Str("video_id", id).Msg("failed to persist views")
			vc.mu.Lock()
			vc.dirty[id] = struct{}{}
			vc.mu.Unlock()
			continue
		}

		// Subtract what was persisted; increments that raced in since the
		// read stay buffered.
		if _, err := vc.cache.Increment(ctx, pendingViewsKey(id), -pending); err != nil {
			vc.logger.Warn().Err(err).Str("video_id", id).Msg("failed to clear buffered views")
		}
	}
}

func pendingViewsKey(videoID string) string {
	return "views:pending:" + videoID
}
