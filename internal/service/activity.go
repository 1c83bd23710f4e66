package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kushiservices/admin-backend/internal/models"
	"github.com/kushiservices/admin-backend/internal/upstream"
)

// ActivityFeed polls the upstream recent-activity endpoint on an
// interval and caches the latest batch. A failed poll keeps the
// previous batch; the dashboard never goes blank over a blip.
type ActivityFeed struct {
	Upstream upstream.Client
	Interval time.Duration
	Logger   zerolog.Logger

	mu        sync.RWMutex
	latest    []models.Activity
	fetchedAt time.Time
}

// Run polls until ctx is cancelled, fetching once immediately.
func (f *ActivityFeed) Run(ctx context.Context) {
	interval := f.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	f.poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *ActivityFeed) poll(ctx context.Context) {
	activities, err := f.Upstream.RecentActivities(ctx)
	if err != nil {
		f.Logger.Warn().Err(err).Msg("activity poll failed")
		return
	}
	f.mu.Lock()
	f.latest = activities
	f.fetchedAt = time.Now().UTC()
	f.mu.Unlock()
}

// Latest returns the cached batch and when it was fetched. A zero time
// means no successful poll has happened yet.
func (f *ActivityFeed) Latest() ([]models.Activity, time.Time) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Activity, len(f.latest))
	copy(out, f.latest)
	return out, f.fetchedAt
}
