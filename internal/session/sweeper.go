package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/metrics"
)

// DefaultSweepInterval is how often expired entries are collected.
const DefaultSweepInterval = 30 * time.Second

// Sweeper periodically drops expired session entries, independent of
// traffic, so memory stays bounded when terminal lifecycle events are lost.
type Sweeper struct {
	registry *Registry
	interval time.Duration
}

// NewSweeper creates a Sweeper over the registry. A non-positive interval
// falls back to DefaultSweepInterval.
func NewSweeper(registry *Registry, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{registry: registry, interval: interval}
}

// Run sweeps on the configured cadence. Blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.registry.Sweep(now); removed > 0 {
				slog.Debug("swept expired call sessions", "removed", removed)
			}
			metrics.SessionsBuffered.Set(float64(s.registry.Len()))
		}
	}
}
