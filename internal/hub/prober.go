package hub

import (
	"context"
	"time"
)

// DefaultProbeInterval is the liveness probe cadence. Together with the
// missed-pong rule it bounds how long a half-dead connection stays in the
// live set to roughly two intervals.
const DefaultProbeInterval = 20 * time.Second

// Prober drives ProbeLiveness on a fixed cadence.
type Prober struct {
	hub      *Hub
	interval time.Duration
}

// NewProber creates a Prober. A non-positive interval falls back to
// DefaultProbeInterval.
func NewProber(hub *Hub, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &Prober{hub: hub, interval: interval}
}

// Run probes until ctx is cancelled.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.hub.ProbeLiveness()
		}
	}
}
