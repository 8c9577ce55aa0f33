package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/metrics"
	"github.com/Sohailkhan2204/detectscam/internal/model"
)

// ReplaySource supplies buffered alerts for catch-up delivery on attach.
type ReplaySource interface {
	ReplayCandidates(now time.Time) []model.Alert
}

// Hub is the registry of live subscribers. It owns every Subscriber from
// attach to detach; no other component retains a reference.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	replay ReplaySource
}

// New creates a Hub. replay may be nil, in which case attach skips catch-up.
func New(replay ReplaySource) *Hub {
	return &Hub{
		subs:   make(map[string]*Subscriber),
		replay: replay,
	}
}

// Attach replays buffered alerts to the new subscriber, then adds it to the
// live set. Replay happens before the subscriber can receive broadcasts, so
// a replayed alert never races its own live delivery. Write errors are
// per-frame: a failed frame is logged and the rest are still attempted.
func (h *Hub) Attach(s *Subscriber) {
	if h.replay != nil {
		for _, alert := range h.replay.ReplayCandidates(time.Now()) {
			if err := s.Send(alert); err != nil {
				metrics.SendFailures.Inc()
				slog.Warn("replay delivery failed", "subscriber", s.ID, "call", alert.CallID, "error", err)
			}
		}
	}

	h.mu.Lock()
	h.subs[s.ID] = s
	n := len(h.subs)
	h.mu.Unlock()

	metrics.SubscribersActive.Set(float64(n))
	slog.Info("subscriber attached", "subscriber", s.ID, "total", n)
}

// Detach removes a subscriber from the live set. Idempotent; it does not
// close the transport, which belongs to whoever detected the disconnect.
func (h *Hub) Detach(id string) {
	h.mu.Lock()
	_, ok := h.subs[id]
	delete(h.subs, id)
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		metrics.SubscribersActive.Set(float64(n))
		slog.Info("subscriber detached", "subscriber", id, "total", n)
	}
}

// Broadcast delivers the alert to every live subscriber, best effort.
// Each delivery runs in its own goroutine: a slow or wedged peer only burns
// its own write deadline and never holds up the other subscribers or the
// caller beyond that deadline. Failed peers stay attached; the next liveness
// probe evicts them. Returns the number delivered.
func (h *Hub) Broadcast(alert model.Alert) int {
	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	var (
		wg        sync.WaitGroup
		delivered atomic.Int64
	)
	for _, s := range targets {
		wg.Add(1)
		go func(s *Subscriber) {
			defer wg.Done()
			if err := s.Send(alert); err != nil {
				metrics.SendFailures.Inc()
				slog.Warn("alert delivery failed", "subscriber", s.ID, "kind", alert.Type, "error", err)
				return
			}
			delivered.Add(1)
		}(s)
	}
	wg.Wait()

	metrics.AlertsBroadcast.WithLabelValues(string(alert.Type)).Inc()
	return int(delivered.Load())
}

// ProbeLiveness evicts every subscriber whose previous ping went unanswered,
// then pings the rest. The pong handler flips the flag back before the next
// cycle; a half-dead peer survives at most two cycles.
func (h *Hub) ProbeLiveness() {
	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !s.Alive() {
			h.evict(s, "missed pong")
			continue
		}
		s.markAwaitingPong()
		if err := s.Ping(); err != nil {
			h.evict(s, "ping failed")
		}
	}
}

func (h *Hub) evict(s *Subscriber, reason string) {
	_ = s.Close()
	h.Detach(s.ID)
	metrics.SubscribersEvicted.Inc()
	slog.Info("subscriber evicted", "subscriber", s.ID, "reason", reason)
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
