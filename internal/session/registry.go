// Package session tracks per-call fraud state: whether a call has already
// triggered an alert, and the most recent alert buffered for replay to
// late-attaching subscribers.
package session

import (
	"sync"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/model"
)

// DefaultTTL is how long a call's last alert stays replayable.
const DefaultTTL = 2 * time.Minute

// entry is the per-call record. Triggered implies a fraud alert was raised
// for this call id earlier in its lifetime.
type entry struct {
	triggered     bool
	lastAlert     model.Alert
	lastAlertTime time.Time
}

// Registry is a concurrency-safe map of call id to session entry.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

// NewRegistry creates a Registry with the given replay TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// TriggerAndRecord is the single atomic decision point for per-call dedup.
// It returns false if the call already triggered; otherwise it marks the
// call triggered, buffers the alert for replay, and returns true. Two
// concurrent qualifying transcripts for the same call id can never both
// get true.
func (r *Registry) TriggerAndRecord(callID string, alert model.Alert) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[callID]
	if ok && e.triggered {
		return false
	}
	if !ok {
		e = &entry{}
		r.entries[callID] = e
	}
	e.triggered = true
	e.lastAlert = alert
	e.lastAlertTime = time.Now()
	return true
}

// ReplayCandidates returns a copy of every buffered alert still inside the
// TTL at now, tagged as a replay so subscribers can tell it apart from a
// live first delivery.
func (r *Registry) ReplayCandidates(now time.Time) []model.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Alert
	for _, e := range r.entries {
		if now.Sub(e.lastAlertTime) >= r.ttl {
			continue
		}
		a := e.lastAlert
		a.Replay = true
		out = append(out, a)
	}
	return out
}

// Retire removes the call's entry unconditionally. Called on terminal
// lifecycle status. A reused call id after retirement is treated as an
// unrelated call.
func (r *Registry) Retire(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, callID)
}

// Sweep removes every entry whose last alert is older than the TTL at now
// and returns how many were removed. It is the safety net for calls whose
// terminal lifecycle event never arrives.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if now.Sub(e.lastAlertTime) >= r.ttl {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of buffered session entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
