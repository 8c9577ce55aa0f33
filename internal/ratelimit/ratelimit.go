// Package ratelimit provides a fixed-window request limiter for the
// inbound webhook endpoint.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter allows up to rate requests per window.
type Limiter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time
	rate        int
	window      time.Duration
}

// New creates a Limiter that allows rate requests per window.
// A non-positive rate disables limiting (Allow always returns true).
func New(rate int, window time.Duration) *Limiter {
	return &Limiter{
		rate:        rate,
		window:      window,
		windowStart: time.Now(),
	}
}

// Allow reports whether the request fits in the current window.
func (l *Limiter) Allow() bool {
	if l.rate <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if now.Sub(l.windowStart) > l.window {
		l.count = 0
		l.windowStart = now
	}
	l.count++
	return l.count <= l.rate
}
