// Package hub maintains the set of live alert subscribers and fans alerts
// out to them over WebSocket, with ping/pong liveness eviction.
package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Sohailkhan2204/detectscam/internal/model"
)

// writeTimeout bounds a single write so one wedged peer cannot stall the
// broadcast loop. A peer that keeps missing the deadline fails its next
// liveness probe and is evicted.
const writeTimeout = 5 * time.Second

// Transport is the subset of *websocket.Conn the hub needs. Tests supply
// in-memory fakes.
type Transport interface {
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Subscriber is one attached client. The liveness flag is flipped false by
// the prober and back true by the transport's pong responder; nothing else
// touches it.
type Subscriber struct {
	ID string

	mu    sync.Mutex // serializes writes to the transport
	conn  Transport
	alive atomic.Bool
}

// NewSubscriber wraps a transport and installs the pong handler that
// re-arms the liveness flag.
func NewSubscriber(conn Transport) *Subscriber {
	s := &Subscriber{
		ID:   uuid.NewString(),
		conn: conn,
	}
	s.alive.Store(true)
	conn.SetPongHandler(func(string) error {
		s.alive.Store(true)
		return nil
	})
	return s
}

// Send delivers one alert as a JSON frame.
func (s *Subscriber) Send(alert model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(alert)
}

// Ping sends a liveness probe frame.
func (s *Subscriber) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// Alive reports whether the last probe was answered.
func (s *Subscriber) Alive() bool {
	return s.alive.Load()
}

// markAwaitingPong arms the next probe cycle: if no pong arrives before it,
// the subscriber is considered dead.
func (s *Subscriber) markAwaitingPong() {
	s.alive.Store(false)
}

// Close terminates the underlying transport.
func (s *Subscriber) Close() error {
	return s.conn.Close()
}
