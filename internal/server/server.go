// Package server exposes the HTTP boundary: the platform webhook, the
// WebSocket attach endpoint, and the health/metrics surface.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sohailkhan2204/detectscam/internal/broker"
	"github.com/Sohailkhan2204/detectscam/internal/hub"
	"github.com/Sohailkhan2204/detectscam/internal/metrics"
	"github.com/Sohailkhan2204/detectscam/internal/model"
	"github.com/Sohailkhan2204/detectscam/internal/ratelimit"
	"github.com/Sohailkhan2204/detectscam/internal/session"
)

// maxBodyBytes bounds a single webhook request body.
const maxBodyBytes = 1 << 20

// Config holds HTTP server configuration.
type Config struct {
	Addr       string
	IngestRate int // webhook requests per minute, 0 disables limiting
}

// Server routes platform events to the broker and attaches subscribers to
// the hub.
type Server struct {
	broker   *broker.Broker
	hub      *hub.Hub
	sessions *session.Registry
	limiter  *ratelimit.Limiter
	upgrader websocket.Upgrader

	httpServer *http.Server
}

// New creates the HTTP server and its routes.
func New(cfg Config, b *broker.Broker, h *hub.Hub, sessions *session.Registry) *Server {
	s := &Server{
		broker:   b,
		hub:      h,
		sessions: sessions,
		limiter:  ratelimit.New(cfg.IngestRate, time.Minute),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /alerts", s.handleAlerts)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the server. Blocks until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and drains in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleWebhook ingests one platform event. Malformed events are dropped
// and acknowledged as no-ops so the platform does not retry indefinitely;
// the platform blocks its call flow on tool-call responses, so those always
// get a results list.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	var env model.Envelope
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		slog.Warn("malformed webhook body dropped", "error", err)
		writeJSON(w, model.WebhookResponse{})
		return
	}

	msg := env.Message
	if msg.Type == "" {
		slog.Warn("webhook event without type dropped")
		writeJSON(w, model.WebhookResponse{})
		return
	}
	metrics.EventsIngested.WithLabelValues(msg.Type).Inc()

	callID := msg.CallID()
	switch msg.Type {
	case model.EventTranscript:
		s.broker.OnTranscript(callID, msg.TranscriptType, msg.Transcript)
		writeJSON(w, model.WebhookResponse{})

	case model.EventToolCalls:
		results := make([]model.ToolCallResult, 0, len(msg.ToolCalls))
		for _, tc := range msg.ToolCalls {
			results = append(results, s.broker.OnToolCall(callID, tc))
		}
		writeJSON(w, model.WebhookResponse{Results: results})

	case model.EventStatusUpdate:
		s.broker.OnStatusUpdate(callID, msg.Status)
		writeJSON(w, model.WebhookResponse{})

	case model.EventEndOfCallReport:
		// The report doubles as a terminal lifecycle notice.
		s.broker.OnStatusUpdate(callID, "ended")
		writeJSON(w, model.WebhookResponse{})

	default:
		slog.Debug("ignoring unhandled event type", "type", msg.Type)
		writeJSON(w, model.WebhookResponse{})
	}
}

// handleAlerts upgrades the request and hands the connection to the hub.
// The read loop exists to pump control frames (pongs) and to notice the
// client going away; inbound data frames are discarded.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := hub.NewSubscriber(conn)
	s.hub.Attach(sub)
	defer func() {
		s.hub.Detach(sub.ID)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("subscriber read error", "subscriber", sub.ID, "error", err)
			}
			return
		}
	}
}

// handleHealthz reports the liveness surface: live subscriber count and
// buffered session count.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":        "ok",
		"connections":   s.hub.Count(),
		"bufferedCalls": s.sessions.Len(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}
