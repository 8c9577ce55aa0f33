// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubscribersActive is the current number of live alert subscribers.
	SubscribersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "detectscam_subscribers_active",
		Help: "Number of live WebSocket subscribers.",
	})

	// SessionsBuffered is the current number of un-expired call sessions.
	SessionsBuffered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "detectscam_sessions_buffered",
		Help: "Number of buffered call-session entries.",
	})

	// AlertsBroadcast counts alerts fanned out, by kind.
	AlertsBroadcast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detectscam_alerts_broadcast_total",
		Help: "Alerts broadcast to subscribers, by alert kind.",
	}, []string{"kind"})

	// EventsIngested counts inbound platform events, by message type.
	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detectscam_events_ingested_total",
		Help: "Inbound webhook events, by message type.",
	}, []string{"type"})

	// SendFailures counts per-subscriber delivery failures.
	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detectscam_send_failures_total",
		Help: "Failed alert deliveries to individual subscribers.",
	})

	// SubscribersEvicted counts liveness-probe evictions.
	SubscribersEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detectscam_subscribers_evicted_total",
		Help: "Subscribers evicted after an unanswered liveness probe.",
	})
)
