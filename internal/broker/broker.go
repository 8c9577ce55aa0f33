// Package broker is the integration point between inbound platform events
// and the alert fan-out: it classifies transcripts, enforces the one
// fraud alert per call rule, and pushes alerts through the hub.
package broker

import (
	"log/slog"

	"github.com/Sohailkhan2204/detectscam/internal/classifier"
	"github.com/Sohailkhan2204/detectscam/internal/hub"
	"github.com/Sohailkhan2204/detectscam/internal/intel"
	"github.com/Sohailkhan2204/detectscam/internal/metrics"
	"github.com/Sohailkhan2204/detectscam/internal/model"
	"github.com/Sohailkhan2204/detectscam/internal/session"
)

// ToolLogScamData is the platform tool whose invocations are captured as
// scam intelligence. Other tool names are acknowledged as no-ops.
const ToolLogScamData = "log_scam_data"

// Archive records captured scam intel. *intel.Store satisfies it.
type Archive interface {
	Record(c intel.Capture) error
}

// Broker wires the classifier, session registry and hub together.
// Archive and Forwarder are optional; nil disables them.
type Broker struct {
	classifier *classifier.Classifier
	sessions   *session.Registry
	hub        *hub.Hub
	archive    Archive
	forwarder  *intel.Forwarder
}

// New creates a Broker.
func New(c *classifier.Classifier, sessions *session.Registry, h *hub.Hub, archive Archive, forwarder *intel.Forwarder) *Broker {
	return &Broker{
		classifier: c,
		sessions:   sessions,
		hub:        h,
		archive:    archive,
		forwarder:  forwarder,
	}
}

// OnTranscript classifies a transcript and, for the first qualifying one
// per call, broadcasts a fraud alert. No indicator match or an already
// triggered call is a silent no-op.
func (b *Broker) OnTranscript(callID, transcriptType, text string) {
	res, ok := b.classifier.Classify(text)
	if !ok {
		return
	}

	alert := model.NewFraudAlert(callID, res.Indicators, res.Severity, res.Confidence, text)
	if !b.sessions.TriggerAndRecord(callID, alert) {
		slog.Debug("fraud already alerted for call", "call", callID)
		return
	}
	metrics.SessionsBuffered.Set(float64(b.sessions.Len()))

	delivered := b.hub.Broadcast(alert)
	slog.Info("fraud alert raised",
		"call", callID,
		"severity", alert.Severity,
		"indicators", alert.Indicators,
		"confidence", alert.Confidence,
		"transcriptType", transcriptType,
		"delivered", delivered,
	)

	if b.forwarder != nil {
		b.forwarder.Forward(alert)
	}
}

// OnToolCall handles one platform tool invocation. Scam-intel captures are
// archived and broadcast without dedup; every invocation is acknowledged so
// the platform can close out its call flow.
func (b *Broker) OnToolCall(callID string, tc model.ToolCall) model.ToolCallResult {
	if tc.Function.Name != ToolLogScamData {
		return model.ToolCallResult{ToolCallID: tc.ID}
	}

	data := model.ParseToolArguments(tc.Function.Arguments)
	alert := model.NewScamDataAlert(callID, data)

	if b.archive != nil {
		err := b.archive.Record(intel.Capture{
			CallID:     callID,
			CapturedAt: alert.Timestamp,
			Data:       data,
		})
		if err != nil {
			// Archive failures never block the capture ack or broadcast.
			slog.Error("intel archive failed", "call", callID, "error", err)
		}
	}

	delivered := b.hub.Broadcast(alert)
	slog.Info("scam data captured", "call", callID, "delivered", delivered)

	if b.forwarder != nil {
		b.forwarder.Forward(alert)
	}
	return model.ToolCallResult{ToolCallID: tc.ID, Result: "Logged"}
}

// OnStatusUpdate broadcasts the lifecycle change and retires the call's
// session on terminal status.
func (b *Broker) OnStatusUpdate(callID, status string) {
	b.hub.Broadcast(model.NewStatusAlert(callID, status))

	if model.IsTerminalStatus(status) {
		b.sessions.Retire(callID)
		metrics.SessionsBuffered.Set(float64(b.sessions.Len()))
		slog.Info("call retired", "call", callID, "status", status)
	}
}
