package model

import "time"

// Kind identifies the alert variant pushed to subscribers.
type Kind string

const (
	KindFraudAlert       Kind = "FRAUD_ALERT"
	KindScamDataCaptured Kind = "SCAM_DATA_CAPTURED"
	KindCallStatus       Kind = "CALL_STATUS"
)

// Severity classifies how strong the fraud signal is.
type Severity string

const (
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// UnknownCallID is the dedup key used when the platform omits a call id.
// All id-less calls deliberately collide on it; the upstream platform is
// expected to supply ids on real traffic.
const UnknownCallID = "unknown"

// Alert is the tagged union delivered to subscribers. Type selects which
// of the kind-specific fields are populated. Alerts are values: once
// broadcast, nothing mutates them.
type Alert struct {
	Type      Kind      `json:"type"`
	CallID    string    `json:"callId"`
	Timestamp time.Time `json:"timestamp"`
	Replay    bool      `json:"replay,omitempty"`

	// FRAUD_ALERT fields.
	Severity   Severity `json:"severity,omitempty"`
	Indicators []string `json:"indicators,omitempty"`
	Transcript string   `json:"transcript,omitempty"`
	Confidence int      `json:"confidence,omitempty"`

	// SCAM_DATA_CAPTURED fields.
	Data map[string]any `json:"data,omitempty"`

	// CALL_STATUS fields.
	Status string `json:"status,omitempty"`
}

// NewFraudAlert builds a FRAUD_ALERT for a classified transcript.
func NewFraudAlert(callID string, indicators []string, severity Severity, confidence int, transcript string) Alert {
	return Alert{
		Type:       KindFraudAlert,
		CallID:     callID,
		Timestamp:  time.Now().UTC(),
		Severity:   severity,
		Indicators: indicators,
		Confidence: confidence,
		Transcript: transcript,
	}
}

// NewScamDataAlert builds a SCAM_DATA_CAPTURED alert for intel logged by
// the platform's scam-intel tool. Every capture is alerted; there is no
// per-call dedup for this kind.
func NewScamDataAlert(callID string, data map[string]any) Alert {
	return Alert{
		Type:      KindScamDataCaptured,
		CallID:    callID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewStatusAlert builds a CALL_STATUS lifecycle alert.
func NewStatusAlert(callID, status string) Alert {
	return Alert{
		Type:      KindCallStatus,
		CallID:    callID,
		Timestamp: time.Now().UTC(),
		Status:    status,
	}
}

// terminalStatuses are the lifecycle states after which a call's session
// entry must be retired.
var terminalStatuses = map[string]bool{
	"ended":     true,
	"completed": true,
	"failed":    true,
	"busy":      true,
	"no-answer": true,
}

// IsTerminalStatus reports whether a lifecycle status ends the call.
func IsTerminalStatus(status string) bool {
	return terminalStatuses[status]
}
