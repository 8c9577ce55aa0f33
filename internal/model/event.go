package model

import "encoding/json"

// Inbound event types sent by the voice-call platform.
const (
	EventTranscript      = "transcript"
	EventToolCalls       = "tool-calls"
	EventStatusUpdate    = "status-update"
	EventEndOfCallReport = "end-of-call-report"
)

// Envelope is the outer shape of a platform webhook request.
type Envelope struct {
	Message Message `json:"message"`
}

// Message is one platform event. Type selects which fields are meaningful.
type Message struct {
	Type           string     `json:"type"`
	Call           CallRef    `json:"call"`
	Transcript     string     `json:"transcript,omitempty"`
	TranscriptType string     `json:"transcriptType,omitempty"`
	Role           string     `json:"role,omitempty"`
	ToolCalls      []ToolCall `json:"toolCalls,omitempty"`
	Status         string     `json:"status,omitempty"`
	EndedReason    string     `json:"endedReason,omitempty"`
}

// CallRef identifies the originating call.
type CallRef struct {
	ID string `json:"id"`
}

// ToolCall is one tool invocation the platform asks the service to fulfil.
// Arguments may arrive as a JSON object or as an escaped string; parsing is
// deferred to the consumer so a bad payload never fails the request.
type ToolCall struct {
	ID       string       `json:"id"`
	Function ToolFunction `json:"function"`
}

// ToolFunction names the invoked tool and carries its raw arguments.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCallResult acknowledges a single tool invocation back to the platform.
type ToolCallResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// WebhookResponse is the body returned to the platform. The results list is
// only populated for tool-calls events; every other event type gets an empty
// ack so the platform does not retry.
type WebhookResponse struct {
	Results []ToolCallResult `json:"results,omitempty"`
}

// CallID returns the call identifier, or the "unknown" sentinel when the
// platform omitted it.
func (m Message) CallID() string {
	if m.Call.ID == "" {
		return UnknownCallID
	}
	return m.Call.ID
}

// ParseToolArguments decodes tool-call arguments into a map. Arguments that
// are not a JSON object (including double-encoded or malformed payloads) are
// passed through under a "raw" key rather than rejected.
func ParseToolArguments(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj
	}

	// Some platforms double-encode arguments as a JSON string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &obj); err == nil {
			return obj
		}
		return map[string]any{"raw": s}
	}

	return map[string]any{"raw": string(raw)}
}
