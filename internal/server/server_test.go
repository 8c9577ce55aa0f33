package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sohailkhan2204/detectscam/internal/broker"
	"github.com/Sohailkhan2204/detectscam/internal/classifier"
	"github.com/Sohailkhan2204/detectscam/internal/hub"
	"github.com/Sohailkhan2204/detectscam/internal/model"
	"github.com/Sohailkhan2204/detectscam/internal/session"
)

func newTestServer(ingestRate int) (*Server, *hub.Hub, *session.Registry) {
	sessions := session.NewRegistry(session.DefaultTTL)
	h := hub.New(sessions)
	b := broker.New(classifier.NewDefault(), sessions, h, nil, nil)
	return New(Config{Addr: ":0", IngestRate: ingestRate}, b, h, sessions), h, sessions
}

func postEvent(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/webhook", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func dialAlerts(t *testing.T, srv *httptest.Server, h *hub.Hub) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/alerts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial alerts: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the server side to finish attaching.
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never attached")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestWebhookTranscriptBroadcastsFraudAlert(t *testing.T) {
	s, h, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dialAlerts(t, srv, h)

	body := `{"message":{"type":"transcript","call":{"id":"call-1"},"transcriptType":"final","transcript":"please share your otp for kyc verification"}}`
	resp := postEvent(t, srv.URL, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var alert model.Alert
	if err := conn.ReadJSON(&alert); err != nil {
		t.Fatalf("read alert: %v", err)
	}
	if alert.Type != model.KindFraudAlert || alert.CallID != "call-1" {
		t.Errorf("unexpected alert: %+v", alert)
	}
	if alert.Severity != model.SeverityHigh || alert.Confidence != 60 {
		t.Errorf("unexpected classification: %+v", alert)
	}
	if alert.Replay {
		t.Error("live delivery must not be tagged replay")
	}
}

func TestLateSubscriberGetsReplay(t *testing.T) {
	s, h, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"message":{"type":"transcript","call":{"id":"call-1"},"transcript":"read me the otp and cvv"}}`
	postEvent(t, srv.URL, body)

	conn := dialAlerts(t, srv, h)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var alert model.Alert
	if err := conn.ReadJSON(&alert); err != nil {
		t.Fatalf("read replayed alert: %v", err)
	}
	if !alert.Replay {
		t.Error("expected replay tag on catch-up delivery")
	}
	if alert.CallID != "call-1" {
		t.Errorf("unexpected call id %q", alert.CallID)
	}
}

func TestWebhookMalformedBodyAckedAsNoOp(t *testing.T) {
	s, _, sessions := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp := postEvent(t, srv.URL, `{definitely not json`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("malformed events must be acked with 200, got %d", resp.StatusCode)
	}
	if sessions.Len() != 0 {
		t.Error("malformed events must not create state")
	}
}

func TestWebhookMissingTypeAckedAsNoOp(t *testing.T) {
	s, _, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp := postEvent(t, srv.URL, `{"message":{"call":{"id":"call-1"}}}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for event without type, got %d", resp.StatusCode)
	}
}

func TestWebhookToolCallAcknowledged(t *testing.T) {
	s, _, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"message":{"type":"tool-calls","call":{"id":"call-1"},"toolCalls":[{"id":"tc-1","function":{"name":"log_scam_data","arguments":{"tactic":"otp"}}}]}}`
	resp := postEvent(t, srv.URL, body)

	var ack model.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if len(ack.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(ack.Results))
	}
	if ack.Results[0].ToolCallID != "tc-1" || ack.Results[0].Result != "Logged" {
		t.Errorf("unexpected ack: %+v", ack.Results[0])
	}
}

func TestEndOfCallReportRetiresSession(t *testing.T) {
	s, _, sessions := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	postEvent(t, srv.URL, `{"message":{"type":"transcript","call":{"id":"call-1"},"transcript":"share the otp for kyc"}}`)
	if sessions.Len() != 1 {
		t.Fatal("expected a buffered session after trigger")
	}

	postEvent(t, srv.URL, `{"message":{"type":"end-of-call-report","call":{"id":"call-1"}}}`)
	if sessions.Len() != 0 {
		t.Error("expected end-of-call-report to retire the session")
	}
}

func TestHealthzReportsCounts(t *testing.T) {
	s, h, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	dialAlerts(t, srv, h)
	postEvent(t, srv.URL, `{"message":{"type":"transcript","call":{"id":"call-1"},"transcript":"share the otp for kyc"}}`)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status        string `json:"status"`
		Connections   int    `json:"connections"`
		BufferedCalls int    `json:"bufferedCalls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode healthz: %v", err)
	}
	if health.Status != "ok" || health.Connections != 1 || health.BufferedCalls != 1 {
		t.Errorf("unexpected health: %+v", health)
	}
}

func TestWebhookRateLimited(t *testing.T) {
	s, _, _ := newTestServer(1)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	first := postEvent(t, srv.URL, `{"message":{"type":"status-update","call":{"id":"c"},"status":"ringing"}}`)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", first.StatusCode)
	}
	second := postEvent(t, srv.URL, `{"message":{"type":"status-update","call":{"id":"c"},"status":"ringing"}}`)
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429 past the rate limit, got %d", second.StatusCode)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	s, _, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
}

func TestSubscriberDetachedOnClose(t *testing.T) {
	s, h, _ := newTestServer(0)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dialAlerts(t, srv, h)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber not detached after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
