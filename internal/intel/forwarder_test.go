package intel

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/model"
)

func highFraud() model.Alert {
	return model.NewFraudAlert("call-1", []string{"otp", "kyc"}, model.SeverityHigh, 60, "otp for kyc")
}

func TestForwardDefaultMatchesHighFraud(t *testing.T) {
	var called atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewForwarder([]WebhookConfig{{URL: srv.URL}})
	f.Forward(highFraud())
	time.Sleep(200 * time.Millisecond)

	if called.Load() != 1 {
		t.Errorf("expected 1 call, got %d", called.Load())
	}
}

func TestForwardDefaultSkipsMediumAndStatus(t *testing.T) {
	var called atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewForwarder([]WebhookConfig{{URL: srv.URL}})
	f.Forward(model.NewFraudAlert("call-1", []string{"otp"}, model.SeverityMedium, 30, "otp"))
	f.Forward(model.NewStatusAlert("call-1", "ended"))
	time.Sleep(200 * time.Millisecond)

	if called.Load() != 0 {
		t.Errorf("expected 0 calls for non-matching alerts, got %d", called.Load())
	}
}

func TestForwardExplicitKinds(t *testing.T) {
	var called atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewForwarder([]WebhookConfig{{URL: srv.URL, Kinds: []string{"SCAM_DATA_CAPTURED"}}})
	f.Forward(model.NewScamDataAlert("call-1", map[string]any{"tactic": "otp"}))
	f.Forward(highFraud())
	time.Sleep(200 * time.Millisecond)

	if called.Load() != 1 {
		t.Errorf("expected only the capture alert forwarded, got %d", called.Load())
	}
}

func TestSendRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := Send(WebhookConfig{URL: srv.URL}, highFraud()); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestSendStopsOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if err := Send(WebhookConfig{URL: srv.URL}, highFraud()); err == nil {
		t.Error("expected error on 4xx")
	}
	if calls.Load() != 1 {
		t.Errorf("expected no retry on 4xx, got %d attempts", calls.Load())
	}
}

func TestNewForwarderEmptyIsNil(t *testing.T) {
	if NewForwarder(nil) != nil {
		t.Error("expected nil forwarder for empty config")
	}
}
