package intel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/model"
)

const (
	requestTimeout = 5 * time.Second
	maxRetries     = 3
)

var httpClient = &http.Client{Timeout: requestTimeout}

// WebhookConfig defines an operator webhook destination. An empty Kinds
// list forwards only high-severity fraud alerts.
type WebhookConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Kinds   []string          `yaml:"kinds"   json:"kinds"`
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Forwarder fans out alerts to matching webhook destinations.
type Forwarder struct {
	configs []WebhookConfig
}

// NewForwarder creates a Forwarder from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewForwarder(configs []WebhookConfig) *Forwarder {
	if len(configs) == 0 {
		return nil
	}
	return &Forwarder{configs: configs}
}

// Forward sends the alert to every webhook whose Kinds list matches.
// Fires goroutines — does not block the broadcast path.
func (f *Forwarder) Forward(alert model.Alert) {
	for _, cfg := range f.configs {
		if matches(cfg, alert) {
			go func(cfg WebhookConfig) { _ = Send(cfg, alert) }(cfg)
		}
	}
}

func matches(cfg WebhookConfig, alert model.Alert) bool {
	if len(cfg.Kinds) == 0 {
		return alert.Type == model.KindFraudAlert && alert.Severity == model.SeverityHigh
	}
	for _, k := range cfg.Kinds {
		if k == string(alert.Type) {
			return true
		}
	}
	return false
}

// Send posts an alert to a webhook endpoint with retry on 5xx.
func Send(cfg WebhookConfig, alert model.Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, cfg.URL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("webhook rejected: HTTP %d", resp.StatusCode)
		}
		// 5xx — retry
		lastErr = fmt.Errorf("webhook server error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook failed after %d attempts: %w", maxRetries, lastErr)
}
