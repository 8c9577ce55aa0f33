package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sohailkhan2204/detectscam/internal/intel"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.ReplayTTL.Std() != 2*time.Minute {
		t.Errorf("expected default TTL 2m, got %s", cfg.ReplayTTL.Std())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9090\"\nreplay_ttl: 5m\nwebhooks:\n  - url: https://ops.example.com/hook\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected overridden addr, got %q", cfg.Addr)
	}
	if cfg.ReplayTTL.Std() != 5*time.Minute {
		t.Errorf("expected overridden TTL, got %s", cfg.ReplayTTL.Std())
	}
	if cfg.SweepInterval.Std() != 30*time.Second {
		t.Errorf("expected default sweep interval to survive, got %s", cfg.SweepInterval.Std())
	}
	if len(cfg.Webhooks) != 1 || cfg.Webhooks[0].URL != "https://ops.example.com/hook" {
		t.Errorf("unexpected webhooks: %+v", cfg.Webhooks)
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("replay_ttl: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidateRejectsEmptyAddr(t *testing.T) {
	cfg := Default()
	cfg.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty addr")
	}
}

func TestValidateRejectsZeroTTL(t *testing.T) {
	cfg := Default()
	cfg.ReplayTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero replay_ttl")
	}
}

func TestValidateRejectsZeroIntervals(t *testing.T) {
	cfg := Default()
	cfg.SweepInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero sweep_interval")
	}

	cfg = Default()
	cfg.ProbeInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero probe_interval")
	}
}

func TestValidateRejectsWebhookWithoutURL(t *testing.T) {
	cfg := Default()
	cfg.Webhooks = append(cfg.Webhooks, intel.WebhookConfig{})
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for webhook without url")
	}
}
