// Package config loads the service configuration from YAML with defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sohailkhan2204/detectscam/internal/intel"
)

// Duration is a time.Duration that unmarshals from YAML strings like "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the service configuration.
type Config struct {
	Addr          string                `yaml:"addr"`
	ReplayTTL     Duration              `yaml:"replay_ttl"`
	SweepInterval Duration              `yaml:"sweep_interval"`
	ProbeInterval Duration              `yaml:"probe_interval"`
	IndicatorFile string                `yaml:"indicator_file"`
	IntelDB       string                `yaml:"intel_db"`
	Webhooks      []intel.WebhookConfig `yaml:"webhooks"`
	IngestRate    int                   `yaml:"ingest_rate"` // requests per minute, 0 disables
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		ReplayTTL:     Duration(2 * time.Minute),
		SweepInterval: Duration(30 * time.Second),
		ProbeInterval: Duration(20 * time.Second),
		IngestRate:    600,
	}
}

// Load loads configuration from a YAML file. Empty path and missing file
// return defaults; the file overwrites only the fields it sets.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.ReplayTTL.Std() <= 0 {
		return fmt.Errorf("replay_ttl must be positive")
	}
	if c.SweepInterval.Std() <= 0 {
		return fmt.Errorf("sweep_interval must be positive")
	}
	if c.ProbeInterval.Std() <= 0 {
		return fmt.Errorf("probe_interval must be positive")
	}
	if c.IngestRate < 0 {
		return fmt.Errorf("ingest_rate must not be negative")
	}
	for i, wh := range c.Webhooks {
		if wh.URL == "" {
			return fmt.Errorf("webhook %d has no url", i)
		}
	}
	return nil
}
