package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Sohailkhan2204/detectscam/internal/classifier"
)

// IndicatorReloader watches the indicator phrase file and hot-swaps the
// classifier's active list on change.
type IndicatorReloader struct {
	watcher    *fsnotify.Watcher
	classifier *classifier.Classifier
	path       string
}

// NewIndicatorReloader creates a file watcher for the indicator file.
// Returns an error when the file does not exist or cannot be watched.
func NewIndicatorReloader(c *classifier.Classifier, path string) (*IndicatorReloader, error) {
	if path == "" {
		return nil, fmt.Errorf("no indicator file to watch")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("indicator file not watchable: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	return &IndicatorReloader{
		watcher:    watcher,
		classifier: c,
		path:       path,
	}, nil
}

// Run watches for file changes and reloads phrases. Blocks until ctx is
// cancelled.
func (r *IndicatorReloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, r.reload)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("indicator watcher error", "error", err)
		}
	}
}

func (r *IndicatorReloader) reload() {
	phrases, err := classifier.LoadPhrases(r.path)
	if err != nil {
		slog.Error("indicator hot-reload failed", "path", r.path, "error", err)
		return
	}
	r.classifier.SetPhrases(phrases)
	slog.Info("indicator list reloaded", "path", r.path, "phrases", len(phrases))
}
