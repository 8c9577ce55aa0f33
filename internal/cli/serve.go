package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sohailkhan2204/detectscam/internal/broker"
	"github.com/Sohailkhan2204/detectscam/internal/classifier"
	"github.com/Sohailkhan2204/detectscam/internal/config"
	"github.com/Sohailkhan2204/detectscam/internal/hub"
	"github.com/Sohailkhan2204/detectscam/internal/intel"
	"github.com/Sohailkhan2204/detectscam/internal/server"
	"github.com/Sohailkhan2204/detectscam/internal/session"
)

var (
	serveConfig     string
	serveAddr       string
	serveIndicators string
	serveIntelDB    string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to service config YAML")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveIndicators, "indicators", "", "Path to indicator phrase YAML (overrides config)")
	serveCmd.Flags().StringVar(&serveIntelDB, "intel-db", "", "Path to scam-intel SQLite archive (overrides config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the alert distribution service",
	Long:  "Listens for platform webhook events, classifies transcripts, and broadcasts alerts to WebSocket subscribers.\nSupports hot-reload of the indicator phrase file.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveIndicators != "" {
		cfg.IndicatorFile = serveIndicators
	}
	if serveIntelDB != "" {
		cfg.IntelDB = serveIntelDB
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	phrases, err := classifier.LoadPhrases(cfg.IndicatorFile)
	if err != nil {
		return fmt.Errorf("failed to load indicators: %w", err)
	}
	cls := classifier.New(phrases)

	sessions := session.NewRegistry(cfg.ReplayTTL.Std())
	h := hub.New(sessions)

	var archive broker.Archive
	if cfg.IntelDB != "" {
		store, err := intel.Open(cfg.IntelDB)
		if err != nil {
			return fmt.Errorf("failed to open intel archive: %w", err)
		}
		defer store.Close()
		archive = store
	}

	forwarder := intel.NewForwarder(cfg.Webhooks)
	b := broker.New(cls, sessions, h, archive, forwarder)
	srv := server.New(server.Config{Addr: cfg.Addr, IngestRate: cfg.IngestRate}, b, h, sessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go session.NewSweeper(sessions, cfg.SweepInterval.Std()).Run(ctx)
	go hub.NewProber(h, cfg.ProbeInterval.Std()).Run(ctx)

	if cfg.IndicatorFile != "" {
		reloader, err := server.NewIndicatorReloader(cls, cfg.IndicatorFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: indicator hot-reload disabled: %v\n", err)
		} else {
			go reloader.Run(ctx)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("detectscam listening",
		"addr", cfg.Addr,
		"indicators", len(phrases),
		"replay_ttl", cfg.ReplayTTL.Std().String(),
		"intel_db", cfg.IntelDB,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
