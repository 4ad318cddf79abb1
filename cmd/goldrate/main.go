package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/logging"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/runner"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	logging.Init(cfg.Log, os.Stdout)

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		slog.Warn(w)
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	slog.Info("goldrate starting",
		"city", cfg.Scraper.City,
		"url", cfg.Scraper.TargetURL,
		"engines", cfg.Scraper.Engines,
		"maxAttempts", cfg.Retry.MaxAttempts,
	)

	// ── 3. Wire scraper, engines and notifier ───────────────────────
	r, _, err := runner.FromConfig(cfg)
	if err != nil {
		slog.Error("failed to initialise runner", "error", err)
		os.Exit(2)
	}

	// ── 4. Run once; SIGINT/SIGTERM abort the current attempt ───────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := r.Run(ctx)
	slog.Info("goldrate finished",
		"state", report.State,
		"attempts", report.Attempts,
		"duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String(),
	)

	if report.State != models.StateSuccess {
		stop()
		os.Exit(1)
	}
}
