package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/goldrate/api"
	"github.com/use-agent/goldrate/cache"
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
		os.Exit(1)
	}
	if cfg.Auth.Enabled && len(cfg.Auth.APIKeys) == 0 {
		slog.Warn("auth enabled but GOLDRATE_API_KEYS is empty, API is open")
	}

	slog.Info("goldrate-server starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"city", cfg.Scraper.City,
	)

	// ── 3. Wire runner and engine chain ─────────────────────────────
	r, chain, err := runner.FromConfig(cfg)
	if err != nil {
		slog.Error("failed to initialise runner", "error", err)
		os.Exit(1)
	}

	// ── 4. Setup router ─────────────────────────────────────────────
	gate := runner.NewGate(r.Run, func(ctx context.Context) *models.QuoteResponse {
		return runner.Quote(ctx, chain, cfg.Scraper.City, cfg.Scraper.TargetURL)
	})
	deps := api.Deps{
		Gate:     gate,
		Cache:    cache.New(cfg.Cache.MaxEntries),
		CacheKey: cache.Key(cfg.Scraper.TargetURL, chain.Name()),
	}
	router := api.NewRouter(cfg, deps, time.Now())

	// ── 5. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 6. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// A run in flight holds a browser; give it time to release it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("goldrate-server stopped")
}
