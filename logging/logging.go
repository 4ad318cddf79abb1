package logging

import (
	"io"
	"log/slog"

	"github.com/use-agent/goldrate/config"
)

// Init configures the default slog logger from the LogConfig.
func Init(cfg config.LogConfig, w io.Writer) {
	slog.SetDefault(slog.New(NewHandler(cfg, w)))
}

// NewHandler builds a JSON or text handler at the configured level.
func NewHandler(cfg config.LogConfig, w io.Writer) slog.Handler {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
