package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Chain tries its engines in order within a single attempt and returns the
// first success. Engines run one after another, never in parallel, so at
// most one browser is alive at a time.
type Chain struct {
	engines []Engine
}

// NewChain creates a Chain. With a single engine it behaves exactly like
// that engine.
func NewChain(engines ...Engine) *Chain {
	return &Chain{engines: engines}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.engines))
	for i, e := range c.engines {
		names[i] = e.Name()
	}
	return strings.Join(names, ",")
}

// Fetch returns the first successful result. If every engine fails, the
// last engine's error is returned unchanged so callers can still tell a
// structural failure from a fault.
func (c *Chain) Fetch(ctx context.Context) (*FetchResult, error) {
	if len(c.engines) == 0 {
		return nil, errors.New("engine chain: no engines configured")
	}

	var lastErr error
	for i, eng := range c.engines {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		result, err := eng.Fetch(ctx)
		if err == nil {
			if i > 0 {
				slog.Info("fallback engine succeeded", "engine", eng.Name())
			}
			return result, nil
		}
		lastErr = err
		if i < len(c.engines)-1 {
			slog.Warn("engine failed, falling back",
				"engine", eng.Name(),
				"next", c.engines[i+1].Name(),
				"error", err,
			)
		}
	}
	return nil, lastErr
}
