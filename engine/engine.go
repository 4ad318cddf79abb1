package engine

import (
	"context"

	"github.com/use-agent/goldrate/models"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "browser", "http").
	Name() string

	// Fetch reads today's and yesterday's quotes. Structural failures are
	// returned as *models.ExtractError, everything else is a fault.
	Fetch(ctx context.Context) (*FetchResult, error)
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	Pair       *models.QuotePair
	EngineName string
}
