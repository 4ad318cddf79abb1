package engine

import (
	"context"
	"fmt"

	"github.com/use-agent/goldrate/models"
)

// RodFetchFunc is the callback type that wraps scraper.FetchQuotes.
// It is injected from main to keep engine/ free of browser imports.
type RodFetchFunc func(ctx context.Context) (*models.QuotePair, error)

// RodEngine is the browser-based engine.
type RodEngine struct {
	fetchFunc RodFetchFunc
}

// NewRodEngine creates a RodEngine around the injected browser callback.
func NewRodEngine(fetchFunc RodFetchFunc) *RodEngine {
	return &RodEngine{fetchFunc: fetchFunc}
}

func (e *RodEngine) Name() string { return "browser" }

func (e *RodEngine) Fetch(ctx context.Context) (*FetchResult, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("%s: fetchFunc not configured", e.Name())
	}
	pair, err := e.fetchFunc(ctx)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Pair: pair, EngineName: e.Name()}, nil
}
