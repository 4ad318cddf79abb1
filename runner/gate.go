package runner

import (
	"context"
	"sync"

	"github.com/use-agent/goldrate/models"
	"golang.org/x/sync/singleflight"
)

// RunFunc executes one full run with notifications.
type RunFunc func(ctx context.Context) *models.RunReport

// QuoteFunc performs one fetch-and-compare without notifying.
type QuoteFunc func(ctx context.Context) *models.QuoteResponse

// Gate admits one browser-backed operation at a time across runs and quote
// fetches, and remembers the most recent run report. Concurrent quote
// callers share a single in-flight fetch.
type Gate struct {
	run   RunFunc
	quote QuoteFunc

	slot  chan struct{}
	group singleflight.Group

	mu   sync.RWMutex
	last *models.RunReport
}

// NewGate wraps the run and quote operations.
func NewGate(run RunFunc, quote QuoteFunc) *Gate {
	return &Gate{run: run, quote: quote, slot: make(chan struct{}, 1)}
}

// Trigger starts a run unless the browser slot is taken. The second return
// value is false when the run was refused.
func (g *Gate) Trigger(ctx context.Context) (*models.RunReport, bool) {
	select {
	case g.slot <- struct{}{}:
	default:
		return nil, false
	}
	defer func() { <-g.slot }()

	report := g.run(ctx)

	g.mu.Lock()
	g.last = report
	g.mu.Unlock()
	return report, true
}

// Quote fetches the current quotes, waiting for the browser slot. Callers
// arriving while a fetch is in flight receive a copy of its result.
func (g *Gate) Quote(ctx context.Context) *models.QuoteResponse {
	ch := g.group.DoChan("quote", func() (any, error) {
		select {
		case g.slot <- struct{}{}:
		case <-ctx.Done():
			return &models.QuoteResponse{Error: ErrorDetail(ctx.Err())}, nil
		}
		defer func() { <-g.slot }()

		// Shared by every waiting caller, so one caller leaving must not
		// abort it. The engine's own timeouts still bound it.
		return g.quote(context.WithoutCancel(ctx)), nil
	})

	select {
	case res := <-ch:
		resp := *res.Val.(*models.QuoteResponse)
		return &resp
	case <-ctx.Done():
		return &models.QuoteResponse{Error: ErrorDetail(ctx.Err())}
	}
}

// Last returns the most recent finished run, or nil.
func (g *Gate) Last() *models.RunReport {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}
