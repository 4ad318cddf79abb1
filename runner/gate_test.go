package runner

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/goldrate/models"
)

func TestGate_QuoteWaitsForRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetched := make(chan struct{})

	g := NewGate(func(ctx context.Context) *models.RunReport {
		close(started)
		<-release
		return &models.RunReport{State: models.StateSuccess}
	}, func(ctx context.Context) *models.QuoteResponse {
		close(fetched)
		return &models.QuoteResponse{Success: true}
	})

	go g.Trigger(context.Background())
	<-started

	done := make(chan *models.QuoteResponse)
	go func() { done <- g.Quote(context.Background()) }()

	select {
	case <-fetched:
		t.Fatal("quote fetched while a run held the browser")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if resp := <-done; !resp.Success {
		t.Errorf("quote = %+v, want success", resp)
	}
	if g.Last() == nil || g.Last().State != models.StateSuccess {
		t.Errorf("last = %+v", g.Last())
	}
}

func TestGate_QuoteGivesUpWhenCallerLeaves(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	g := NewGate(func(ctx context.Context) *models.RunReport {
		close(started)
		<-release
		return &models.RunReport{State: models.StateSuccess}
	}, func(ctx context.Context) *models.QuoteResponse {
		return &models.QuoteResponse{Success: true}
	})
	go g.Trigger(context.Background())
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resp := g.Quote(ctx)
	if resp.Success || resp.Error == nil || resp.Error.Code != models.ErrCodeTimeout {
		t.Errorf("quote = %+v, want %s", resp, models.ErrCodeTimeout)
	}
}

func TestGate_TriggerRefusedWhileBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	g := NewGate(func(ctx context.Context) *models.RunReport {
		close(started)
		<-release
		return &models.RunReport{State: models.StateExhausted}
	}, nil)

	finished := make(chan struct{})
	go func() {
		g.Trigger(context.Background())
		close(finished)
	}()
	<-started

	if _, ok := g.Trigger(context.Background()); ok {
		t.Error("second run admitted while the first was in flight")
	}
	close(release)
	<-finished
	if g.Last().State != models.StateExhausted {
		t.Errorf("last state = %s", g.Last().State)
	}
}
