// Package runner owns the attempt loop: fetch the quotes, compare them,
// notify, and retry transient failures a bounded number of times.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/engine"
	"github.com/use-agent/goldrate/models"
	"github.com/use-agent/goldrate/quote"
)

// Notifier receives every message the run produces. Implementations must
// not fail the run; see notify.Notifier.
type Notifier interface {
	Send(ctx context.Context, text string)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner executes runs. A Runner carries no state between runs and may be
// reused, but Run itself is strictly sequential.
type Runner struct {
	engine   engine.Engine
	notifier Notifier
	retry    config.RetryConfig
	city     string
	sleep    SleepFunc
	now      func() time.Time
}

// New creates a Runner from explicit configuration.
func New(cfg *config.Config, eng engine.Engine, notifier Notifier) *Runner {
	return &Runner{
		engine:   eng,
		notifier: notifier,
		retry:    cfg.Retry,
		city:     cfg.Scraper.City,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

// WithSleep replaces the backoff wait; used by tests.
func (r *Runner) WithSleep(fn SleepFunc) *Runner {
	r.sleep = fn
	return r
}

// Run drives Idle → Attempting → {Success, Retrying → Attempting, Exhausted}.
//
// Structural failures notify and move straight to the next attempt. Faults
// wait attempt × BackoffUnit before the next attempt. After the last
// failed attempt exactly one exhaustion notification is sent.
func (r *Runner) Run(ctx context.Context) *models.RunReport {
	maxAttempts := r.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	report := &models.RunReport{
		State:       models.StateIdle,
		MaxAttempts: maxAttempts,
		StartedAt:   r.now(),
	}
	defer func() { report.FinishedAt = r.now() }()

	var lastErr error

attempts:
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r.transition(report, models.StateAttempting, attempt)
		report.Attempts = attempt
		slog.Info("attempt starting",
			"attempt", attempt,
			"max", maxAttempts,
			"engine", r.engine.Name(),
		)

		outcome := r.attempt(ctx, attempt)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Succeeded() {
			report.Pair = outcome.Pair
			report.Change = outcome.Change
			report.Message = quote.FormatUpdate(r.city, *outcome.Pair, *outcome.Change)

			r.notifier.Send(ctx, report.Message)
			for _, line := range quote.SummaryLines(*outcome.Pair, *outcome.Change) {
				slog.Info("price summary", "line", line)
			}
			r.transition(report, models.StateSuccess, attempt)
			return report
		}

		lastErr = outcome.Err
		report.LastError = lastErr.Error()

		var xe *models.ExtractError
		if errors.As(lastErr, &xe) {
			slog.Warn("could not find gold price data on the page",
				"attempt", attempt,
				"reason", xe.Reason,
			)
			r.notifier.Send(ctx, quote.FormatError(xe.Reason))
		} else {
			slog.Error("attempt failed", "attempt", attempt, "max", maxAttempts, "error", lastErr)
		}

		if attempt == maxAttempts {
			break
		}
		r.transition(report, models.StateRetrying, attempt)

		if xe != nil {
			continue
		}
		wait := time.Duration(attempt) * r.retry.BackoffUnit
		slog.Info("waiting before retry", "attempt", attempt, "wait", wait)
		if err := r.sleep(ctx, wait); err != nil {
			slog.Warn("backoff interrupted, giving up", "error", err)
			break attempts
		}
	}

	r.transition(report, models.StateExhausted, report.Attempts)
	r.notifier.Send(ctx, quote.FormatExhausted(report.Attempts, lastErr))
	slog.Error("all attempts failed", "attempts", report.Attempts, "lastError", report.LastError)
	return report
}

// attempt performs one fetch-and-compare. The engine owns the browser and
// releases it before returning, whatever the outcome.
func (r *Runner) attempt(ctx context.Context, n int) models.AttemptOutcome {
	outcome := models.AttemptOutcome{Attempt: n}

	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	res, err := r.engine.Fetch(ctx)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if res == nil || res.Pair == nil {
		outcome.Err = &models.ExtractError{Reason: models.ReasonNoData}
		return outcome
	}
	outcome.Pair = res.Pair

	change, err := quote.Compare(res.Pair)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Change = change
	return outcome
}

func (r *Runner) transition(report *models.RunReport, to models.RunState, attempt int) {
	slog.Debug("run state", "from", report.State, "to", to, "attempt", attempt)
	report.State = to
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
