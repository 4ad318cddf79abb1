package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/models"
)

// fakePage records what an attempt does to the page.
type fakePage struct {
	navErrs  map[proto.PageLifecycleEventName]error
	evalRaw  string
	evalErr  error
	events   []proto.PageLifecycleEventName
	deadline []bool
	evals    int
	closed   int
}

func (f *fakePage) NavigateUntil(ctx context.Context, targetURL string, event proto.PageLifecycleEventName) error {
	f.events = append(f.events, event)
	_, ok := ctx.Deadline()
	f.deadline = append(f.deadline, ok)
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.navErrs[event]
}

func (f *fakePage) Eval(ctx context.Context, js string, args ...any) ([]byte, error) {
	f.evals++
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return []byte(f.evalRaw), nil
}

func (f *fakePage) HTML() (string, error) { return "<html></html>", nil }

func (f *fakePage) Close() { f.closed++ }

const okResult = `{"today":{"date":"12 Mar","price":"₹6,500"},"yesterday":{"date":"11 Mar","price":"₹6,450"}}`

func newFakeScraper(page *fakePage, openErr error) *Scraper {
	s := NewScraper(config.BrowserConfig{}, config.ScraperConfig{
		City:              "Bangalore",
		TargetURL:         "https://www.goodreturns.in/gold-rates/bangalore.html",
		NavigationTimeout: time.Minute,
	})
	s.open = func(ctx context.Context) (attemptPage, error) {
		if openErr != nil {
			return nil, openErr
		}
		return page, nil
	}
	return s
}

var (
	dcl  = proto.PageLifecycleEventNameDOMContentLoaded
	load = proto.PageLifecycleEventNameLoad
)

func sameEvents(got, want []proto.PageLifecycleEventName) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFetchQuotes_Success(t *testing.T) {
	page := &fakePage{evalRaw: okResult}
	pair, err := newFakeScraper(page, nil).FetchQuotes(context.Background())
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}
	if pair.Today.Price != "₹6,500" || pair.Yesterday.Date != "11 Mar" {
		t.Errorf("pair = %+v", pair)
	}
	if !sameEvents(page.events, []proto.PageLifecycleEventName{dcl}) {
		t.Errorf("events = %v, want only DOMContentLoaded", page.events)
	}
	if !page.deadline[0] {
		t.Error("navigation should be bounded by the navigation timeout")
	}
	if page.closed != 1 {
		t.Errorf("closed = %d, want 1", page.closed)
	}
}

func TestFetchQuotes_LoadFallback(t *testing.T) {
	page := &fakePage{
		navErrs: map[proto.PageLifecycleEventName]error{dcl: errors.New("net::ERR_ABORTED")},
		evalRaw: okResult,
	}
	if _, err := newFakeScraper(page, nil).FetchQuotes(context.Background()); err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}
	if !sameEvents(page.events, []proto.PageLifecycleEventName{dcl, load}) {
		t.Errorf("events = %v, want [DOMContentLoaded load]", page.events)
	}
}

func TestFetchQuotes_NoFallbackWhenContextDone(t *testing.T) {
	page := &fakePage{evalRaw: okResult}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newFakeScraper(page, nil).FetchQuotes(ctx)

	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeTimeout {
		t.Fatalf("err = %v, want %s", err, models.ErrCodeTimeout)
	}
	if len(page.events) != 1 {
		t.Errorf("events = %v, want a single navigation", page.events)
	}
	if page.evals != 0 {
		t.Error("script must not run after a failed navigation")
	}
}

func TestFetchQuotes_ClosesOnEveryPath(t *testing.T) {
	navFail := map[proto.PageLifecycleEventName]error{
		dcl:  errors.New("net::ERR_TIMED_OUT"),
		load: errors.New("net::ERR_TIMED_OUT"),
	}
	tests := []struct {
		name     string
		page     *fakePage
		wantCode string
		wantXE   string
	}{
		{"navigation fails twice", &fakePage{navErrs: navFail}, models.ErrCodeNavigation, ""},
		{"eval throws", &fakePage{evalErr: errors.New("ReferenceError")}, models.ErrCodeEvaluation, ""},
		{"malformed result", &fakePage{evalRaw: `{"today":`}, models.ErrCodeEvaluation, ""},
		{"structural failure", &fakePage{evalRaw: `{"error":"Section not found"}`}, "", models.ReasonSectionNotFound},
		{"success", &fakePage{evalRaw: okResult}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFakeScraper(tt.page, nil).FetchQuotes(context.Background())

			if tt.page.closed != 1 {
				t.Errorf("closed = %d, want 1", tt.page.closed)
			}
			switch {
			case tt.wantCode != "":
				var se *models.ScrapeError
				if !errors.As(err, &se) || se.Code != tt.wantCode {
					t.Errorf("err = %v, want code %s", err, tt.wantCode)
				}
			case tt.wantXE != "":
				var xe *models.ExtractError
				if !errors.As(err, &xe) || xe.Reason != tt.wantXE {
					t.Errorf("err = %v, want reason %q", err, tt.wantXE)
				}
			default:
				if err != nil {
					t.Errorf("err = %v", err)
				}
			}
		})
	}
}

func TestFetchQuotes_OpenFailure(t *testing.T) {
	launchErr := models.NewScrapeError(models.ErrCodeBrowserLaunch, "failed to launch browser", errors.New("exec: not found"))
	_, err := newFakeScraper(nil, launchErr).FetchQuotes(context.Background())
	if !errors.Is(err, launchErr) {
		t.Fatalf("err = %v, want launch error", err)
	}
}
