package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/goldrate/diag"
	"github.com/use-agent/goldrate/extract"
	"github.com/use-agent/goldrate/models"
	"github.com/ysmood/gson"
)

// attemptPage is the browser surface a single attempt drives. Close releases
// the page, its hijack router and the browser process behind it.
type attemptPage interface {
	NavigateUntil(ctx context.Context, targetURL string, event proto.PageLifecycleEventName) error
	Eval(ctx context.Context, js string, args ...any) ([]byte, error)
	HTML() (string, error)
	Close()
}

// FetchQuotes runs one browser attempt against the target page.
//
// Lifecycle:
//
//  1. Open             – fresh browser, identity, stealth and hijack
//  2. DEFER: close     – browser is released on every return path
//  3. Navigate         – DOMContentLoaded first, full load on failure
//  4. Settle           – fixed pause for client-side rendering
//  5. Evaluate         – table lookup inside the page
func (s *Scraper) FetchQuotes(ctx context.Context) (*models.QuotePair, error) {
	// ── 1. Open ───────────────────────────────────────────────────────
	page, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	// ── 2. CRITICAL DEFER: no browser outlives its attempt ───────────
	defer page.Close()

	// ── 3. Navigate ───────────────────────────────────────────────────
	slog.Info("fetching gold prices", "url", s.scraperCfg.TargetURL)
	if err := s.navigate(ctx, page); err != nil {
		return nil, err
	}

	// ── 4. Settle ─────────────────────────────────────────────────────
	slog.Debug("waiting for page to settle", "delay", s.scraperCfg.SettleDelay)
	if err := sleepCtx(ctx, s.scraperCfg.SettleDelay); err != nil {
		return nil, categorizeError(err, "interrupted while waiting for page to settle")
	}

	// ── 5. Evaluate ───────────────────────────────────────────────────
	raw, err := page.Eval(ctx, extract.Script, s.scraperCfg.SectionHeading())
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeEvaluation, "table lookup script failed", err)
	}

	pair, err := extract.Decode(raw)
	if err != nil {
		var xe *models.ExtractError
		if errors.As(err, &xe) {
			logSnapshot(ctx, page, s.scraperCfg.TargetURL)
			return nil, err
		}
		return nil, models.NewScrapeError(models.ErrCodeEvaluation, "unexpected script result", err)
	}
	return pair, nil
}

// navigate loads the target with the lenient DOMContentLoaded signal and, if
// that fails, once more waiting for the full load event. A done parent
// context is never retried.
func (s *Scraper) navigate(ctx context.Context, page attemptPage) error {
	err := s.navigateUntil(ctx, page, proto.PageLifecycleEventNameDOMContentLoaded)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return categorizeError(err, "navigation to target URL failed")
	}

	slog.Warn("DOMContentLoaded navigation failed, trying with load", "error", err)
	if err := s.navigateUntil(ctx, page, proto.PageLifecycleEventNameLoad); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	return nil
}

// navigateUntil bounds one navigation by NavigationTimeout.
func (s *Scraper) navigateUntil(ctx context.Context, page attemptPage, event proto.PageLifecycleEventName) error {
	navCtx, cancel := context.WithTimeout(ctx, s.scraperCfg.NavigationTimeout)
	defer cancel()
	return page.NavigateUntil(navCtx, s.scraperCfg.TargetURL, event)
}

// rodPage is the attemptPage backed by a real browser session.
type rodPage struct {
	session *Session
	page    *rod.Page
	router  *rod.HijackRouter
}

// openPage launches a browser and prepares a page for navigation. Header
// overrides, stealth JS and resource blocking only apply to navigations
// that start after them, so all of it happens here.
func (s *Scraper) openPage(ctx context.Context) (attemptPage, error) {
	session, err := s.Launch(ctx)
	if err != nil {
		return nil, err
	}

	page, err := session.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		session.Close()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to open page",
			err,
		)
	}

	// ── Identity ──────────────────────────────────────────────────────
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.browserCfg.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		slog.Warn("user agent override failed, proceeding with default", "error", err)
	}

	setExtraHeaders(s.scraperCfg.TargetURL, func(req proto.NetworkSetExtraHTTPHeaders) error {
		return req.Call(page)
	})

	if s.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── Hijack router ─────────────────────────────────────────────────
	router := setupHijack(page, s.browserCfg.BlockedResourceTypes, s.browserCfg.BlockAds)

	return &rodPage{session: session, page: page, router: router}, nil
}

func (p *rodPage) NavigateUntil(ctx context.Context, targetURL string, event proto.PageLifecycleEventName) error {
	page := p.page.Context(ctx)

	// The waiter must be registered before Navigate or the event is missed.
	wait := page.WaitNavigation(event)
	if err := page.Navigate(targetURL); err != nil {
		return err
	}
	wait()
	return ctx.Err()
}

func (p *rodPage) Eval(ctx context.Context, js string, args ...any) ([]byte, error) {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, err
	}
	return res.Value.MarshalJSON()
}

func (p *rodPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *rodPage) Close() {
	if p.router != nil {
		_ = p.router.Stop()
	}
	p.session.Close()
}

// logSnapshot records what the page looked like when the table lookup
// failed. Only runs at debug level since it pulls the whole document.
func logSnapshot(ctx context.Context, page attemptPage, sourceURL string) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	rawHTML, err := page.HTML()
	if err != nil {
		slog.Debug("snapshot: failed to read page HTML", "error", err)
		return
	}
	snap := diag.TakeSnapshot(rawHTML, sourceURL)
	slog.Debug("page snapshot after failed lookup",
		"title", snap.Title,
		"excerpt", snap.Excerpt,
		"table", snap.TableMarkdown,
		"htmlBytes", snap.HTMLBytes,
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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

// setExtraHeaders sends Accept-Language and a search-engine Referer for
// targetURL through call. A failure is logged and the attempt proceeds.
func setExtraHeaders(targetURL string, call func(proto.NetworkSetExtraHTTPHeaders) error) {
	headers := map[string]string{"Accept-Language": "en-US,en;q=0.9"}
	if u, err := url.Parse(targetURL); err == nil {
		headers["Referer"] = "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())
	}
	if err := call(proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}); err != nil {
		slog.Debug("extra headers override failed, proceeding without", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ScrapeErrors.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
