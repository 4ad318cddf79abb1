package scraper

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/models"
)

// Scraper reads the quote table with a real browser. It holds no browser
// between calls: every FetchQuotes launches its own Session and closes it
// before returning.
type Scraper struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig

	// open prepares the page for one attempt; replaced in tests.
	open func(ctx context.Context) (attemptPage, error)
}

// NewScraper creates a Scraper. Nothing is launched until FetchQuotes.
func NewScraper(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) *Scraper {
	s := &Scraper{browserCfg: browserCfg, scraperCfg: scraperCfg}
	s.open = s.openPage
	return s
}

// Session is one browser process scoped to a single attempt.
type Session struct {
	launcher  *launcher.Launcher
	browser   *rod.Browser
	closeOnce sync.Once
}

// Launch starts a headless browser configured for restricted environments
// and connects to it. The caller must Close the returned Session.
func (s *Scraper) Launch(ctx context.Context) (*Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	// ── Restricted-environment flags ─────────────────────────────────
	l.Set(flags.Flag("disable-setuid-sandbox"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-gpu"))

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		releaseLauncher(l)
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		releaseLauncher(l)
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserLaunch,
			"failed to connect to browser",
			err,
		)
	}

	return &Session{launcher: l, browser: browser}, nil
}

// Close disconnects from the browser, kills its process and removes the
// temporary profile. It is safe to call more than once.
func (ss *Session) Close() {
	ss.closeOnce.Do(func() {
		if err := ss.browser.Close(); err != nil {
			slog.Debug("browser close returned error", "error", err)
		}
		releaseLauncher(ss.launcher)
		slog.Debug("browser closed")
	})
}

// cleanupWait bounds how long releaseLauncher waits for the process to exit.
var cleanupWait = 10 * time.Second

// releaseLauncher kills the browser process and removes its profile dir.
// Cleanup waits for a process exit that never comes when the binary failed
// to start, so the wait is bounded and the dir is removed directly after it.
func releaseLauncher(l *launcher.Launcher) {
	l.Kill()

	done := make(chan struct{})
	go func() {
		l.Cleanup()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(cleanupWait):
		slog.Debug("browser did not exit, removing profile anyway")
		_ = os.RemoveAll(l.Get(flags.UserDataDir))
	}
}
