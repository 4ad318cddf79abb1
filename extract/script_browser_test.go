package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/use-agent/goldrate/models"
)

// runScript evaluates Script in a real page loaded with doc and decodes the
// result exactly as the scraper does.
func runScript(t *testing.T, page *rod.Page, doc string) (*models.QuotePair, error) {
	t.Helper()
	page.MustSetDocumentContent(doc)
	res, err := page.Eval(Script, heading)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	return Decode(raw)
}

// TestScript_MatchesFromHTML runs the in-page lookup in a headless browser
// over the same pages as the static extractor and expects identical results.
func TestScript_MatchesFromHTML(t *testing.T) {
	if testing.Short() {
		t.Skip("browser test skipped in short mode")
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chrome/Chromium found")
	}

	l := launcher.New().Bin(bin).Headless(true).NoSandbox(true)
	defer l.Cleanup()
	defer l.Kill()
	u, err := l.Launch()
	if err != nil {
		t.Skipf("browser failed to launch: %v", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer browser.MustClose()

	page := browser.MustPage("")

	for name, doc := range map[string]string{"class match": classPage, "heading fallback": headingPage} {
		t.Run(name, func(t *testing.T) {
			got, err := runScript(t, page, doc)
			if err != nil {
				t.Fatalf("script: %v", err)
			}
			want, err := FromHTML(strings.NewReader(doc), heading)
			if err != nil {
				t.Fatalf("FromHTML: %v", err)
			}
			if *got != *want {
				t.Errorf("script %+v, FromHTML %+v", *got, *want)
			}
		})
	}

	for _, tt := range structuralCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runScript(t, page, tt.page)
			var xe *models.ExtractError
			if !errors.As(err, &xe) {
				t.Fatalf("expected ExtractError, got %T (%v)", err, err)
			}
			if xe.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", xe.Reason, tt.reason)
			}
		})
	}
}
