package quote

import (
	"errors"
	"strings"
	"testing"

	"github.com/use-agent/goldrate/models"
)

func TestFormatUpdate_Gain(t *testing.T) {
	pair := models.QuotePair{
		Today:     models.Quote{Date: "12 Mar", Price: "₹6,500"},
		Yesterday: models.Quote{Date: "11 Mar", Price: "₹6,450"},
	}
	c, err := Compare(&pair)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if c.Delta != 50 {
		t.Fatalf("delta = %d, want 50", c.Delta)
	}

	msg := FormatUpdate("Bangalore", pair, *c)

	for _, want := range []string{
		"*Gold Price Update - Bangalore*",
		"📅 *Today* (12 Mar)\n💰 ₹6,500",
		"📅 *Yesterday* (11 Mar)\n💰 ₹6,450",
		"📈 *Change:* ₹50 (Gain)",
		"_Source: goodreturns.in (publicly available data)_",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	if strings.HasSuffix(msg, "\n") || strings.HasPrefix(msg, "\n") {
		t.Errorf("message should be trimmed: %q", msg)
	}
}

func TestChangeText(t *testing.T) {
	tests := []struct {
		change    models.Change
		wantText  string
		wantEmoji string
	}{
		{Classify(6500, 6450), "₹50 (Gain)", "📈"},
		{Classify(6400, 6450), "₹50 (Loss)", "📉"},
		{Classify(6450, 6450), "No change", "➡️"},
	}
	for _, tt := range tests {
		if got := ChangeText(tt.change); got != tt.wantText {
			t.Errorf("ChangeText(%+v) = %q, want %q", tt.change, got, tt.wantText)
		}
		if got := Emoji(tt.change.Direction); got != tt.wantEmoji {
			t.Errorf("Emoji(%s) = %q, want %q", tt.change.Direction, got, tt.wantEmoji)
		}
	}
}

func TestFormatError(t *testing.T) {
	if got := FormatError("Section not found"); got != "*Gold Price Scraper Error*\n\nSection not found" {
		t.Errorf("unexpected: %q", got)
	}
	if got := FormatError(""); !strings.HasSuffix(got, models.ReasonNoData) {
		t.Errorf("empty reason should fall back: %q", got)
	}
}

func TestFormatExhausted(t *testing.T) {
	got := FormatExhausted(3, errors.New("navigation timeout"))
	want := "*Gold Price Scraper Error*\n\nFailed after 3 attempts.\n\nLast error: navigation timeout"
	if got != want {
		t.Errorf("FormatExhausted = %q, want %q", got, want)
	}
}

func TestSummaryLines_NoChange(t *testing.T) {
	pair := models.QuotePair{
		Today:     models.Quote{Date: "12 Mar", Price: "₹6,450"},
		Yesterday: models.Quote{Date: "11 Mar", Price: "₹6,450"},
	}
	lines := SummaryLines(pair, Classify(6450, 6450))
	if lines[3] != "Gain/Loss - ₹0 (No change)" {
		t.Errorf("unexpected gain/loss line: %q", lines[3])
	}
}

// unpairedUnderscores counts '_' not preceded by a backslash.
func unpairedUnderscores(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && (i == 0 || s[i-1] != '\\') {
			n++
		}
	}
	return n
}

func TestMarkdownEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Section not found", "Section not found"},
		{"NAVIGATION_FAILED: boom", `NAVIGATION\_FAILED: boom`},
		{"a*b`c[d]", "a\\*b\\`c\\[d]"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := markdownEscape(tt.in); got != tt.want {
			t.Errorf("markdownEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExhausted_EscapesScrapeErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"navigation",
			models.NewScrapeError(models.ErrCodeNavigation, "navigation to target URL failed", errors.New("net::ERR_TIMED_OUT")),
			`Last error: NAVIGATION\_FAILED: navigation to target URL failed: net::ERR\_TIMED\_OUT`,
		},
		{
			"launch",
			models.NewScrapeError(models.ErrCodeBrowserLaunch, "failed to launch browser", errors.New("exec: not found")),
			`Last error: BROWSER\_LAUNCH: failed to launch browser: exec: not found`,
		},
		{
			"timeout",
			models.NewScrapeError(models.ErrCodeTimeout, "request canceled", nil),
			`Last error: SCRAPE\_TIMEOUT: request canceled`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatExhausted(3, tt.err)
			if !strings.HasSuffix(got, tt.want) {
				t.Errorf("FormatExhausted = %q, want suffix %q", got, tt.want)
			}
			if n := unpairedUnderscores(got); n != 0 {
				t.Errorf("%d unescaped underscores in %q", n, got)
			}
		})
	}
}

func TestFormatError_EscapesReason(t *testing.T) {
	got := FormatError(`Invalid price for today: "*_*"`)
	want := "*Gold Price Scraper Error*\n\n" + `Invalid price for today: "\*\_\*"`
	if got != want {
		t.Errorf("FormatError = %q, want %q", got, want)
	}
}

func TestFormatUpdate_EscapesScrapedLabels(t *testing.T) {
	pair := models.QuotePair{
		Today:     models.Quote{Date: "12_Mar", Price: "₹6,500*"},
		Yesterday: models.Quote{Date: "11 Mar", Price: "₹6,450"},
	}
	msg := FormatUpdate("Bangalore", pair, Classify(6500, 6450))
	if !strings.Contains(msg, `(12\_Mar)`) || !strings.Contains(msg, `₹6,500\*`) {
		t.Errorf("labels not escaped:\n%s", msg)
	}
}
