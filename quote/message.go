package quote

import (
	"fmt"
	"strings"

	"github.com/use-agent/goldrate/models"
)

const (
	errorTitle = "*Gold Price Scraper Error*"
	footer     = "_Source: goodreturns.in (publicly available data)_"
)

// Emoji returns the indicator for a direction.
func Emoji(d models.Direction) string {
	switch d {
	case models.DirectionGain:
		return "📈"
	case models.DirectionLoss:
		return "📉"
	default:
		return "➡️"
	}
}

// ChangeText renders the change line, e.g. "₹50 (Gain)".
func ChangeText(c models.Change) string {
	switch c.Direction {
	case models.DirectionGain:
		return fmt.Sprintf("₹%d (Gain)", c.Magnitude())
	case models.DirectionLoss:
		return fmt.Sprintf("₹%d (Loss)", c.Magnitude())
	default:
		return "No change"
	}
}

// markdownEscaper escapes the characters Telegram's legacy Markdown treats
// as entity delimiters.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// markdownEscape makes free text safe to embed outside an entity in a
// Markdown message. Error codes such as NAVIGATION_FAILED would otherwise
// open an italic entity that never closes.
func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}

// FormatUpdate renders the Telegram Markdown message for a successful run.
func FormatUpdate(city string, pair models.QuotePair, c models.Change) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 *Gold Price Update - %s*\n\n", city)
	fmt.Fprintf(&b, "📅 *Today* (%s)\n💰 %s\n\n", markdownEscape(cleanLabel(pair.Today.Date)), markdownEscape(pair.Today.Price))
	fmt.Fprintf(&b, "📅 *Yesterday* (%s)\n💰 %s\n\n", markdownEscape(cleanLabel(pair.Yesterday.Date)), markdownEscape(pair.Yesterday.Price))
	fmt.Fprintf(&b, "%s *Change:* %s\n\n", Emoji(c.Direction), ChangeText(c))
	b.WriteString(footer)
	return b.String()
}

// FormatError renders the per-attempt failure notification.
func FormatError(reason string) string {
	if reason == "" {
		reason = models.ReasonNoData
	}
	return errorTitle + "\n\n" + markdownEscape(reason)
}

// FormatExhausted renders the single notification sent after the last attempt.
func FormatExhausted(attempts int, lastErr error) string {
	msg := "unknown error"
	if lastErr != nil {
		msg = markdownEscape(lastErr.Error())
	}
	return fmt.Sprintf("%s\n\nFailed after %d attempts.\n\nLast error: %s", errorTitle, attempts, msg)
}

// SummaryLines is the console report printed after a successful run.
func SummaryLines(pair models.QuotePair, c models.Change) []string {
	gainLoss := ChangeText(c)
	if c.Direction == models.DirectionNoChange {
		gainLoss = "₹0 (No change)"
	}
	return []string{
		"========== Gold Price (24K - 1 gram) ==========",
		fmt.Sprintf("Today's price - %s (%s)", pair.Today.Price, pair.Today.Date),
		fmt.Sprintf("Yesterday's price - %s (%s)", pair.Yesterday.Price, pair.Yesterday.Date),
		"Gain/Loss - " + gainLoss,
		"==============================================",
	}
}
