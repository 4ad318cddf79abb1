// Package quote turns scraped price labels into numbers, compares two days,
// and renders the notification text.
package quote

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/use-agent/goldrate/models"
)

// ErrInvalidPrice is returned when a price label carries no digits.
var ErrInvalidPrice = errors.New("invalid price")

// NormalizePrice keeps only the ASCII digits of a price label. Currency
// symbols, separators, whitespace and mis-decoded bytes are all dropped.
func NormalizePrice(label string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, label)
}

// ParsePrice converts a label such as "₹6,500" to 6500.
func ParsePrice(label string) (int64, error) {
	digits := NormalizePrice(label)
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, label)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, label, err)
	}
	return n, nil
}

// Compare parses both quotes and classifies the change. A label without
// digits becomes a structural failure so the run retries instead of
// reporting a meaningless delta.
func Compare(pair *models.QuotePair) (*models.Change, error) {
	if pair == nil {
		return nil, &models.ExtractError{Reason: models.ReasonNoData}
	}
	today, err := ParsePrice(pair.Today.Price)
	if err != nil {
		return nil, models.NewExtractError("Invalid price for today: %q", pair.Today.Price)
	}
	yesterday, err := ParsePrice(pair.Yesterday.Price)
	if err != nil {
		return nil, models.NewExtractError("Invalid price for yesterday: %q", pair.Yesterday.Price)
	}
	c := Classify(today, yesterday)
	return &c, nil
}

// Classify computes delta = today - yesterday and its direction.
func Classify(today, yesterday int64) models.Change {
	c := models.Change{
		Today:     today,
		Yesterday: yesterday,
		Delta:     today - yesterday,
		Direction: models.DirectionNoChange,
	}
	switch {
	case c.Delta > 0:
		c.Direction = models.DirectionGain
	case c.Delta < 0:
		c.Direction = models.DirectionLoss
	}
	return c
}

// cleanLabel collapses internal whitespace runs in a scraped label.
func cleanLabel(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
