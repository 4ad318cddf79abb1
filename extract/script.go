// Package extract locates the gold rate table and reads today's and
// yesterday's rows from it. The same lookup runs in two places: inside the
// browser page (Script) and over static HTML (FromHTML).
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/use-agent/goldrate/models"
)

// SectionSelector matches the section wrapping the daily price table.
const SectionSelector = `section[class*="gold_table_sec5"]`

// Script is evaluated in the page with the fallback heading text as its only
// argument. It returns either {error} or {today, yesterday}.
const Script = `(heading) => {
	let section = document.querySelector('section[class*="gold_table_sec5"]');

	if (!section) {
		const target = Array.from(document.querySelectorAll('h2'))
			.find((h) => (h.textContent || '').includes(heading));
		if (target) {
			section = target.closest('section');
		}
	}
	if (!section) {
		return { error: 'Section not found' };
	}

	const tbody = section.querySelector('tbody');
	if (!tbody) {
		return { error: 'Tbody not found' };
	}

	const rows = tbody.querySelectorAll('tr');
	if (rows.length < 2) {
		return { error: 'Not enough rows: ' + rows.length };
	}

	const read = (row, label) => {
		if (!row) {
			return { error: label + ' row not found' };
		}
		const cells = row.querySelectorAll('td');
		if (cells.length < 2) {
			return { error: 'Not enough cells in ' + label.toLowerCase() + ' row' };
		}
		const date = (cells[0].textContent || '').trim();
		const price = ((cells[1].textContent || '').trim().split('\n')[0] || '').trim();
		return { quote: { date: date, price: price } };
	};

	const today = read(rows[0], 'Today');
	if (today.error) {
		return { error: today.error };
	}
	const yesterday = read(rows[1], 'Yesterday');
	if (yesterday.error) {
		return { error: yesterday.error };
	}
	return { today: today.quote, yesterday: yesterday.quote };
}`

// scriptResult mirrors the object returned by Script.
type scriptResult struct {
	Error     string        `json:"error"`
	Today     *models.Quote `json:"today"`
	Yesterday *models.Quote `json:"yesterday"`
}

// Decode converts the JSON value returned by Script into a QuotePair or an
// ExtractError. Malformed JSON is a fault, not a structural failure.
func Decode(raw []byte) (*models.QuotePair, error) {
	var res scriptResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("extract: decode script result: %w", err)
	}
	if res.Error != "" {
		return nil, &models.ExtractError{Reason: res.Error}
	}
	if res.Today == nil || res.Yesterday == nil {
		return nil, &models.ExtractError{Reason: models.ReasonNoData}
	}
	return &models.QuotePair{Today: *res.Today, Yesterday: *res.Yesterday}, nil
}
