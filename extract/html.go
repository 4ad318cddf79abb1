package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/goldrate/models"
)

var sectionMatcher = cascadia.MustCompile(SectionSelector)

// FromHTML runs the table lookup over a static document. The HTML parser
// inserts tbody the same way a browser does, so results match Script.
func FromHTML(r io.Reader, heading string) (*models.QuotePair, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("extract: parse html: %w", err)
	}
	return FromDocument(doc, heading)
}

// FromDocument is FromHTML over an already parsed document.
func FromDocument(doc *goquery.Document, heading string) (*models.QuotePair, error) {
	section := FindSection(doc, heading)
	if section.Length() == 0 {
		return nil, &models.ExtractError{Reason: models.ReasonSectionNotFound}
	}

	tbody := section.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, &models.ExtractError{Reason: models.ReasonTbodyNotFound}
	}

	rows := tbody.Find("tr")
	if rows.Length() < 2 {
		return nil, models.NewExtractError("Not enough rows: %d", rows.Length())
	}

	today, err := readRow(rows.Eq(0), models.ReasonTodayRowMissing, models.ReasonTodayCells)
	if err != nil {
		return nil, err
	}
	yesterday, err := readRow(rows.Eq(1), models.ReasonYesterdayMissing, models.ReasonYesterdayCells)
	if err != nil {
		return nil, err
	}
	return &models.QuotePair{Today: today, Yesterday: yesterday}, nil
}

// FindSection returns the price table section, or an empty selection.
func FindSection(doc *goquery.Document, heading string) *goquery.Selection {
	section := doc.FindMatcher(sectionMatcher).First()
	if section.Length() > 0 {
		return section
	}
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if heading != "" && strings.Contains(h.Text(), heading) {
			section = h.Closest("section")
			return false
		}
		return true
	})
	return section
}

func readRow(row *goquery.Selection, missing, fewCells string) (models.Quote, error) {
	if row.Length() == 0 {
		return models.Quote{}, &models.ExtractError{Reason: missing}
	}
	cells := row.Find("td")
	if cells.Length() < 2 {
		return models.Quote{}, &models.ExtractError{Reason: fewCells}
	}
	return models.Quote{
		Date:  strings.TrimSpace(cells.Eq(0).Text()),
		Price: priceText(cells.Eq(1).Text()),
	}, nil
}

// priceText keeps the first line of a price cell; the cell may carry the
// day's change on a second line.
func priceText(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
