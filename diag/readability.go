package diag

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// maxExcerpt caps the excerpt carried into a log line.
const maxExcerpt = 280

// pageSummary runs the Mozilla Readability algorithm on rawHTML and returns
// the page title and a short excerpt. Both are empty when readability
// cannot make sense of the page; a snapshot must never fail.
func pageSummary(rawHTML, sourceURL string) (title, excerpt string) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Debug("readability: invalid source URL", "url", sourceURL, "error", err)
		return "", ""
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("readability: extraction failed", "url", sourceURL, "error", err)
		return "", ""
	}

	excerpt = strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.Join(strings.Fields(article.TextContent), " ")
	}
	return strings.TrimSpace(article.Title), truncate(excerpt, maxExcerpt)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
