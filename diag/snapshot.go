// Package diag summarises a rendered page when the quote table could not be
// read, so a layout change on the source site can be diagnosed from logs.
package diag

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/use-agent/goldrate/extract"
)

// maxTableMarkdown caps the rendered table carried into a log line.
const maxTableMarkdown = 2000

// Snapshot describes a page at the moment of a failed lookup.
type Snapshot struct {
	Title         string
	Excerpt       string
	TableMarkdown string
	HTMLBytes     int
}

// TakeSnapshot extracts the page title, a short text excerpt and the first
// table (preferring the known price section) rendered as Markdown.
func TakeSnapshot(rawHTML, sourceURL string) Snapshot {
	snap := Snapshot{HTMLBytes: len(rawHTML)}
	snap.Title, snap.Excerpt = pageSummary(rawHTML, sourceURL)

	fragment := ""
	for _, sel := range []string{extract.SectionSelector + " table", "table"} {
		out, err := selectOuterHTML(rawHTML, sel)
		if err != nil {
			slog.Debug("snapshot: selector failed", "selector", sel, "error", err)
			continue
		}
		if out != "" {
			fragment = out
			break
		}
	}
	if fragment == "" {
		return snap
	}

	domain := ""
	if u, err := nurl.Parse(sourceURL); err == nil {
		domain = u.Host
	}
	md, err := toMarkdown(newMarkdownConverter(), fragment, domain)
	if err != nil {
		slog.Debug("snapshot: markdown conversion failed", "error", err)
		return snap
	}
	snap.TableMarkdown = truncate(strings.TrimSpace(md), maxTableMarkdown)
	return snap
}
