package diag

import (
	"strings"
	"testing"
)

const page = `<html><head><title>Gold Rate Today in Bangalore</title></head><body>
<article>
<h1>Gold Rate Today in Bangalore</h1>
<p>Gold prices in Bangalore are updated every morning. The table below lists the rate of
24 carat gold for the last ten days together with the daily change in rupees.</p>
<section class="gold_table_sec5">
<table>
<thead><tr><th>Date</th><th>24 Carat</th></tr></thead>
<tbody>
<tr><td>12 Mar</td><td>₹6,500</td></tr>
<tr><td>11 Mar</td><td>₹6,450</td></tr>
</tbody>
</table>
</section>
</article>
</body></html>`

func TestTakeSnapshot_RendersPriceTable(t *testing.T) {
	snap := TakeSnapshot(page, "https://www.goodreturns.in/gold-rates/bangalore.html")

	if snap.HTMLBytes != len(page) {
		t.Errorf("HTMLBytes = %d, want %d", snap.HTMLBytes, len(page))
	}
	for _, want := range []string{"12 Mar", "₹6,500", "|"} {
		if !strings.Contains(snap.TableMarkdown, want) {
			t.Errorf("table markdown missing %q:\n%s", want, snap.TableMarkdown)
		}
	}
}

func TestTakeSnapshot_NoTable(t *testing.T) {
	snap := TakeSnapshot("<html><body><p>Access denied</p></body></html>", "https://www.goodreturns.in/")
	if snap.TableMarkdown != "" {
		t.Errorf("expected no table, got %q", snap.TableMarkdown)
	}
}

func TestTakeSnapshot_BadURLDoesNotPanic(t *testing.T) {
	snap := TakeSnapshot(page, "://bad")
	if snap.Title != "" {
		t.Errorf("title should be empty for unparseable URL, got %q", snap.Title)
	}
}

func TestSelectOuterHTML(t *testing.T) {
	out, err := selectOuterHTML(page, `section[class*="gold_table_sec5"] table`)
	if err != nil {
		t.Fatalf("selectOuterHTML: %v", err)
	}
	if !strings.HasPrefix(out, "<table>") {
		t.Errorf("unexpected fragment: %q", out)
	}

	if _, err := selectOuterHTML(page, "[[["); err == nil {
		t.Error("invalid selector should error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("₹₹₹₹", 2); got != "₹₹…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 5); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
