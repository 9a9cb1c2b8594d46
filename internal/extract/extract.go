// Package extract fetches the daily box-office page and turns its HTML
// table into raw staging records.  The page is untrusted input: cell text
// is passed through verbatim and cleaned later by the transform stage.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/minhlq/boxoffice-etl/internal/model"
)

// ErrSourceUnavailable signals that the upstream feed could not be
// fetched or parsed.  It is fatal to the extract stage and aborts the run.
var ErrSourceUnavailable = errors.New("source unavailable")

// sourceName identifies the upstream feed in staging rows.
const sourceName = "boxofficevietnam"

// Extractor fetches and parses the box-office page.
type Extractor struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

// NewExtractor constructs an Extractor for the given page URL.
func NewExtractor(url string, log *slog.Logger) *Extractor {
	return &Extractor{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Fetch downloads the page and extracts one RawRecord per table row.  The
// scrape date stamped on every record is the given date (normally today).
// Any transport, status or parse failure is wrapped in
// ErrSourceUnavailable; an empty table counts as a parse failure because
// the source always lists at least one film on a normal day.
func (e *Extractor) Fetch(ctx context.Context, scrapeDate time.Time) ([]model.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, e.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrSourceUnavailable, e.url, resp.StatusCode)
	}

	rows, err := ParseTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	e.log.Info("extracted rows from source page", "rows", len(rows), "url", e.url)

	records := make([]model.RawRecord, 0, len(rows))
	for _, cells := range rows {
		records = append(records, model.RawRecord{
			FilmName:     cells[0],
			RevenueRaw:   cells[1],
			TicketsRaw:   cells[2],
			ShowtimesRaw: cells[3],
			ScrapedDate:  scrapeDate,
			Source:       sourceName,
		})
	}
	return records, nil
}

// ParseTable extracts the first four cell texts of every body row of the
// first <table> in the document.  Rows with fewer than four cells are
// ignored.  A document without a table, or a table without usable rows,
// is an error.
func ParseTable(r io.Reader) ([][4]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %v", err)
	}
	table := findFirst(doc, "table")
	if table == nil {
		return nil, errors.New("no table found in page")
	}

	var rows [][4]string
	for _, tr := range findAll(table, "tr") {
		tds := findAll(tr, "td")
		if len(tds) < 4 {
			continue // header or malformed row
		}
		var cells [4]string
		for i := 0; i < 4; i++ {
			cells[i] = strings.TrimSpace(textContent(tds[i]))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, errors.New("table has no data rows")
	}
	return rows, nil
}

// findFirst returns the first descendant element with the given tag.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns all descendant elements with the given tag, in document
// order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return // do not descend into nested tables/rows
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// textContent concatenates all text nodes beneath n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
