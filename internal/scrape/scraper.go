// Package scrape fetches lead web pages through a chain of scrapers,
// falling back from free local fetches to hosted reader APIs.
package scrape

import (
	"context"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// Result holds a scraped page with the scraper that produced it.
type Result struct {
	Page   model.CrawledPage
	Source string // e.g. "local_http", "jina", "firecrawl", "browser"
}

// Scraper fetches a single URL and returns its content.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}
