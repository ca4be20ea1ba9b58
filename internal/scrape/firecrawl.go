package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/pkg/firecrawl"
)

// FirecrawlAdapter wraps a Firecrawl client as a Scraper for single-page scrapes.
type FirecrawlAdapter struct {
	client firecrawl.Client
}

// NewFirecrawlAdapter creates a FirecrawlAdapter from a Firecrawl client.
func NewFirecrawlAdapter(client firecrawl.Client) *FirecrawlAdapter {
	return &FirecrawlAdapter{client: client}
}

// Name implements Scraper.
func (f *FirecrawlAdapter) Name() string { return "firecrawl" }

// Supports returns true. Firecrawl renders JavaScript, so it can attempt any URL.
func (f *FirecrawlAdapter) Supports(_ string) bool { return true }

// Scrape fetches a single URL's main content as markdown.
func (f *FirecrawlAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := f.client.Scrape(ctx, firecrawl.ScrapeRequest{
		URL:             targetURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, eris.New("firecrawl: scrape not successful")
	}

	meta := resp.Data.Metadata
	pageURL := meta.SourceURL
	if pageURL == "" {
		pageURL = targetURL
	}
	return &Result{
		Page: model.CrawledPage{
			URL:        pageURL,
			Title:      meta.Title,
			Markdown:   resp.Data.Markdown,
			StatusCode: meta.StatusCode,
		},
		Source: "firecrawl",
	}, nil
}
