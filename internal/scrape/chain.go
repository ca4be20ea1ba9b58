package scrape

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	scrapers []Scraper
}

// NewChain creates a Chain. Scrapers are tried in the order given.
func NewChain(scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers}
}

// Names lists the scrapers in priority order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.scrapers))
	for i, s := range c.scrapers {
		names[i] = s.Name()
	}
	return names
}

// Scrape tries each scraper in order for a single URL.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	var lastErr error
	for _, s := range c.scrapers {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "scrape: context done")
		}
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// ScrapeAll fetches urls concurrently, at most maxConcurrent at a time.
// Failed URLs are skipped; the surviving pages keep the input order.
func (c *Chain) ScrapeAll(ctx context.Context, urls []string, maxConcurrent int) []model.CrawledPage {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	slots := make([]*model.CrawledPage, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			result, err := c.Scrape(gCtx, u)
			if err != nil {
				zap.L().Debug("scrape: chain failed for url",
					zap.String("url", u),
					zap.Error(err),
				)
				return nil
			}
			page := result.Page
			if page.URL == "" {
				page.URL = u
			}
			slots[i] = &page
			return nil
		})
	}
	_ = g.Wait()

	pages := make([]model.CrawledPage, 0, len(urls))
	for _, p := range slots {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages
}
