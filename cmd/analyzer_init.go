package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/config"
	"github.com/sells-group/lead-qualifier/internal/lead"
	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/monitoring"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/internal/scrape"
	"github.com/sells-group/lead-qualifier/internal/source"
	"github.com/sells-group/lead-qualifier/pkg/anthropic"
	"github.com/sells-group/lead-qualifier/pkg/firecrawl"
	"github.com/sells-group/lead-qualifier/pkg/jina"
)

// analyzerEnv holds the analyzer and the metrics registry it reports to,
// shared by the serve and analyze commands.
type analyzerEnv struct {
	Analyzer *lead.Analyzer
	Metrics  *monitoring.Metrics
	Source   source.Source
}

// initAnalyzer validates c for mode and builds the configured source,
// scoring profile and analyzer.
func initAnalyzer(c *config.Config, mode string) (*analyzerEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	profile, err := leadscore.Lookup(c.Scoring.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "init analyzer")
	}

	deps := source.Deps{}
	if c.Source.Name != source.NameMock {
		deps.Chain = buildChain(c)
	}
	if c.Source.Name == source.NameAI {
		deps.Anthropic = anthropic.NewClient(c.Anthropic.Key)
	}

	src, err := source.New(c, deps)
	if err != nil {
		return nil, eris.Wrap(err, "init analyzer")
	}

	metrics := monitoring.NewMetrics()
	analyzer := lead.NewAnalyzer(src,
		lead.WithProfile(profile),
		lead.WithMetrics(metrics),
	)

	zap.L().Info("analyzer ready",
		zap.String("source", src.Name()),
		zap.String("profile", profile.Name),
		zap.Int("profile_version", profile.Version),
	)

	return &analyzerEnv{Analyzer: analyzer, Metrics: metrics, Source: src}, nil
}

// buildChain assembles the scraper fallback chain. The local fetcher is
// always first; the browser and paid reader APIs are added when enabled.
func buildChain(c *config.Config) *scrape.Chain {
	retry := resilience.NewRetryConfig(c.Retry.MaxAttempts, c.Retry.InitialBackoffMs, c.Retry.MaxBackoffMs)

	scrapers := []scrape.Scraper{scrape.NewLocalScraper(c.Scrape.UserAgent)}
	if c.Scrape.Browser {
		scrapers = append(scrapers, scrape.NewBrowserScraper(c.Scrape.UserAgent,
			scrape.WithBrowserTimeout(time.Duration(c.Source.TimeoutSecs)*time.Second),
		))
	}
	if c.Jina.Key != "" {
		scrapers = append(scrapers, scrape.NewJinaAdapter(jina.NewClient(c.Jina.Key,
			jina.WithBaseURL(c.Jina.BaseURL),
			jina.WithRetry(retry),
		)))
	}
	if c.Firecrawl.Key != "" {
		scrapers = append(scrapers, scrape.NewFirecrawlAdapter(firecrawl.NewClient(c.Firecrawl.Key,
			firecrawl.WithBaseURL(c.Firecrawl.BaseURL),
			firecrawl.WithRetry(retry),
		)))
	}

	chain := scrape.NewChain(scrapers...)
	zap.L().Debug("scrape chain built", zap.Strings("scrapers", chain.Names()))
	return chain
}
