// Package source produces raw, untrusted per-metric scores for a lead's
// website. Sources know nothing about weighting or penalties; their output
// goes straight to leadscore.
package source

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/config"
	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/internal/scrape"
	"github.com/sells-group/lead-qualifier/pkg/anthropic"
)

// Source names accepted by New.
const (
	NameMock   = "mock"
	NameScrape = "scrape"
	NameAI     = "ai"
)

// Source assesses a lead website and returns raw metric scores.
type Source interface {
	Name() string
	Assess(ctx context.Context, url string) (*Assessment, error)
}

// Assessment is a source's view of a lead before scoring.
type Assessment struct {
	Source          string
	Raw             leadscore.RawScores
	Insights        []string
	Recommendations []string
	Pages           int
}

// Deps are the collaborators the scrape and ai sources need. Either may be
// nil when the configured source does not use it.
type Deps struct {
	Chain     *scrape.Chain
	Anthropic anthropic.Client
}

// New builds the configured source. scrape and ai fall back to mock when
// source.fallback_to_mock is set.
func New(cfg *config.Config, deps Deps) (Source, error) {
	timeout := time.Duration(cfg.Source.TimeoutSecs) * time.Second

	var primary Source
	switch cfg.Source.Name {
	case NameMock:
		return NewHashSource(), nil
	case NameScrape:
		if deps.Chain == nil {
			return nil, eris.New("source: scrape source requires a scrape chain")
		}
		primary = NewHeuristicSource(deps.Chain, cfg.Source.MaxPages, timeout)
	case NameAI:
		if deps.Chain == nil || deps.Anthropic == nil {
			return nil, eris.New("source: ai source requires a scrape chain and an anthropic client")
		}
		primary = NewAISource(deps.Chain, deps.Anthropic, AIConfig{
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Timeout:   timeout,
			Retry:     resilience.NewRetryConfig(cfg.Retry.MaxAttempts, cfg.Retry.InitialBackoffMs, cfg.Retry.MaxBackoffMs),
		})
	default:
		return nil, eris.Errorf("source: unknown source %q", cfg.Source.Name)
	}

	if cfg.Source.FallbackToMock {
		return NewFallbackSource(primary, NewHashSource()), nil
	}
	return primary, nil
}
