package scrape

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/pkg/jina"
)

// minReaderContent is the shortest Jina body treated as a real page.
const minReaderContent = 100

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"403 forbidden",
	"just a moment",
	"cloudflare",
	"attention required",
}

// JinaAdapter wraps a Jina Reader client as a Scraper. Three failures within
// 30s open its breaker for 60s, and the chain skips it while open.
type JinaAdapter struct {
	client  jina.Client
	breaker *resilience.CircuitBreaker
}

// NewJinaAdapter creates a JinaAdapter from a Jina client.
func NewJinaAdapter(client jina.Client) *JinaAdapter {
	return &JinaAdapter{
		client: client,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "jina",
			FailureThreshold: 3,
			Window:           30 * time.Second,
			Cooldown:         60 * time.Second,
		}),
	}
}

// Name implements Scraper.
func (j *JinaAdapter) Name() string { return "jina" }

// Supports returns true unless the circuit breaker is open.
func (j *JinaAdapter) Supports(_ string) bool {
	return j.breaker.State() != resilience.CircuitOpen
}

// Scrape fetches a URL via Jina Reader. Blocked or near-empty responses
// count as failures so the chain moves on.
func (j *JinaAdapter) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := resilience.ExecuteVal(ctx, j.breaker, func(ctx context.Context) (*jina.ReadResponse, error) {
		resp, err := j.client.Read(ctx, targetURL)
		if err != nil {
			return nil, err
		}
		if needsFallback(resp) {
			return nil, eris.New("jina: response needs fallback")
		}
		return resp, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "jina: scrape")
	}

	pageURL := resp.Data.URL
	if pageURL == "" {
		pageURL = targetURL
	}
	return &Result{
		Page: model.CrawledPage{
			URL:        pageURL,
			Title:      resp.Data.Title,
			Markdown:   resp.Data.Content,
			StatusCode: resp.Code,
		},
		Source: "jina",
	}, nil
}

// needsFallback reports whether a Jina response is unusable: a non-200 code,
// too little content, or a short bot-challenge page.
func needsFallback(resp *jina.ReadResponse) bool {
	if resp == nil {
		return true
	}
	if resp.Code != 0 && resp.Code != 200 {
		return true
	}

	content := strings.TrimSpace(resp.Data.Content)
	if len(content) < minReaderContent {
		return true
	}

	lower := strings.ToLower(content)
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) && len(content) < 1000 {
			return true
		}
	}
	return false
}
