package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/internal/scrape"
	"github.com/sells-group/lead-qualifier/pkg/anthropic"
)

// maxPromptChars bounds how much page text is sent to the model.
const maxPromptChars = 12000

const systemPrompt = `You qualify B2B sales leads for an AI automation consultancy.
Given the text of a company's website, rate the company from 0 to 100 on:
- dealPotential: likelihood of closing a meaningful deal
- practicality: how practical an AI implementation would be
- revenue: estimated revenue potential for the engagement
- aiEase: how easily AI could be applied to their processes
- difficulty: how hard the implementation would be (higher is harder)
Respond with a single JSON object and nothing else:
{"dealPotential":0,"practicality":0,"revenue":0,"aiEase":0,"difficulty":0,"insights":["..."],"recommendations":["..."]}
Give 2 to 4 short insights and 2 to 4 short recommendations.`

// AIConfig configures an AISource.
type AIConfig struct {
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	Retry     resilience.RetryConfig
}

// AISource asks an LLM to rate the lead from its homepage text.
type AISource struct {
	chain  *scrape.Chain
	client anthropic.Client
	cfg    AIConfig
}

// NewAISource creates an AISource.
func NewAISource(chain *scrape.Chain, client anthropic.Client, cfg AIConfig) *AISource {
	if cfg.Model == "" {
		cfg.Model = anthropic.DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	cfg.Retry.OnRetry = resilience.RetryLogger("anthropic", "assess")
	return &AISource{chain: chain, client: client, cfg: cfg}
}

// Name implements Source.
func (a *AISource) Name() string { return NameAI }

// aiVerdict is the model's reply. Metric values stay untyped so the engine
// sees exactly what the model produced.
type aiVerdict struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

// Assess implements Source. Any failure, including unparseable model
// output, is returned so a FallbackSource can move on.
func (a *AISource) Assess(ctx context.Context, url string) (*Assessment, error) {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	page, err := a.chain.Scrape(ctx, url)
	if err != nil {
		return nil, eris.Wrap(err, "source: ai fetch homepage")
	}

	temp := 0.0
	req := anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System: []anthropic.SystemBlock{
			{Text: systemPrompt, CacheControl: &anthropic.CacheControl{}},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(url, page.Page.Title, page.Page.Markdown)},
		},
		Temperature: &temp,
	}

	resp, err := resilience.DoVal(ctx, a.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "source: ai assess")
	}
	resp.Usage.LogCost(a.cfg.Model, "assess")

	raw, verdict, err := parseVerdict(resp.Text())
	if err != nil {
		zap.L().Warn("source: unparseable model output",
			zap.String("url", url),
			zap.String("stop_reason", resp.StopReason),
		)
		return nil, err
	}

	return &Assessment{
		Source:          NameAI,
		Raw:             raw,
		Insights:        verdict.Insights,
		Recommendations: verdict.Recommendations,
		Pages:           1,
	}, nil
}

// buildPrompt caps text at maxPromptChars bytes, cutting on a rune
// boundary so the prompt stays valid UTF-8.
func buildPrompt(url, title, text string) string {
	if len(text) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return fmt.Sprintf("Website: %s\nTitle: %s\n\n%s", url, title, text)
}

// parseVerdict decodes the model reply. Metric keys are copied into the
// raw map untouched; unknown keys are dropped. Malformed insight or
// recommendation lists never fail the reply.
func parseVerdict(text string) (leadscore.RawScores, aiVerdict, error) {
	var verdict aiVerdict
	cleaned := cleanJSON(text)

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, verdict, eris.Wrap(err, "source: decode model output")
	}
	verdict.Insights = stringList(fields["insights"])
	verdict.Recommendations = stringList(fields["recommendations"])

	raw := make(leadscore.RawScores, len(leadscore.AllMetrics()))
	for _, m := range leadscore.AllMetrics() {
		if v, ok := fields[string(m)]; ok {
			raw[string(m)] = v
		}
	}
	return raw, verdict, nil
}

// stringList reads a model list leniently: a lone string becomes one
// entry, non-string items are skipped and anything else yields nil.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if t = strings.TrimSpace(t); t != "" {
			return []string{t}
		}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// cleanJSON strips code fences and any prose around the outermost object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}
