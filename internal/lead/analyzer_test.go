package lead

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/monitoring"
	"github.com/sells-group/lead-qualifier/internal/source"
)

type fixedSource struct {
	raw     leadscore.RawScores
	err     error
	lastURL string
}

func (f *fixedSource) Name() string { return "fixed" }

func (f *fixedSource) Assess(_ context.Context, url string) (*source.Assessment, error) {
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return &source.Assessment{
		Source:          "fixed",
		Raw:             f.raw,
		Insights:        []string{"insight"},
		Recommendations: nil,
		Pages:           2,
	}, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(src source.Source, opts ...Option) *Analyzer {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewAnalyzer(src, opts...)
}

func TestAnalyze_ScenarioB(t *testing.T) {
	src := &fixedSource{raw: leadscore.RawScores{
		"dealPotential": 40, "practicality": 70, "difficulty": 50, "revenue": 30, "aiEase": 70,
	}}
	a := newTestAnalyzer(src, WithMetrics(monitoring.NewMetrics()))

	rep, err := a.Analyze(context.Background(), Request{URL: "  https://acme.com\x00 ", Email: "ceo@acme.com"})
	require.NoError(t, err)

	assert.Equal(t, "https://acme.com", src.lastURL, "source sees the sanitized url")
	assert.Equal(t, GenerateID("https://acme.com"), rep.ID)
	assert.Equal(t, "Company from acme.com", rep.CompanyName)
	assert.Equal(t, "fixed", rep.Source)
	assert.Equal(t, 41, rep.TotalScore)
	assert.InDelta(t, 48.5, rep.ScoringDetails.RawTotal, 1e-9)
	assert.InDelta(t, 7.275, rep.ScoringDetails.TotalPenalty, 1e-9)
	require.Len(t, rep.ScoringDetails.Penalties, 2)
	assert.Equal(t, leadscore.DealPotential, rep.ScoringDetails.Penalties[0].Metric)
	assert.Equal(t, leadscore.Revenue, rep.ScoringDetails.Penalties[1].Metric)
	assert.Equal(t, "canonical", rep.ScoringDetails.Profile)
	assert.Equal(t, 2, rep.PagesAnalyzed)
	assert.Equal(t, fixedNow, rep.AnalyzedAt)
	assert.Equal(t, []string{"insight"}, rep.Insights)
	assert.NotNil(t, rep.Recommendations)
	assert.Empty(t, rep.Recommendations)

	require.NotNil(t, rep.Email)
	assert.Equal(t, "ceo@acme.com", rep.Email.Address)
	assert.True(t, rep.Email.Validation.IsValid)
	assert.False(t, rep.Email.Validation.IsDisposable)
	assert.True(t, rep.Email.Validation.HasMXRecords)
}

func TestAnalyze_WithProfile(t *testing.T) {
	legacy, err := leadscore.Lookup("legacy-mock")
	require.NoError(t, err)

	src := &fixedSource{raw: leadscore.RawScores{
		"dealPotential": 40, "practicality": 70, "difficulty": 50, "revenue": 30, "aiEase": 70,
	}}
	rep, err := newTestAnalyzer(src, WithProfile(legacy)).Analyze(context.Background(), Request{URL: "https://acme.com"})
	require.NoError(t, err)

	assert.Equal(t, "legacy-mock", rep.ScoringDetails.Profile)
	assert.Empty(t, rep.ScoringDetails.Penalties)
	assert.Nil(t, rep.Email)
}

func TestAnalyze_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"missing url", Request{}, "URL is required"},
		{"blank url", Request{URL: " \x00 "}, "URL is required"},
		{"no scheme", Request{URL: "acme.com"}, "Invalid URL format"},
		{"bad email", Request{URL: "https://acme.com", Email: "not-an-email"}, "Invalid email format: not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fixedSource{}
			_, err := newTestAnalyzer(src).Analyze(context.Background(), tt.req)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.want, vErr.Message)
			assert.Empty(t, src.lastURL, "source not called")
		})
	}
}

func TestAnalyze_SourceFailure(t *testing.T) {
	src := &fixedSource{err: eris.New("upstream exploded")}
	_, err := newTestAnalyzer(src).Analyze(context.Background(), Request{URL: "https://acme.com"})
	require.Error(t, err)

	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestAnalyze_MockSourceEndToEnd(t *testing.T) {
	a := NewAnalyzer(source.NewHashSource())

	first, err := a.Analyze(context.Background(), Request{URL: "https://example.com"})
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), Request{URL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, first.TotalScore, second.TotalScore)
	assert.Equal(t, first.RawScores, second.RawScores)
	assert.Len(t, first.Scores, 5)
	assert.GreaterOrEqual(t, first.TotalScore, 0)
	assert.LessOrEqual(t, first.TotalScore, 100)
	assert.Len(t, first.Insights, 4)
	assert.Equal(t, "Company from example.com", first.CompanyName)
	assert.Equal(t, leadscore.DefaultProfileName, a.Profile().Name)
}

func TestAnalyze_MetricsKeepConfiguredSourceLabel(t *testing.T) {
	m := monitoring.NewMetrics()
	failing := &fixedSource{err: eris.New("model unavailable")}
	a := newTestAnalyzer(source.NewFallbackSource(failing, source.NewHashSource()), WithMetrics(m))

	_, err := a.Analyze(context.Background(), Request{URL: "https://acme.com"})
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), Request{URL: "nope"})
	require.Error(t, err)

	broken := newTestAnalyzer(source.NewFallbackSource(failing), WithMetrics(m))
	_, err = broken.Analyze(context.Background(), Request{URL: "https://acme.com"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `leadq_leads_analyzed_total{assessed_by="mock",outcome="ok",source="fixed>mock"} 1`)
	assert.Contains(t, body, `leadq_leads_analyzed_total{assessed_by="none",outcome="invalid",source="fixed>mock"} 1`)
	assert.Contains(t, body, `leadq_leads_analyzed_total{assessed_by="none",outcome="source_failed",source="fixed"} 1`)
}
