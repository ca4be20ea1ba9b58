package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/scrape"
)

func TestProbeURLs(t *testing.T) {
	urls, err := probeURLs("https://acme.com/products?ref=x", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://acme.com/products?ref=x",
		"https://acme.com/about",
		"https://acme.com/pricing",
	}, urls)

	urls, err = probeURLs("https://acme.com", 50)
	require.NoError(t, err)
	assert.Len(t, urls, 6)

	_, err = probeURLs("not a url", 3)
	require.Error(t, err)
}

func TestHeuristicSource_RichSite(t *testing.T) {
	filler := strings.Repeat("We help teams ship faster. ", 120)
	chain := chainFor(map[string]model.CrawledPage{
		"https://acme.com": {
			Title:    "Acme - Enterprise workflow platform",
			Markdown: "Trusted by Fortune 500 companies worldwide. Connect via our API and Salesforce integration. " + filler,
		},
		"https://acme.com/pricing": {Title: "Pricing", Markdown: "Plans start at $99. Request a quote for enterprise."},
		"https://acme.com/careers": {Title: "Careers", Markdown: "We are hiring engineers in five offices."},
		"https://acme.com/contact": {Title: "Contact", Markdown: "Call us or book a call."},
	})

	a, err := NewHeuristicSource(chain, 6, 0).Assess(context.Background(), "https://acme.com")
	require.NoError(t, err)

	assert.Equal(t, "scrape", a.Source)
	assert.Equal(t, 4, a.Pages)
	require.Len(t, a.Raw, 5)
	assert.NotEmpty(t, a.Insights)
	assert.NotEmpty(t, a.Recommendations)

	res := leadscore.Compute(a.Raw)
	assert.Empty(t, res.Penalties, "rich site clears both thresholds")
	assert.Greater(t, res.NormalizedScores[leadscore.DealPotential], 70.0)
}

func TestHeuristicSource_SparseSiteScoresLower(t *testing.T) {
	sparse := chainFor(map[string]model.CrawledPage{
		"https://tiny.example": {Title: "Tiny", Markdown: "Welcome to our site."},
	})
	rich := chainFor(map[string]model.CrawledPage{
		"https://acme.com":         {Title: "Acme", Markdown: "Enterprise global platform with API integrations and compliance."},
		"https://acme.com/pricing": {Title: "Pricing", Markdown: "Pricing plans"},
		"https://acme.com/careers": {Title: "Careers", Markdown: "Join us"},
	})

	s, err := NewHeuristicSource(sparse, 6, 0).Assess(context.Background(), "https://tiny.example")
	require.NoError(t, err)
	r, err := NewHeuristicSource(rich, 6, 0).Assess(context.Background(), "https://acme.com")
	require.NoError(t, err)

	assert.Less(t, leadscore.Compute(s.Raw).TotalScore, leadscore.Compute(r.Raw).TotalScore)
	assert.Contains(t, s.Insights, "Limited public information on the website")
}

func TestHeuristicSource_NoPages(t *testing.T) {
	_, err := NewHeuristicSource(chainFor(nil), 6, 0).Assess(context.Background(), "https://down.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages fetched")
}

func TestKeywordSet_WholeWords(t *testing.T) {
	set := newKeywordSet("ai", "api")
	assert.Empty(t, set.matches("maintain rapid capital"))
	assert.Equal(t, []string{"ai", "api"}, set.matches("our ai reads your api"))
}

func TestSignals_RawScoresAreUntrustedButFinite(t *testing.T) {
	sig := signals{Kinds: map[model.PageKind]bool{}}
	raw := sig.rawScores()
	require.Len(t, raw, 5)
	for _, m := range leadscore.AllMetrics() {
		_, ok := raw[string(m)].(float64)
		assert.True(t, ok, m)
	}
}

func TestHeuristicSource_RedirectedProbesCountOnce(t *testing.T) {
	home := `<html><head><title>Acme</title></head><body><p>` +
		strings.Repeat("We make handcrafted furniture for local homes. ", 10) +
		`</p></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(home))
	}))
	defer srv.Close()

	chain := scrape.NewChain(scrape.NewLocalScraper(""))
	a, err := NewHeuristicSource(chain, 6, 0).Assess(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Pages)
	assert.NotContains(t, a.Insights, "Public pricing page suggests a productized offering")
	assert.NotContains(t, a.Insights, "Active careers page indicates a growing team")
	assert.Equal(t, 40.0, a.Raw[string(leadscore.DealPotential)])
	assert.Equal(t, 35.0, a.Raw[string(leadscore.Revenue)])
}

func TestUniquePages(t *testing.T) {
	pages := []model.CrawledPage{
		{URL: "https://acme.com", Markdown: "home"},
		{URL: "https://ACME.com/", Markdown: "home again"},
		{URL: "https://acme.com/pricing", Markdown: "home"},
		{URL: "https://acme.com/careers", Markdown: "jobs"},
		{URL: "https://acme.com/careers/#open", Markdown: "jobs listing"},
	}

	got := uniquePages(pages)
	require.Len(t, got, 2)
	assert.Equal(t, "https://acme.com", got[0].URL)
	assert.Equal(t, "https://acme.com/careers", got[1].URL)
}

func TestPageKey(t *testing.T) {
	assert.Equal(t, "acme.com/", pageKey("https://Acme.com"))
	assert.Equal(t, "acme.com/", pageKey("http://acme.com/#top"))
	assert.Equal(t, "acme.com/about", pageKey("https://acme.com/about/"))
	assert.Equal(t, "acme.com/p?id=2", pageKey("https://acme.com/p?id=2"))
}
