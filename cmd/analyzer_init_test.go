package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/internal/config"
)

func TestInitAnalyzer_Mock(t *testing.T) {
	c := loadTestConfig(t)

	env, err := initAnalyzer(c, "analyze")
	require.NoError(t, err)
	assert.Equal(t, "mock", env.Source.Name())
	assert.Equal(t, "canonical", env.Analyzer.Profile().Name)
	assert.NotNil(t, env.Metrics)
}

func TestInitAnalyzer_ScrapeWithFallback(t *testing.T) {
	c := loadTestConfig(t)
	c.Source.Name = "scrape"

	env, err := initAnalyzer(c, "serve")
	require.NoError(t, err)
	assert.Equal(t, "scrape>mock", env.Source.Name())
}

func TestInitAnalyzer_AIWithoutFallback(t *testing.T) {
	c := loadTestConfig(t)
	c.Source.Name = "ai"
	c.Source.FallbackToMock = false
	c.Anthropic.Key = "sk-test"
	c.Scoring.Profile = "legacy-mock"

	env, err := initAnalyzer(c, "analyze")
	require.NoError(t, err)
	assert.Equal(t, "ai", env.Source.Name())
	assert.Equal(t, "legacy-mock", env.Analyzer.Profile().Name)
}

func TestInitAnalyzer_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{name: "ai needs key", mutate: func(c *config.Config) { c.Source.Name = "ai" }, want: "anthropic.key is required"},
		{name: "unknown source", mutate: func(c *config.Config) { c.Source.Name = "psychic" }, want: "source.name"},
		{name: "unknown profile", mutate: func(c *config.Config) { c.Scoring.Profile = "nope" }, want: "scoring.profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadTestConfig(t)
			tt.mutate(c)

			_, err := initAnalyzer(c, "analyze")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildChain(t *testing.T) {
	c := loadTestConfig(t)
	assert.Equal(t, []string{"local_http"}, buildChain(c).Names())

	c.Scrape.Browser = true
	c.Jina.Key = "jina-key"
	c.Firecrawl.Key = "fc-key"
	assert.Equal(t, []string{"local_http", "browser", "jina", "firecrawl"}, buildChain(c).Names())
}
