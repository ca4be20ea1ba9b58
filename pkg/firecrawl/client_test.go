package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/internal/resilience"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-api-key", WithBaseURL(srv.URL), WithRetry(resilience.RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}))
	return srv, c
}

func TestScrape(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantTitle  string
		wantErr    bool
		wantStatus int
	}{
		{
			name: "happy path",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/scrape", r.URL.Path)
				assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

				var req ScrapeRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "https://example.com/about", req.URL)
				assert.Equal(t, []string{"markdown"}, req.Formats)

				_ = json.NewEncoder(w).Encode(ScrapeResponse{
					Success: true,
					Data: PageData{
						Markdown: "# About Us",
						Metadata: PageMetadata{
							Title:      "About",
							SourceURL:  "https://example.com/about",
							StatusCode: 200,
						},
					},
				})
			},
			wantTitle: "About",
		},
		{
			name: "payment required",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusPaymentRequired)
				_, _ = w.Write([]byte(`{"error":"out of credits"}`))
			},
			wantErr:    true,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			},
			wantErr:    true,
			wantStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newTestServer(t, tt.handler)
			resp, err := c.Scrape(context.Background(), ScrapeRequest{
				URL:     "https://example.com/about",
				Formats: []string{"markdown"},
			})

			if tt.wantErr {
				require.Error(t, err)
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.wantTitle, resp.Data.Metadata.Title)
			assert.Equal(t, "# About Us", resp.Data.Markdown)
		})
	}
}

func TestScrape_RetriesTransientStatus(t *testing.T) {
	var attempts atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"ok","metadata":{"statusCode":200}}}`))
	})

	resp, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Data.Markdown)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestScrape_DoesNotRetryClientError(t *testing.T) {
	var attempts atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestContextCancellation(t *testing.T) {
	var hits atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Scrape(ctx, ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()
	e := &APIError{StatusCode: 429, Body: `{"error":"rate limited"}`}
	assert.Equal(t, `firecrawl: HTTP 429: {"error":"rate limited"}`, e.Error())
}

func TestNewClient_Options(t *testing.T) {
	t.Parallel()
	customClient := &http.Client{}
	c := NewClient("key", WithHTTPClient(customClient), WithBaseURL(""))
	hc := c.(*httpClient)
	assert.Same(t, customClient, hc.http)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
}

func TestMalformedJSON(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{not json`))
	})

	_, err := c.Scrape(context.Background(), ScrapeRequest{URL: "https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
