package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/model"
)

// DefaultUserAgent is sent by the local and browser scrapers.
const DefaultUserAgent = "Mozilla/5.0 (compatible; LeadQualifier/1.0)"

const (
	maxBodyBytes = 512 * 1024
	minBodyBytes = 100
)

// LocalScraper fetches HTML via net/http and converts it to plain text.
// It costs nothing, so it sits first in the chain.
type LocalScraper struct {
	client    *http.Client
	userAgent string
}

// NewLocalScraper creates a LocalScraper. An empty userAgent uses
// DefaultUserAgent.
func NewLocalScraper(userAgent string) *LocalScraper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &LocalScraper{
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// Name implements Scraper.
func (l *LocalScraper) Name() string { return "local_http" }

// Supports returns true; plain HTTP can attempt any URL.
func (l *LocalScraper) Supports(_ string) bool { return true }

// Scrape fetches a URL, rejects blocked or empty pages, and strips the HTML.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if bt := DetectBlock(resp.StatusCode, resp.Header, body); bt != BlockNone {
		return nil, eris.Errorf("local_http: blocked (%s)", bt)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local_http: status %d", resp.StatusCode)
	}
	if len(body) < minBodyBytes {
		return nil, eris.New("local_http: empty page")
	}

	// Record where redirects landed so callers classify the page served.
	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		Page: model.CrawledPage{
			URL:        finalURL,
			Title:      extractTitle(body),
			Markdown:   stripHTML(string(body)),
			StatusCode: resp.StatusCode,
		},
		Source: "local_http",
	}, nil
}

var (
	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	spaceRe    = regexp.MustCompile(`[ \t]+`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)

	// Blocks whose content never describes the business.
	noiseRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`),
	}

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

func extractTitle(body []byte) string {
	m := titleRe.FindSubmatch(body)
	if len(m) > 1 {
		return strings.TrimSpace(string(m[1]))
	}
	return ""
}

// stripHTML reduces an HTML document to readable plain text.
func stripHTML(html string) string {
	for _, re := range noiseRes {
		html = re.ReplaceAllString(html, "")
	}
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	html = spaceRe.ReplaceAllString(html, " ")
	html = newlinesRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}
