package scrape

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-qualifier/internal/model"
)

const defaultBrowserTimeout = 30 * time.Second

// BrowserScraper renders pages in headless Chrome. It handles JavaScript
// shells the local scraper rejects, at the cost of a browser process per call.
type BrowserScraper struct {
	userAgent string
	timeout   time.Duration
	execPath  string
}

// BrowserOption configures a BrowserScraper.
type BrowserOption func(*BrowserScraper)

// WithBrowserTimeout bounds a single page render.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(b *BrowserScraper) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithExecPath points at a specific Chrome binary.
func WithExecPath(path string) BrowserOption {
	return func(b *BrowserScraper) {
		b.execPath = path
	}
}

// NewBrowserScraper creates a BrowserScraper. An empty userAgent uses
// DefaultUserAgent.
func NewBrowserScraper(userAgent string, opts ...BrowserOption) *BrowserScraper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	b := &BrowserScraper{userAgent: userAgent, timeout: defaultBrowserTimeout}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements Scraper.
func (b *BrowserScraper) Name() string { return "browser" }

// Supports returns true. A real browser can attempt any URL.
func (b *BrowserScraper) Supports(_ string) bool { return true }

// allocatorOptions returns the headless Chrome flags for one render.
func (b *BrowserScraper) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(b.userAgent),
	)
	if b.execPath != "" {
		opts = append(opts, chromedp.ExecPath(b.execPath))
	}
	return opts
}

// Scrape navigates to the URL, waits for the body and returns the rendered
// text. Pages that still look like a bot challenge are rejected.
func (b *BrowserScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	var title, html, finalURL string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, eris.Wrap(err, "browser: render")
	}

	if bt := DetectBlock(0, nil, []byte(html)); bt != BlockNone && bt != BlockJSShell {
		return nil, eris.Errorf("browser: blocked (%s)", bt)
	}

	text := stripHTML(html)
	if len(text) < minBodyBytes {
		return nil, eris.New("browser: empty page")
	}

	if finalURL == "" {
		finalURL = targetURL
	}

	return &Result{
		Page: model.CrawledPage{
			URL:        finalURL,
			Title:      title,
			Markdown:   text,
			StatusCode: 200,
		},
		Source: "browser",
	}, nil
}
