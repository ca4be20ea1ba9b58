package source

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/scrape"
)

// probePaths are fetched after the homepage, in this order.
var probePaths = []string{"/about", "/pricing", "/careers", "/contact", "/blog"}

// keywordSet matches whole-word terms in lowercased page text.
type keywordSet []*regexp.Regexp

func newKeywordSet(terms ...string) keywordSet {
	set := make(keywordSet, len(terms))
	for i, t := range terms {
		set[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return set
}

// matches returns the distinct terms found in text.
func (k keywordSet) matches(text string) []string {
	var out []string
	for _, re := range k {
		if m := re.FindString(text); m != "" {
			out = append(out, m)
		}
	}
	return out
}

var (
	techKeywords = newKeywordSet(
		"api", "integration", "integrations", "webhook", "sdk",
		"salesforce", "hubspot", "zapier", "shopify", "aws", "azure",
		"kubernetes", "python", "react", "snowflake",
	)
	enterpriseKeywords = newKeywordSet(
		"enterprise", "fortune 500", "global", "worldwide", "soc 2",
		"iso 27001", "compliance", "offices", "partners",
	)
	manualKeywords = newKeywordSet(
		"spreadsheet", "spreadsheets", "manual", "paperwork", "fax",
		"call us", "book a call", "request a quote", "data entry", "forms",
	)
	aiKeywords = newKeywordSet(
		"ai", "artificial intelligence", "machine learning", "automation",
		"automated", "chatbot",
	)
)

// signals are the observations a HeuristicSource scores from.
type signals struct {
	Pages      int
	Words      int
	Kinds      map[model.PageKind]bool
	Tech       []string
	Enterprise []string
	Manual     []string
	AI         []string
}

// HeuristicSource scores a lead from keyword and page-structure signals on
// its homepage and a handful of well-known sub-pages.
type HeuristicSource struct {
	chain    *scrape.Chain
	maxPages int
	timeout  time.Duration
}

// NewHeuristicSource creates a HeuristicSource. maxPages caps how many
// pages, homepage included, are fetched.
func NewHeuristicSource(chain *scrape.Chain, maxPages int, timeout time.Duration) *HeuristicSource {
	if maxPages <= 0 {
		maxPages = 1 + len(probePaths)
	}
	return &HeuristicSource{chain: chain, maxPages: maxPages, timeout: timeout}
}

// Name implements Source.
func (h *HeuristicSource) Name() string { return NameScrape }

// Assess implements Source. It fails only when no page could be fetched.
func (h *HeuristicSource) Assess(ctx context.Context, rawURL string) (*Assessment, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	urls, err := probeURLs(rawURL, h.maxPages)
	if err != nil {
		return nil, err
	}

	pages := uniquePages(h.chain.ScrapeAll(ctx, urls, len(urls)))
	if len(pages) == 0 {
		return nil, eris.Errorf("source: no pages fetched for %s", rawURL)
	}

	sig := collectSignals(pages)
	zap.L().Debug("source: heuristic signals",
		zap.String("url", rawURL),
		zap.Int("pages", sig.Pages),
		zap.Int("words", sig.Words),
		zap.Strings("tech", sig.Tech),
		zap.Strings("enterprise", sig.Enterprise),
	)

	insights, recs := sig.narrative()
	return &Assessment{
		Source:          NameScrape,
		Raw:             sig.rawScores(),
		Insights:        insights,
		Recommendations: recs,
		Pages:           len(pages),
	}, nil
}

// probeURLs returns the homepage followed by the probe paths, at most limit.
func probeURLs(rawURL string, limit int) ([]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, eris.Errorf("source: invalid url %q", rawURL)
	}
	base := u.Scheme + "://" + u.Host

	urls := []string{rawURL}
	for _, p := range probePaths {
		if len(urls) >= limit {
			break
		}
		urls = append(urls, base+p)
	}
	return urls, nil
}

// uniquePages drops pages whose final URL or content repeats an earlier
// page, so a site that redirects or rewrites every probe path to its
// homepage is counted once.
func uniquePages(pages []model.CrawledPage) []model.CrawledPage {
	seenURL := make(map[string]bool, len(pages))
	seenBody := make(map[string]bool, len(pages))
	out := make([]model.CrawledPage, 0, len(pages))
	for _, p := range pages {
		key := pageKey(p.URL)
		body := strings.TrimSpace(p.Markdown)
		if seenURL[key] || (body != "" && seenBody[body]) {
			continue
		}
		seenURL[key] = true
		if body != "" {
			seenBody[body] = true
		}
		out = append(out, p)
	}
	return out
}

// pageKey normalizes a page URL for duplicate detection: host case,
// fragment and trailing slash are ignored.
func pageKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	path := strings.TrimSuffix(u.Path, "/")
	if path == "" {
		path = "/"
	}
	key := strings.ToLower(u.Host) + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

func collectSignals(pages []model.CrawledPage) signals {
	sig := signals{Pages: len(pages), Kinds: make(map[model.PageKind]bool)}

	var all strings.Builder
	for _, p := range pages {
		if p.Markdown == "" {
			continue
		}
		path := ""
		if u, err := url.Parse(p.URL); err == nil {
			path = u.Path
		}
		sig.Kinds[model.KindFromPath(path)] = true
		all.WriteString(strings.ToLower(p.Title))
		all.WriteString("\n")
		all.WriteString(strings.ToLower(p.Markdown))
		all.WriteString("\n")
	}

	text := all.String()
	sig.Words = len(strings.Fields(text))
	sig.Tech = techKeywords.matches(text)
	sig.Enterprise = enterpriseKeywords.matches(text)
	sig.Manual = manualKeywords.matches(text)
	sig.AI = aiKeywords.matches(text)
	return sig
}

// rawScores turns signals into untrusted metric values. Values may leave
// [0, 100]; the engine clamps them.
func (s signals) rawScores() leadscore.RawScores {
	tech := min(len(s.Tech), 5)
	enterprise := min(len(s.Enterprise), 5)
	manual := min(len(s.Manual), 5)

	deal := 40.0 + 5*float64(enterprise)
	if s.Kinds[model.PagePricing] {
		deal += 15
	}
	if s.Kinds[model.PageCareers] {
		deal += 10
	}

	practicality := 50.0 + 5*float64(tech)
	if s.Kinds[model.PageContact] {
		practicality += 10
	}

	revenue := 35.0 + 8*float64(enterprise)
	if s.Kinds[model.PageCareers] {
		revenue += 10
	}
	if s.Words > 2000 {
		revenue += 5
	}

	aiEase := 45.0 + 8*float64(manual) + 3*float64(tech)
	if len(s.AI) > 0 {
		// Already automating; less greenfield.
		aiEase -= 5
	}

	difficulty := 35.0 + 6*float64(enterprise)
	if tech == 0 {
		difficulty += 15
	}
	if s.Words < 300 {
		difficulty += 10
	}

	return leadscore.RawScores{
		string(leadscore.DealPotential): deal,
		string(leadscore.Practicality):  practicality,
		string(leadscore.Revenue):       revenue,
		string(leadscore.AIEase):        aiEase,
		string(leadscore.Difficulty):    difficulty,
	}
}

// narrative explains the strongest signals.
func (s signals) narrative() (insights, recs []string) {
	if s.Kinds[model.PagePricing] {
		insights = append(insights, "Public pricing page suggests a productized offering")
		recs = append(recs, "Anchor the pitch to their published price points")
	}
	if s.Kinds[model.PageCareers] {
		insights = append(insights, "Active careers page indicates a growing team")
	}
	if len(s.Enterprise) > 0 {
		insights = append(insights, fmt.Sprintf("Enterprise language on site: %s", strings.Join(s.Enterprise, ", ")))
		recs = append(recs, "Prepare security and compliance material for procurement")
	}
	if len(s.Tech) > 0 {
		insights = append(insights, fmt.Sprintf("Technology mentions: %s", strings.Join(s.Tech, ", ")))
		recs = append(recs, "Lead with integrations into their existing stack")
	} else {
		recs = append(recs, "Plan for a longer technical discovery phase")
	}
	if len(s.Manual) > 0 {
		insights = append(insights, fmt.Sprintf("Manual process indicators: %s", strings.Join(s.Manual, ", ")))
		recs = append(recs, "Quantify hours saved by automating manual workflows")
	}
	if len(s.AI) > 0 {
		insights = append(insights, "Already references automation or AI capabilities")
	}
	if len(insights) == 0 {
		insights = append(insights, "Limited public information on the website")
	}
	if len(recs) == 0 {
		recs = append(recs, "Schedule a discovery call to qualify further")
	}
	return insights, recs
}
