package model

import "strings"

// PageKind is the role a fetched page plays in lead assessment.
type PageKind string

const (
	PageHome    PageKind = "home"
	PageAbout   PageKind = "about"
	PagePricing PageKind = "pricing"
	PageCareers PageKind = "careers"
	PageContact PageKind = "contact"
	PageBlog    PageKind = "blog"
	PageOther   PageKind = "other"
)

// kindBySegment maps the first path segment to a page kind.
var kindBySegment = map[string]PageKind{
	"":           PageHome,
	"about":      PageAbout,
	"about-us":   PageAbout,
	"company":    PageAbout,
	"pricing":    PagePricing,
	"plans":      PagePricing,
	"careers":    PageCareers,
	"jobs":       PageCareers,
	"contact":    PageContact,
	"contact-us": PageContact,
	"blog":       PageBlog,
	"news":       PageBlog,
	"insights":   PageBlog,
}

// KindFromPath classifies a URL path such as "/pricing/" by its first segment.
func KindFromPath(p string) PageKind {
	p = strings.Trim(strings.ToLower(p), "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	if k, ok := kindBySegment[p]; ok {
		return k
	}
	return PageOther
}

// CrawledPage represents a fetched page.
type CrawledPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Markdown   string `json:"markdown"`
	StatusCode int    `json:"status_code"`
}
