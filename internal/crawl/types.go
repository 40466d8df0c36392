package crawl

import (
	"net/http"
	"time"
)

// Image is one <img> element found on a page.
type Image struct {
	Src     string
	Alt     string
	Title   string
	Width   string
	Height  string
	Loading string // value of the loading attribute, e.g. "lazy"
}

// PageRecord holds everything extracted from one successfully crawled page.
// Records are created once during the crawl and never mutated afterwards; the
// check phase reads them concurrently without locking.
type PageRecord struct {
	// URL is the normalized URL the page was fetched under; unique per crawl.
	URL string
	// FinalURL is where the fetch landed after redirects.
	FinalURL      string
	StatusCode    int
	Proto         string // e.g. "HTTP/2.0"
	RedirectCount int
	ResponseTime  time.Duration
	HTMLSize      int

	HTML        string
	ContentType string
	Headers     http.Header

	Title           string
	MetaDescription string
	MetaRobots      string
	Canonical       string
	CanonicalCount  int
	MetaCharset     string
	Lang            string

	HasViewport     bool
	ViewportContent string
	HTTPS           bool

	// Headings maps "h1".."h6" to the heading texts in document order.
	Headings map[string][]string

	WordCount  int
	Paragraphs []string

	OGTags      map[string]string
	TwitterTags map[string]string
	// SchemaBlocks are the raw JSON-LD script bodies.
	SchemaBlocks []string

	Images           []Image
	AltMissingImages []string

	InternalLinks []string
	ExternalLinks []string
	Scripts       []string
	Stylesheets   []string
	HreflangCount int

	// BlockingScripts counts external scripts loaded without async or defer.
	BlockingScripts int
	// DOMNodes is the total element count of the parsed document.
	DOMNodes int
}

// H1 returns the page's first-level headings.
func (p *PageRecord) H1() []string { return p.Headings["h1"] }

// PageFailure records a page that could not be fetched. Failures stay out of
// Pages but remain visible as crawl-health metadata.
type PageFailure struct {
	URL        string
	Kind       FetchErrorKind
	StatusCode int
	Message    string
}

// RobotsInfo is what the crawler learned from /robots.txt.
type RobotsInfo struct {
	Fetched    bool
	StatusCode int
	Content    string
	// SitemapURLs are the Sitemap: directives found in robots.txt.
	SitemapURLs []string
}

// DNSInfo carries the seed domain's mail-trust TXT records, collected once
// per crawl.
type DNSInfo struct {
	Checked  bool
	HasSPF   bool
	HasDMARC bool
}

// Result is the complete crawl of one audit: every fetched page plus
// site-level metadata. It is built by a single producer and handed to the
// check phase read-only.
type Result struct {
	SeedURL string
	// Domain is the seed's registrable domain; the crawl never leaves it.
	Domain string

	// Pages holds successfully fetched pages in discovery order; the seed
	// page is always first when it succeeded.
	Pages    []PageRecord
	Failures []PageFailure

	Robots       RobotsInfo
	SitemapFound bool
	SitemapURL   string
	DNS          DNSInfo

	PagesAttempted int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// TotalLoadTime sums the response time of every fetched page.
func (r *Result) TotalLoadTime() time.Duration {
	var total time.Duration
	for i := range r.Pages {
		total += r.Pages[i].ResponseTime
	}
	return total
}

// AvgLoadTime is the mean page response time, zero for an empty crawl.
func (r *Result) AvgLoadTime() time.Duration {
	if len(r.Pages) == 0 {
		return 0
	}
	return r.TotalLoadTime() / time.Duration(len(r.Pages))
}
