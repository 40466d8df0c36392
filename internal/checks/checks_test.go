package checks

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mjseo/auditor/internal/crawl"
	"github.com/mjseo/auditor/internal/model"
)

// healthySite is a small crawl result that should clear most page-derived
// checks: HTTPS, fast, well-tagged head, schema, viewport, internal links.
func healthySite() *crawl.Result {
	page := func(u, title string) crawl.PageRecord {
		return crawl.PageRecord{
			URL:             u,
			FinalURL:        u,
			StatusCode:      200,
			Proto:           "HTTP/2.0",
			ResponseTime:    300 * time.Millisecond,
			HTMLSize:        20_000,
			HTML:            `<html lang="en"><head><link rel="preload"></head><body><h1>` + title + `</h1><h2>Details</h2></body></html>`,
			Headers:         http.Header{"Cache-Control": {"max-age=3600"}, "Content-Encoding": {"br"}, "Strict-Transport-Security": {"max-age=63072000"}, "Content-Security-Policy": {"default-src 'self'"}, "X-Frame-Options": {"DENY"}, "X-Content-Type-Options": {"nosniff"}},
			Title:           title + " | Example Store, purveyors of fine things",
			MetaDescription: "A meta description long enough to satisfy the usual length guidance for search result snippets shown to users.",
			MetaRobots:      "index, follow",
			Canonical:       u,
			CanonicalCount:  1,
			MetaCharset:     "utf-8",
			Lang:            "en",
			HasViewport:     true,
			ViewportContent: "width=device-width, initial-scale=1",
			HTTPS:           true,
			Headings:        map[string][]string{"h1": {title}, "h2": {"Details"}},
			WordCount:       950,
			Paragraphs:      []string{"Short sentences help. They read well. People like them."},
			OGTags:          map[string]string{"og:title": title},
			TwitterTags:     map[string]string{"twitter:card": "summary"},
			SchemaBlocks:    []string{`{"@context":"https://schema.org","@type":"Organization"}`},
			Images: []crawl.Image{
				{Src: "https://example.com/a.webp", Alt: "A product photographed on a desk", Loading: "lazy"},
			},
			InternalLinks: []string{"https://example.com/", "https://example.com/about", "https://example.com/products"},
			Scripts:       []string{"https://example.com/app.js"},
			HreflangCount: 2,
			DOMNodes:      400,
		}
	}
	home := page("https://example.com/", "Welcome")
	about := page("https://example.com/about", "About")
	products := page("https://example.com/products", "Products")
	return &crawl.Result{
		SeedURL: "https://example.com/",
		Domain:  "example.com",
		Pages:   []crawl.PageRecord{home, about, products},
		Robots: crawl.RobotsInfo{
			Fetched:     true,
			StatusCode:  200,
			Content:     "User-agent: *\nDisallow: /admin\nSitemap: https://example.com/sitemap.xml\n",
			SitemapURLs: []string{"https://example.com/sitemap.xml"},
		},
		SitemapFound: true,
		SitemapURL:   "https://example.com/sitemap.xml",
		DNS:          crawl.DNSInfo{Checked: true, HasSPF: true, HasDMARC: true},
	}
}

// brokenSite is the opposite fixture: plain HTTP, slow, bare head, no
// sitemap or robots.
func brokenSite() *crawl.Result {
	return &crawl.Result{
		SeedURL: "http://example.org/",
		Domain:  "example.org",
		Pages: []crawl.PageRecord{{
			URL:          "http://example.org/",
			FinalURL:     "http://example.org/",
			StatusCode:   200,
			Proto:        "HTTP/1.1",
			ResponseTime: 4 * time.Second,
			HTML:         "<html><body><p>hi</p></body></html>",
			Headers:      http.Header{},
			Headings:     map[string][]string{},
			WordCount:    40,
			DOMNodes:     2200,
		}},
	}
}

func findCheck(t *testing.T, catalog []Check, name, category string) Check {
	t.Helper()
	for _, c := range catalog {
		if c.Name == name && c.Category == category {
			return c
		}
	}
	t.Fatalf("check %q not in catalog", name)
	return Check{}
}

func TestRegistryShape(t *testing.T) {
	catalog := Registry()
	if len(catalog) != 132 {
		t.Fatalf("catalog size = %d, want 132", len(catalog))
	}
	for i, c := range catalog {
		if c.Name == "" || c.Category == "" || c.Evaluate == nil {
			t.Errorf("catalog[%d] incomplete: %+v", i, c)
		}
		if c.Impact < 1 || c.Impact > 100 {
			t.Errorf("catalog[%d] %q impact %d out of range", i, c.Name, c.Impact)
		}
	}

	// Catalog order is stable across calls; findings are keyed by position.
	again := Registry()
	for i := range catalog {
		if catalog[i].Name != again[i].Name {
			t.Fatalf("catalog order changed at %d: %q vs %q", i, catalog[i].Name, again[i].Name)
		}
	}
}

func TestRegistryCategoriesGrouped(t *testing.T) {
	wantOrder := []string{
		CategoryTechnical, CategoryPerformance, CategoryOnPage, CategoryContent,
		CategorySocial, CategoryOffPage, CategoryAnalytics, CategoryGeoAeo, CategoryAdvanced,
	}
	var seen []string
	for _, c := range Registry() {
		if len(seen) == 0 || seen[len(seen)-1] != c.Category {
			seen = append(seen, c.Category)
		}
	}
	if len(seen) != len(wantOrder) {
		t.Fatalf("categories not contiguous: %v", seen)
	}
	for i := range wantOrder {
		if seen[i] != wantOrder[i] {
			t.Fatalf("category %d = %q, want %q", i, seen[i], wantOrder[i])
		}
	}
}

func TestRunnerFindingsInCatalogOrder(t *testing.T) {
	catalog := Registry()
	r := NewRunner(catalog, 8, nil)
	findings, err := r.Run(context.Background(), healthySite())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(findings) != len(catalog) {
		t.Fatalf("got %d findings, want %d", len(findings), len(catalog))
	}
	for i, f := range findings {
		if f.CheckName != catalog[i].Name {
			t.Fatalf("finding %d = %q, want %q", i, f.CheckName, catalog[i].Name)
		}
		if f.ImpactScore != catalog[i].Impact {
			t.Errorf("finding %q impact = %d, want %d", f.CheckName, f.ImpactScore, catalog[i].Impact)
		}
	}
}

func TestRunnerEmptySite(t *testing.T) {
	r := NewRunner(Registry(), 4, nil)
	findings, err := r.Run(context.Background(), &crawl.Result{Domain: "example.com"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	valid := map[model.CheckStatus]bool{
		model.StatusPass: true, model.StatusFail: true, model.StatusWarning: true,
	}
	for _, f := range findings {
		if !valid[f.Status] {
			t.Errorf("%q: invalid status %q on empty crawl", f.CheckName, f.Status)
		}
		if f.CurrentValue == "" {
			t.Errorf("%q: empty current value", f.CheckName)
		}
	}
}

func TestRunnerRecoversPanics(t *testing.T) {
	catalog := []Check{
		{Name: "ok", Category: "t", Impact: 10, Evaluate: func(*crawl.Result) Outcome { return pass("fine") }},
		{Name: "boom", Category: "t", Impact: 20, Evaluate: func(*crawl.Result) Outcome { panic("nil map write") }},
	}
	r := NewRunner(catalog, 2, nil)
	findings, err := r.Run(context.Background(), healthySite())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if findings[0].Status != model.StatusPass {
		t.Errorf("finding 0 status = %q", findings[0].Status)
	}
	if findings[1].Status != model.StatusWarning {
		t.Errorf("panicked check status = %q, want warning", findings[1].Status)
	}
	if findings[1].ImpactScore != 20 {
		t.Errorf("panicked check impact = %d, want 20", findings[1].ImpactScore)
	}
}

func TestRunnerHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(Registry(), 4, nil)
	if _, err := r.Run(ctx, healthySite()); err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestHTTPSCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Website not using HTTPS", CategoryTechnical)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("https site = %q, want pass", got)
	}
	if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
		t.Errorf("http site = %q, want fail", got)
	}
}

func TestViewportCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Viewport meta tag missing", CategoryTechnical)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("viewport present = %q, want pass", got)
	}
	if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
		t.Errorf("viewport absent = %q, want fail", got)
	}
}

func TestSitemapCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Sitemap.xml missing or inaccessible", CategoryAdvanced)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("sitemap found = %q, want pass", got)
	}
	if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
		t.Errorf("sitemap missing = %q, want fail", got)
	}
}

func TestRobotsCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Robots.txt missing or misconfigured", CategoryAdvanced)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("robots present = %q, want pass", got)
	}
	site := healthySite()
	site.Robots.Content = "User-agent: *\nDisallow: /\n"
	out := c.Evaluate(site)
	if out.Status != model.StatusFail {
		t.Errorf("blanket disallow = %q, want fail", out.Status)
	}
	if !strings.Contains(out.CurrentValue, "disallows all") {
		t.Errorf("current value %q should name the blanket disallow", out.CurrentValue)
	}
}

func TestSecurityHeadersCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Security headers missing", CategoryAdvanced)
	out := c.Evaluate(healthySite())
	if out.Status != model.StatusPass {
		t.Errorf("all headers set = %q, want pass", out.Status)
	}
	if !strings.Contains(out.CurrentValue, "SPF: true") || !strings.Contains(out.CurrentValue, "DMARC: true") {
		t.Errorf("current value %q should report mail-trust records", out.CurrentValue)
	}
	out = c.Evaluate(brokenSite())
	if out.Status != model.StatusFail {
		t.Errorf("no headers = %q, want fail", out.Status)
	}
	if !strings.Contains(out.CurrentValue, "missing:") {
		t.Errorf("current value %q should name missing headers", out.CurrentValue)
	}
}

func TestSlowLoadCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Slow page load time (>3 seconds)", CategoryPerformance)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("fast site = %q, want pass", got)
	}
	if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
		t.Errorf("4s page = %q, want fail", got)
	}
}

func TestDOMSizeChecks(t *testing.T) {
	for _, cat := range []string{CategoryPerformance, CategoryAdvanced} {
		c := findCheck(t, Registry(), "Excessive DOM size (>1500 nodes)", cat)
		if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
			t.Errorf("%s: small DOM = %q, want pass", cat, got)
		}
		if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
			t.Errorf("%s: 2200 nodes = %q, want fail", cat, got)
		}
	}
}

func TestTitleCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Meta title issues", CategoryOnPage)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusPass {
		t.Errorf("good titles = %q, want pass", got)
	}
	out := c.Evaluate(brokenSite())
	if out.Status != model.StatusFail {
		t.Errorf("missing title = %q, want fail", out.Status)
	}
}

func TestImageAltCheckNamesOffendingImages(t *testing.T) {
	site := brokenSite()
	site.Pages[0].Images = []crawl.Image{{Src: "https://example.org/hero-banner.jpg"}}
	site.Pages[0].AltMissingImages = []string{"https://example.org/hero-banner.jpg"}

	c := findCheck(t, Registry(), "Images missing alt attributes", CategoryOnPage)
	out := c.Evaluate(site)
	if out.Status != model.StatusFail {
		t.Fatalf("0%% coverage = %q, want fail", out.Status)
	}
	if !strings.Contains(out.Cons, "https://example.org/hero-banner.jpg") {
		t.Errorf("cons does not name the offending image: %q", out.Cons)
	}
	if !strings.Contains(out.Solution, "hero-banner.jpg") {
		t.Errorf("solution does not name the offending image: %q", out.Solution)
	}
}

func TestOrganizationSchemaCheck(t *testing.T) {
	c := findCheck(t, Registry(), "Organization schema missing", CategoryGeoAeo)
	if got := c.Evaluate(healthySite()).Status; got != model.StatusFail {
		// healthySite pages don't embed "Organization" in HTML, only in
		// SchemaBlocks; this check scans raw HTML like the markup it targets.
		site := healthySite()
		for i := range site.Pages {
			site.Pages[i].HTML = strings.Replace(site.Pages[i].HTML, "</head>",
				`<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization"}</script></head>`, 1)
		}
		if got := c.Evaluate(site).Status; got != model.StatusPass {
			t.Errorf("org schema in HTML = %q, want pass", got)
		}
	}
	if got := c.Evaluate(brokenSite()).Status; got != model.StatusFail {
		t.Errorf("no org schema = %q, want fail", got)
	}
}

func TestNeedsDataChecksWarn(t *testing.T) {
	site := healthySite()
	for _, name := range []string{
		"Low Domain Authority (DA <30)",
		"Google Search Console not verified",
		"Not ranking in AI Overview/SGE",
		"WCAG accessibility violations",
		"Poor Cumulative Layout Shift (CLS >0.1)",
	} {
		var c Check
		for _, cand := range Registry() {
			if cand.Name == name {
				c = cand
				break
			}
		}
		if c.Evaluate == nil {
			t.Fatalf("check %q not found", name)
		}
		out := c.Evaluate(site)
		if out.Status != model.StatusWarning {
			t.Errorf("%q = %q, want warning even on a healthy site", name, out.Status)
		}
		if out.Solution == "" {
			t.Errorf("%q: warning without a solution", name)
		}
	}
}

func TestDisallowsAll(t *testing.T) {
	cases := []struct {
		robots string
		want   bool
	}{
		{"User-agent: *\nDisallow: /\n", true},
		{"User-agent: *\nDisallow: /admin\n", false},
		{"User-agent: badbot\nDisallow: /\n", false},
		{"", false},
		{"User-agent: *\nDisallow:\n", false},
	}
	for _, tc := range cases {
		if got := disallowsAll(tc.robots); got != tc.want {
			t.Errorf("disallowsAll(%q) = %t, want %t", tc.robots, got, tc.want)
		}
	}
}

func TestHostOf(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://cdn.example.com/app.js", "cdn.example.com"},
		{"http://example.com/x", "example.com"},
		{"//static.example.com/y.js", "static.example.com"},
		{"/local.js", ""},
		{"app.js", ""},
	}
	for _, tc := range cases {
		if got := hostOf(tc.in); got != tc.want {
			t.Errorf("hostOf(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
