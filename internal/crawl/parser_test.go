package crawl

import (
	"net/http"
	"testing"
	"time"
)

const sampleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Acme Widgets — Home</title>
<meta name="description" content="Quality widgets since 1999.">
<meta name="robots" content="index, follow">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="https://acme.com/">
<link rel="stylesheet" href="/css/site.css">
<link rel="alternate" hreflang="de" href="https://acme.com/de/">
<meta property="og:title" content="Acme Widgets">
<meta property="og:image" content="https://acme.com/og.png">
<meta name="twitter:card" content="summary">
<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
</head>
<body>
<h1>Welcome to Acme</h1>
<h2>Our widgets</h2>
<h2>Our story</h2>
<p>We make the best widgets.</p>
<p>Really good ones.</p>
<img src="/widget.png" alt="A widget">
<img src="/naked.png">
<img src="/blank.png" alt="  ">
<a href="/products">Products</a>
<a href="https://acme.com/about">About</a>
<a href="https://partner.io/acme">Partner</a>
<a href="mailto:sales@acme.com">Email us</a>
<script src="/js/app.js"></script>
</body>
</html>`

func samplePage(t *testing.T) *PageRecord {
	t.Helper()
	fetched := &FetchResult{
		HTML:        sampleHTML,
		StatusCode:  200,
		Proto:       "HTTP/2.0",
		Headers:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		ContentType: "text/html; charset=utf-8",
		FinalURL:    "https://acme.com/",
		Elapsed:     42 * time.Millisecond,
		BodySize:    len(sampleHTML),
	}
	return ParsePage(fetched, "https://acme.com/", "acme.com")
}

func TestParsePageHead(t *testing.T) {
	p := samplePage(t)

	if p.Title != "Acme Widgets — Home" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.MetaDescription != "Quality widgets since 1999." {
		t.Errorf("MetaDescription = %q", p.MetaDescription)
	}
	if p.MetaRobots != "index, follow" {
		t.Errorf("MetaRobots = %q", p.MetaRobots)
	}
	if p.Canonical != "https://acme.com/" || p.CanonicalCount != 1 {
		t.Errorf("Canonical = %q (count %d)", p.Canonical, p.CanonicalCount)
	}
	if p.MetaCharset != "utf-8" {
		t.Errorf("MetaCharset = %q", p.MetaCharset)
	}
	if p.Lang != "en" {
		t.Errorf("Lang = %q", p.Lang)
	}
	if !p.HasViewport || p.ViewportContent != "width=device-width, initial-scale=1" {
		t.Errorf("viewport = %v %q", p.HasViewport, p.ViewportContent)
	}
	if p.HreflangCount != 1 {
		t.Errorf("HreflangCount = %d", p.HreflangCount)
	}
}

func TestParsePageStructure(t *testing.T) {
	p := samplePage(t)

	if got := p.H1(); len(got) != 1 || got[0] != "Welcome to Acme" {
		t.Errorf("H1() = %v", got)
	}
	if len(p.Headings["h1"]) != 1 || len(p.Headings["h2"]) != 2 {
		t.Errorf("headings = %v", p.Headings)
	}
	if len(p.Paragraphs) != 2 {
		t.Errorf("Paragraphs = %v", p.Paragraphs)
	}
	if p.WordCount == 0 {
		t.Error("WordCount = 0")
	}
	if len(p.SchemaBlocks) != 1 {
		t.Fatalf("SchemaBlocks = %v", p.SchemaBlocks)
	}
}

func TestParsePageImages(t *testing.T) {
	p := samplePage(t)

	if len(p.Images) != 3 {
		t.Fatalf("got %d images, want 3", len(p.Images))
	}
	// Missing alt attribute and whitespace-only alt both count as missing.
	if len(p.AltMissingImages) != 2 {
		t.Errorf("AltMissingImages = %v", p.AltMissingImages)
	}
}

func TestParsePageLinks(t *testing.T) {
	p := samplePage(t)

	wantInternal := []string{"https://acme.com/products", "https://acme.com/about"}
	if len(p.InternalLinks) != len(wantInternal) {
		t.Fatalf("InternalLinks = %v", p.InternalLinks)
	}
	for i, want := range wantInternal {
		if p.InternalLinks[i] != want {
			t.Errorf("InternalLinks[%d] = %q, want %q", i, p.InternalLinks[i], want)
		}
	}
	if len(p.ExternalLinks) != 1 || p.ExternalLinks[0] != "https://partner.io/acme" {
		t.Errorf("ExternalLinks = %v", p.ExternalLinks)
	}
}

func TestParsePageSocialTags(t *testing.T) {
	p := samplePage(t)

	if p.OGTags["og:title"] != "Acme Widgets" || p.OGTags["og:image"] == "" {
		t.Errorf("OGTags = %v", p.OGTags)
	}
	if p.TwitterTags["twitter:card"] != "summary" {
		t.Errorf("TwitterTags = %v", p.TwitterTags)
	}
}

func TestParsePageMalformedHTML(t *testing.T) {
	fetched := &FetchResult{
		HTML:       "<html><title>Broken</title><body><h1>Still here",
		StatusCode: 200,
		FinalURL:   "https://acme.com/broken",
	}
	p := ParsePage(fetched, "https://acme.com/broken", "acme.com")
	if p.Title != "Broken" {
		t.Errorf("Title = %q", p.Title)
	}
	if got := p.H1(); len(got) != 1 || got[0] != "Still here" {
		t.Errorf("H1() = %v", got)
	}
}

func TestSitemapDirectiveParsing(t *testing.T) {
	robots := "User-agent: *\nDisallow: /admin\nSitemap: https://acme.com/sitemap.xml\nsitemap: https://acme.com/news.xml\n"
	got := parseRobotsSitemaps(robots)
	if len(got) != 2 || got[0] != "https://acme.com/sitemap.xml" || got[1] != "https://acme.com/news.xml" {
		t.Errorf("parseRobotsSitemaps = %v", got)
	}
}
