package crawl

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParsePage extracts a PageRecord from a fetched page. Extraction is
// best-effort: malformed HTML never fails, missing elements are simply
// recorded as absent. Link classification uses the crawl's registrable
// domain, so www. and subdomain variants of the seed count as internal.
func ParsePage(fetched *FetchResult, pageURL, domain string) *PageRecord {
	rec := &PageRecord{
		URL:             pageURL,
		FinalURL:        fetched.FinalURL,
		StatusCode:      fetched.StatusCode,
		Proto:           fetched.Proto,
		RedirectCount:   fetched.RedirectCount,
		ResponseTime:    fetched.Elapsed,
		HTMLSize:        fetched.BodySize,
		HTML:            fetched.HTML,
		ContentType:     fetched.ContentType,
		Headers:         fetched.Headers,
		HTTPS:           strings.HasPrefix(pageURL, "https://"),
		Headings:        map[string][]string{},
		OGTags:          map[string]string{},
		TwitterTags:     map[string]string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fetched.HTML))
	if err != nil {
		return rec
	}

	base, _ := url.Parse(fetched.FinalURL)
	if base == nil {
		base, _ = url.Parse(pageURL)
	}

	rec.Title = strings.TrimSpace(doc.Find("title").First().Text())
	rec.MetaDescription = metaContent(doc, "description")
	rec.MetaRobots = metaContent(doc, "robots")

	canonicals := doc.Find(`link[rel="canonical"]`)
	rec.CanonicalCount = canonicals.Length()
	rec.Canonical, _ = canonicals.First().Attr("href")

	if charsetVal, ok := doc.Find("meta[charset]").First().Attr("charset"); ok {
		rec.MetaCharset = strings.TrimSpace(charsetVal)
	}
	rec.Lang, _ = doc.Find("html").First().Attr("lang")

	if viewport := doc.Find(`meta[name="viewport"]`).First(); viewport.Length() > 0 {
		rec.HasViewport = true
		rec.ViewportContent, _ = viewport.Attr("content")
	}

	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			rec.Headings[level] = append(rec.Headings[level], strings.TrimSpace(s.Text()))
		})
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, altSet := s.Attr("alt")
		title, _ := s.Attr("title")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		loading, _ := s.Attr("loading")
		rec.Images = append(rec.Images, Image{Src: src, Alt: alt, Title: title, Width: width, Height: height, Loading: loading})
		if !altSet || strings.TrimSpace(alt) == "" {
			rec.AltMissingImages = append(rec.AltMissingImages, src)
		}
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if prop, ok := s.Attr("property"); ok && strings.HasPrefix(prop, "og:") {
			rec.OGTags[prop] = content
		}
		if name, ok := s.Attr("name"); ok && strings.HasPrefix(name, "twitter:") {
			rec.TwitterTags[name] = content
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if body := strings.TrimSpace(s.Text()); body != "" {
			rec.SchemaBlocks = append(rec.SchemaBlocks, body)
		}
	})

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			rec.Paragraphs = append(rec.Paragraphs, text)
		}
	})
	rec.WordCount = len(strings.Fields(doc.Find("body").Text()))

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || base == nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		if RegistrableDomain(abs.Hostname()) == domain {
			rec.InternalLinks = append(rec.InternalLinks, abs.String())
		} else {
			rec.ExternalLinks = append(rec.ExternalLinks, abs.String())
		}
	})

	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		rec.Scripts = append(rec.Scripts, src)
		_, async := s.Attr("async")
		_, deferred := s.Attr("defer")
		if !async && !deferred {
			rec.BlockingScripts++
		}
	})
	rec.DOMNodes = doc.Find("*").Length()
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		rec.Stylesheets = append(rec.Stylesheets, href)
	})
	rec.HreflangCount = doc.Find("link[hreflang]").Length()

	return rec
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}
