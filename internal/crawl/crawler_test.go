package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

// siteFetcher serves canned pages keyed by normalized URL and records which
// URLs were requested.
type siteFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *siteFetcher) Fetch(_ context.Context, url string) (*FetchResult, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, &FetchError{Kind: FetchHTTPError, URL: url, StatusCode: 404}
	}
	return &FetchResult{
		HTML:       html,
		StatusCode: 200,
		Proto:      "HTTP/1.1",
		Headers:    http.Header{"Content-Type": []string{"text/html"}},
		FinalURL:   url,
		Elapsed:    10 * time.Millisecond,
		BodySize:   len(html),
	}, nil
}

func pageWithLinks(title string, links ...string) string {
	body := "<html><head><title>" + title + "</title></head><body>"
	for _, l := range links {
		body += fmt.Sprintf(`<a href=%q>link</a>`, l)
	}
	return body + "</body></html>"
}

func newTestCrawler(f Fetcher) *Crawler {
	return NewCrawler(f, nil, 3, 1000, nil)
}

func TestCrawlSeedFirst(t *testing.T) {
	f := &siteFetcher{pages: map[string]string{
		"https://example.com/":      pageWithLinks("Home", "/about", "/contact"),
		"https://example.com/about": pageWithLinks("About"),
		"https://example.com/contact": pageWithLinks("Contact"),
	}}

	res, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 20)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(res.Pages))
	}
	if res.Pages[0].URL != "https://example.com/" {
		t.Errorf("Pages[0] = %q, want the seed", res.Pages[0].URL)
	}
	if res.Domain != "example.com" {
		t.Errorf("Domain = %q", res.Domain)
	}
}

func TestCrawlStaysOnDomain(t *testing.T) {
	f := &siteFetcher{pages: map[string]string{
		"https://example.com/": pageWithLinks("Home",
			"https://example.com/about",
			"https://blog.example.com/post",
			"https://other.com/elsewhere",
		),
		"https://example.com/about":     pageWithLinks("About"),
		"https://blog.example.com/post": pageWithLinks("Post"),
	}}

	res, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 20)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	for _, u := range f.fetched {
		if u == "https://other.com/elsewhere" {
			t.Error("crawler left the seed domain")
		}
	}
	// The subdomain page counts as internal and gets crawled.
	if len(res.Pages) != 3 {
		t.Errorf("got %d pages, want 3 (subdomain included)", len(res.Pages))
	}
}

func TestCrawlRespectsPageLimit(t *testing.T) {
	pages := map[string]string{}
	var links []string
	for i := range 30 {
		u := fmt.Sprintf("/page-%d", i)
		links = append(links, u)
		pages["https://example.com"+u] = pageWithLinks(fmt.Sprintf("Page %d", i))
	}
	pages["https://example.com/"] = pageWithLinks("Home", links...)
	f := &siteFetcher{pages: pages}

	res, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 5)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(res.Pages) != 5 {
		t.Errorf("got %d pages, want exactly 5", len(res.Pages))
	}
}

func TestCrawlNoDuplicateFetches(t *testing.T) {
	// Every page links back to every other; each URL must be fetched once.
	f := &siteFetcher{pages: map[string]string{
		"https://example.com/":      pageWithLinks("Home", "/a", "/b"),
		"https://example.com/a":     pageWithLinks("A", "/", "/b", "/b#section", "/b?ref=a"),
		"https://example.com/b":     pageWithLinks("B", "/", "/a"),
	}}

	if _, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 20); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	seen := map[string]int{}
	for _, u := range f.fetched {
		seen[u]++
	}
	for u, n := range seen {
		if n > 1 {
			t.Errorf("%s fetched %d times", u, n)
		}
	}
}

func TestCrawlContinuesPastFailures(t *testing.T) {
	f := &siteFetcher{
		pages: map[string]string{
			"https://example.com/":      pageWithLinks("Home", "/broken", "/timeout", "/ok"),
			"https://example.com/ok":    pageWithLinks("OK"),
		},
		errs: map[string]error{
			"https://example.com/broken":  &FetchError{Kind: FetchHTTPError, URL: "https://example.com/broken", StatusCode: 500},
			"https://example.com/timeout": &FetchError{Kind: FetchTimeout, URL: "https://example.com/timeout"},
		},
	}

	res, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 20)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Errorf("got %d pages, want 2", len(res.Pages))
	}
	if len(res.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(res.Failures))
	}
	kinds := map[FetchErrorKind]bool{}
	for _, fail := range res.Failures {
		kinds[fail.Kind] = true
	}
	if !kinds[FetchHTTPError] || !kinds[FetchTimeout] {
		t.Errorf("failure kinds = %v", kinds)
	}
}

func TestCrawlUnreachableSeed(t *testing.T) {
	f := &siteFetcher{
		pages: map[string]string{},
		errs: map[string]error{
			"https://down.example.com/": &FetchError{Kind: FetchConnection, URL: "https://down.example.com/"},
		},
	}

	res, err := newTestCrawler(f).Crawl(context.Background(), "https://down.example.com/", 20)
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("err = %v, want ErrNoPages", err)
	}
	if len(res.Failures) != 1 {
		t.Errorf("got %d failures, want 1", len(res.Failures))
	}
}

func TestCrawlInvalidSeed(t *testing.T) {
	if _, err := newTestCrawler(&siteFetcher{}).Crawl(context.Background(), "not a url", 20); err == nil {
		t.Fatal("expected error for invalid seed")
	}
	if _, err := newTestCrawler(&siteFetcher{}).Crawl(context.Background(), "ftp://example.com/", 20); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

// cancelAfterFetcher cancels the crawl context once n fetches have started,
// so cancellation lands while the worker pool still has work queued.
type cancelAfterFetcher struct {
	inner  Fetcher
	cancel context.CancelFunc
	after  int

	mu    sync.Mutex
	calls int
}

func (f *cancelAfterFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	f.mu.Lock()
	f.calls++
	if f.calls == f.after {
		f.cancel()
	}
	f.mu.Unlock()
	return f.inner.Fetch(ctx, url)
}

func TestCrawlStopsOnCancel(t *testing.T) {
	pages := map[string]string{
		"https://example.com/": pageWithLinks("Home",
			"/a", "/b", "/c", "/d", "/e", "/f", "/g", "/h"),
	}
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		pages["https://example.com/"+p] = pageWithLinks(p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &cancelAfterFetcher{inner: &siteFetcher{pages: pages}, cancel: cancel, after: 2}

	res, err := newTestCrawler(f).Crawl(ctx, "https://example.com/", 20)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	// The seed landed before cancellation; the frontier was abandoned, so
	// the crawl must come back well short of the ceiling.
	if len(res.Pages) == 0 {
		t.Fatal("seed page lost")
	}
	if len(res.Pages) >= 9 {
		t.Errorf("crawled %d pages after cancellation, want an early stop", len(res.Pages))
	}
	if res.FinishedAt.IsZero() {
		t.Error("crawl did not finish cleanly")
	}
}

func TestCrawlSkipsBinaryResources(t *testing.T) {
	f := &siteFetcher{pages: map[string]string{
		"https://example.com/": pageWithLinks("Home", "/whitepaper.pdf", "/logo.png", "/about"),
		"https://example.com/about": pageWithLinks("About"),
	}}

	if _, err := newTestCrawler(f).Crawl(context.Background(), "https://example.com/", 20); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	for _, u := range f.fetched {
		if u == "https://example.com/whitepaper.pdf" || u == "https://example.com/logo.png" {
			t.Errorf("binary resource fetched: %s", u)
		}
	}
}
