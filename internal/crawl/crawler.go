package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoPages is returned when not a single page of the target site could be
// fetched.
var ErrNoPages = errors.New("crawl: no page could be fetched")

// Crawler performs a bounded breadth-first traversal of one site. Traversal
// never leaves the seed's registrable domain, never follows non-http(s)
// schemes, and skips common non-HTML resources by extension.
type Crawler struct {
	fetcher Fetcher
	meta    *MetaCollector
	workers int
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewCrawler builds a Crawler. workers bounds concurrent page fetches;
// rps paces requests against the target site. meta may be nil to skip
// site-level metadata collection (tests).
func NewCrawler(fetcher Fetcher, meta *MetaCollector, workers int, rps float64, logger *slog.Logger) *Crawler {
	if workers < 1 {
		workers = 1
	}
	if rps <= 0 {
		rps = 2
	}
	return &Crawler{
		fetcher: fetcher,
		meta:    meta,
		workers: workers,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

// fetchOutcome is one worker's result for one frontier URL.
type fetchOutcome struct {
	url  string
	page *PageRecord
	fail *PageFailure
}

// Crawl walks the site from seedURL until the frontier is exhausted or
// maxPages pages have been fetched. The seed page, when reachable, is always
// Pages[0]. A single page failure is recorded and traversal continues;
// Crawl fails only when zero pages succeed.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, maxPages int) (*Result, error) {
	seed, ok := NormalizeURL(seedURL)
	if !ok {
		return nil, errors.New("crawl: invalid seed URL")
	}
	parsed, err := url.Parse(seed)
	if err != nil {
		return nil, errors.New("crawl: invalid seed URL")
	}

	result := &Result{
		SeedURL:   seed,
		Domain:    RegistrableDomain(parsed.Hostname()),
		StartedAt: time.Now(),
	}

	if c.meta != nil {
		c.meta.Collect(ctx, parsed, result)
	}

	// The seed is fetched alone so the homepage is first in Pages and its
	// links seed the frontier before workers fan out.
	visited := map[string]bool{seed: true}
	var frontier []string

	outcome := c.fetchOne(ctx, seed, result.Domain)
	result.PagesAttempted++
	if outcome.page != nil {
		result.Pages = append(result.Pages, *outcome.page)
		frontier = c.expand(outcome.page, visited, frontier)
	} else if outcome.fail != nil {
		result.Failures = append(result.Failures, *outcome.fail)
	}

	c.runPool(ctx, result, visited, frontier, maxPages)

	result.FinishedAt = time.Now()
	if len(result.Pages) == 0 {
		return result, ErrNoPages
	}
	return result, nil
}

// runPool drains the frontier with a fixed worker pool. The coordinator
// goroutine is the only writer of the visited set and frontier, which makes
// the check-and-mark of newly discovered URLs atomic without locking; the
// workers only fetch and parse.
func (c *Crawler) runPool(ctx context.Context, result *Result, visited map[string]bool, frontier []string, maxPages int) {
	if len(frontier) == 0 || len(result.Pages) >= maxPages {
		return
	}

	jobs := make(chan string)
	results := make(chan fetchOutcome)

	var wg sync.WaitGroup
	for range c.workers {
		wg.Go(func() {
			for u := range jobs {
				results <- c.fetchOne(ctx, u, result.Domain)
			}
		})
	}

	inFlight := 0
	cancelled := false
	done := ctx.Done()
	for {
		// Dispatch while frontier URLs remain and the pages already fetched
		// plus those in flight stay under the ceiling.
		var dispatch chan string
		var next string
		if !cancelled && len(frontier) > 0 && len(result.Pages)+inFlight < maxPages {
			dispatch = jobs
			next = frontier[0]
		}

		if dispatch == nil && inFlight == 0 {
			break
		}

		select {
		case dispatch <- next:
			frontier = frontier[1:]
			inFlight++
			result.PagesAttempted++

		case out := <-results:
			inFlight--
			if out.page != nil {
				if len(result.Pages) < maxPages {
					result.Pages = append(result.Pages, *out.page)
					frontier = c.expand(out.page, visited, frontier)
				}
			} else if out.fail != nil {
				result.Failures = append(result.Failures, *out.fail)
			}

		case <-done:
			// Cooperative cancellation: stop dispatching, let in-flight
			// fetches finish against their own deadline. The channel is
			// nilled so the select blocks on the remaining results instead
			// of spinning on the closed done channel.
			cancelled = true
			done = nil
		}
	}

	close(jobs)
	go func() {
		wg.Wait()
		close(results)
	}()
	for range results {
		// drain
	}
}

// fetchOne fetches and parses a single URL, converting errors into recorded
// failures.
func (c *Crawler) fetchOne(ctx context.Context, pageURL, domain string) fetchOutcome {
	if err := c.limiter.Wait(ctx); err != nil {
		return fetchOutcome{url: pageURL, fail: &PageFailure{URL: pageURL, Kind: FetchTimeout, Message: err.Error()}}
	}

	fetched, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		fail := &PageFailure{URL: pageURL, Message: err.Error()}
		var fe *FetchError
		if errors.As(err, &fe) {
			fail.Kind = fe.Kind
			fail.StatusCode = fe.StatusCode
		} else {
			fail.Kind = FetchConnection
		}
		if c.logger != nil {
			c.logger.Warn("page fetch failed", "url", pageURL, "kind", string(fail.Kind))
		}
		return fetchOutcome{url: pageURL, fail: fail}
	}

	page := ParsePage(fetched, pageURL, domain)
	if c.logger != nil {
		c.logger.Debug("page crawled", "url", pageURL, "status", page.StatusCode, "elapsed", fetched.Elapsed.String())
	}
	return fetchOutcome{url: pageURL, page: page}
}

// expand appends the page's not-yet-seen internal links to the frontier in
// discovery order.
func (c *Crawler) expand(page *PageRecord, visited map[string]bool, frontier []string) []string {
	for _, link := range page.InternalLinks {
		normalized, ok := NormalizeURL(link)
		if !ok || visited[normalized] || skippableResource(normalized) {
			continue
		}
		visited[normalized] = true
		frontier = append(frontier, normalized)
	}
	return frontier
}
