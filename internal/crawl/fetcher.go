package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// FetchErrorKind classifies why a page fetch failed.
type FetchErrorKind string

const (
	FetchTimeout          FetchErrorKind = "timeout"
	FetchDNS              FetchErrorKind = "dns"
	FetchConnection       FetchErrorKind = "connection"
	FetchHTTPError        FetchErrorKind = "http_error"
	FetchTooLarge         FetchErrorKind = "too_large"
	FetchTooManyRedirects FetchErrorKind = "too_many_redirects"
)

// FetchError is a classified page fetch failure. The crawler records it as a
// PageFailure and keeps going; it never aborts a crawl on its own.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPError {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// FetchResult is one page retrieval: decoded HTML plus response metadata.
type FetchResult struct {
	HTML          string
	StatusCode    int
	Proto         string
	Headers       http.Header
	ContentType   string
	FinalURL      string
	RedirectCount int
	Elapsed       time.Duration
	BodySize      int
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

const maxRedirects = 5

var errTooManyRedirects = errors.New("too many redirects")

// HTTPFetcher implements Fetcher with a shared http.Client: capped body
// size, at most five redirects with the chain length surfaced, and a
// transport that refuses connections to private or reserved IP ranges.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTPFetcher returns a production fetcher. timeout bounds the whole
// request including body read; maxBody caps the response size in bytes.
func NewHTTPFetcher(timeout time.Duration, maxBody int64, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		userAgent: userAgent,
		maxBody:   maxBody,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         safeDialer().DialContext,
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return fmt.Errorf("redirect to non-http(s) scheme blocked: %s", req.URL.Scheme)
				}
				return nil
			},
		},
	}
}

// Fetch retrieves targetURL. Responses with status >= 400 are failures of
// kind http_error; the status code is retained on the error.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchConnection, URL: targetURL, Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(targetURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read one byte past the cap so oversized bodies are detected rather
	// than silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	elapsed := time.Since(start)
	if err != nil {
		return nil, classifyFetchError(targetURL, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, &FetchError{Kind: FetchTooLarge, URL: targetURL}
	}

	if resp.StatusCode >= 400 {
		return nil, &FetchError{Kind: FetchHTTPError, URL: targetURL, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	html, err := decodeBody(body, contentType)
	if err != nil {
		// Undecodable charset: fall back to the raw bytes.
		html = string(body)
	}

	redirects := 0
	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
		if finalURL != targetURL {
			redirects = countRedirects(resp)
		}
	}

	return &FetchResult{
		HTML:          html,
		StatusCode:    resp.StatusCode,
		Proto:         resp.Proto,
		Headers:       resp.Header,
		ContentType:   contentType,
		FinalURL:      finalURL,
		RedirectCount: redirects,
		Elapsed:       elapsed,
		BodySize:      len(body),
	}, nil
}

// countRedirects walks the response chain set up by net/http to measure how
// many hops the fetch took.
func countRedirects(resp *http.Response) int {
	n := 0
	for prev := resp.Request.Response; prev != nil; n++ {
		if prev.Request == nil {
			break
		}
		prev = prev.Request.Response
	}
	return n
}

// decodeBody converts the body to UTF-8 using the charset from the
// Content-Type header or the document itself.
func decodeBody(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(strings.NewReader(string(body)), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func classifyFetchError(url string, err error) *FetchError {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded):
		return &FetchError{Kind: FetchTimeout, URL: url, Cause: err}
	case errors.Is(err, errTooManyRedirects):
		return &FetchError{Kind: FetchTooManyRedirects, URL: url, Cause: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &FetchError{Kind: FetchDNS, URL: url, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: FetchTimeout, URL: url, Cause: err}
	}

	return &FetchError{Kind: FetchConnection, URL: url, Cause: err}
}
