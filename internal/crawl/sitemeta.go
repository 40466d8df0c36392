package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/miekg/dns"
)

// MetaCollector gathers site-level signals that live outside the page graph:
// robots.txt, the sitemap, and the domain's SPF/DMARC TXT records.
type MetaCollector struct {
	fetcher  Fetcher
	resolver string
	logger   *slog.Logger
}

// NewMetaCollector builds a collector that shares the crawl Fetcher. resolver
// is a host:port DNS server; empty falls back to the system configuration.
func NewMetaCollector(fetcher Fetcher, resolver string, logger *slog.Logger) *MetaCollector {
	return &MetaCollector{fetcher: fetcher, resolver: resolver, logger: logger}
}

// Collect fills result.Robots, result.Sitemap* and result.DNS. Every probe is
// best-effort: a failure leaves the corresponding zero value in place and
// never aborts the crawl.
func (m *MetaCollector) Collect(ctx context.Context, seed *url.URL, result *Result) {
	base := seed.Scheme + "://" + seed.Host

	m.collectRobots(ctx, base, result)
	m.collectSitemap(ctx, base, result)
	m.collectDNS(result.Domain, result)
}

func (m *MetaCollector) collectRobots(ctx context.Context, base string, result *Result) {
	fetched, err := m.fetcher.Fetch(ctx, base+"/robots.txt")
	if err != nil {
		if m.logger != nil {
			m.logger.Debug("robots.txt not available", "error", err)
		}
		return
	}
	result.Robots = RobotsInfo{
		Fetched:     true,
		StatusCode:  fetched.StatusCode,
		Content:     fetched.HTML,
		SitemapURLs: parseRobotsSitemaps(fetched.HTML),
	}
}

// parseRobotsSitemaps extracts Sitemap: directive targets, one per line,
// case-insensitively.
func parseRobotsSitemaps(content string) []string {
	var out []string
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if len(line) < 8 || !strings.EqualFold(line[:8], "sitemap:") {
			continue
		}
		target := strings.TrimSpace(line[8:])
		if target != "" {
			out = append(out, target)
		}
	}
	return out
}

func (m *MetaCollector) collectSitemap(ctx context.Context, base string, result *Result) {
	candidates := result.Robots.SitemapURLs
	if len(candidates) == 0 {
		candidates = []string{base + "/sitemap.xml"}
	}
	for _, candidate := range candidates {
		fetched, err := m.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		if fetched.StatusCode == 200 && (strings.Contains(fetched.HTML, "<urlset") || strings.Contains(fetched.HTML, "<sitemapindex")) {
			result.SitemapFound = true
			result.SitemapURL = candidate
			return
		}
	}
}

// collectDNS looks up the SPF record on the apex and the DMARC record on
// _dmarc.<domain>.
func (m *MetaCollector) collectDNS(domain string, result *Result) {
	if domain == "" {
		return
	}
	resolver := m.resolver
	if resolver == "" {
		if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
			resolver = conf.Servers[0] + ":" + conf.Port
		} else {
			return
		}
	}

	result.DNS.Checked = true
	for _, txt := range lookupTXT(resolver, domain) {
		if strings.HasPrefix(txt, "v=spf1") {
			result.DNS.HasSPF = true
		}
	}
	for _, txt := range lookupTXT(resolver, "_dmarc."+domain) {
		if strings.HasPrefix(txt, "v=DMARC1") {
			result.DNS.HasDMARC = true
		}
	}
}

func lookupTXT(resolver, name string) []string {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)

	client := new(dns.Client)
	resp, _, err := client.Exchange(msg, resolver)
	if err != nil || resp == nil {
		return nil
	}

	var out []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			out = append(out, strings.Join(txt.Txt, ""))
		}
	}
	return out
}
