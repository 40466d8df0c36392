package checks

import (
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

func advancedChecks() []Check {
	return []Check{
		{
			Name: "Robots.txt missing or misconfigured", Category: CategoryAdvanced, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if !site.Robots.Fetched || site.Robots.StatusCode != 200 {
					return fail("robots.txt not found").withAdvice(
						"Valid robots.txt with sitemap reference",
						"", "Potential crawl directive issues",
						"Proper robots.txt improves crawl efficiency by 10-20%",
						"Create/fix robots.txt with proper directives and sitemap location",
					).withEnhancements("Test with the Search Console robots.txt tester; include the sitemap location; block admin areas; allow critical resources.")
				}
				current := "robots.txt found"
				if len(site.Robots.SitemapURLs) > 0 {
					current = fmt.Sprintf("robots.txt found, %d sitemap reference(s)", len(site.Robots.SitemapURLs))
				}
				if disallowsAll(site.Robots.Content) {
					return fail("robots.txt disallows all crawling").withAdvice(
						"Valid robots.txt with sitemap reference",
						"", "The whole site is blocked from crawlers",
						"A blanket Disallow removes the site from search results",
						"Remove the 'Disallow: /' directive or scope it to private paths",
					)
				}
				return pass(current).withAdvice(
					"Valid robots.txt with sitemap reference",
					"Crawl directives in place", "", "", "")
			},
		},
		{
			Name: "Sitemap.xml missing or inaccessible", Category: CategoryAdvanced, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if site.SitemapFound {
					return pass(fmt.Sprintf("Sitemap found at %s", site.SitemapURL)).withAdvice(
						"Valid XML sitemap with all important pages",
						"Sitemap accessible to crawlers", "", "", "")
				}
				return fail("No XML sitemap found").withAdvice(
					"Valid XML sitemap with all important pages",
					"", "Reduced crawl efficiency",
					"An XML sitemap improves indexation speed by 30-50%",
					"Create an XML sitemap and submit it to Google Search Console",
				).withEnhancements("Generate the sitemap dynamically; include image sitemaps; keep it updated automatically; split at 50k URLs.")
			},
		},
		{
			Name: "Pagination tags missing (rel=next/prev)", Category: CategoryAdvanced, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				paginated := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, `rel="next"`, `rel="prev"`)
				})
				current := fmt.Sprintf("%d pages with pagination tags", len(paginated))
				if len(paginated) == 0 {
					return warn(current).withAdvice(
						"Proper pagination markup on paginated content",
						"", "Pagination may confuse search engines",
						"Proper pagination can improve indexation of paginated content by 15-25%",
						"Implement rel=next/prev or use a view-all page with canonical",
					).withEnhancements("Canonical to a view-all page; handle infinite scroll with URL changes; submit pagination in the sitemap.")
				}
				return pass(current).withAdvice(
					"Proper pagination markup on paginated content",
					"Proper pagination signals", "", "", "")
			},
		},
		{
			Name: "AMP implementation issues", Category: CategoryAdvanced, Impact: 55,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				amp := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "ampproject") ||
						strings.Contains(strings.ToLower(p.HTML), "<html amp")
				})
				return warn(fmt.Sprintf("%d AMP pages detected", len(amp))).withAdvice(
					"AMP for news/blog content (optional)",
					ifStr(len(amp) > 0, "Fast mobile loading"),
					"AMP is no longer required for Top Stories",
					"AMP provides minimal benefit now (0-5%); focus on Core Web Vitals instead",
					"AMP is optional; prioritize Core Web Vitals optimization instead",
				).withEnhancements("Focus on regular page speed; optimize Core Web Vitals; use modern web standards.")
			},
		},
		{
			Name: "Progressive Web App (PWA) optimization", Category: CategoryAdvanced, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				manifest := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, "manifest.json", "manifest.webmanifest")
				})
				sw := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, "service-worker", "serviceWorker")
				})
				current := fmt.Sprintf("Manifest: %t, Service worker: %t", len(manifest) > 0, len(sw) > 0)
				if len(manifest) > 0 && len(sw) > 0 {
					return pass(current).withAdvice(
						"Full PWA implementation", "App-like experience with offline functionality", "", "", "")
				}
				return warn(current).withAdvice(
					"Full PWA implementation",
					"", "Missing modern web capabilities",
					"PWA features improve engagement metrics, indirectly boosting rankings by 10-15%",
					"Implement a PWA with service worker, manifest and offline support",
				).withEnhancements("Add install prompts; implement offline mode; add push notifications.")
			},
		},
		{
			Name: "Security headers missing", Category: CategoryAdvanced, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				wanted := []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"}
				var present, missing []string
				for _, h := range wanted {
					if headerValue(site, h) != "" {
						present = append(present, h)
					} else {
						missing = append(missing, h)
					}
				}
				current := fmt.Sprintf("%d/%d security headers set", len(present), len(wanted))
				if len(missing) > 0 {
					current += " (missing: " + strings.Join(missing, ", ") + ")"
				}
				current += fmt.Sprintf("; SPF: %t, DMARC: %t", site.DNS.HasSPF, site.DNS.HasDMARC)
				out := fail(current)
				switch {
				case len(missing) == 0:
					out = pass(current)
				case len(present) >= 2:
					out = warn(current)
				}
				return out.withAdvice(
					"HSTS, CSP, X-Frame-Options, X-Content-Type-Options, plus SPF and DMARC DNS records",
					ifStr(len(present) > 0, strings.Join(present, ", ")+" present"),
					ifStr(len(missing) > 0, "Potential security vulnerabilities"),
					"Security headers indirectly affect trust and rankings (5-10%)",
					"Implement security headers: HSTS, CSP, X-Frame-Options",
				).withEnhancements("Add Strict-Transport-Security; implement a Content Security Policy; add X-Frame-Options: DENY; add X-Content-Type-Options: nosniff; add Referrer-Policy; publish SPF and DMARC records.")
			},
		},
		{
			Name: "Privacy policy missing or outdated", Category: CategoryAdvanced, Impact: 82,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				privacy := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(strings.ToLower(p.URL), "privacy")
				})
				linked := collectPages(site, func(p *crawl.PageRecord) bool {
					for _, l := range p.InternalLinks {
						if strings.Contains(strings.ToLower(l), "privacy") {
							return true
						}
					}
					return false
				})
				if len(privacy) == 0 && len(linked) == 0 {
					return fail("Not found").withAdvice(
						"Current, comprehensive privacy policy",
						"", "Legal risk; trust issues",
						"A privacy policy affects E-E-A-T, impacting rankings by 5-15%",
						"Create a comprehensive privacy policy meeting GDPR/CCPA requirements",
					).withEnhancements("Update for current laws; make it easily accessible; disclose cookies clearly.")
				}
				return pass("Privacy page found").withAdvice(
					"Current, comprehensive privacy policy", "Legal compliance", "", "", "")
			},
		},
		{
			Name: "Cookie consent not implemented", Category: CategoryAdvanced, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				consent := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "cookie") &&
						(strings.Contains(lower, "consent") || strings.Contains(lower, "accept"))
				})
				pct := ratio(len(consent), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with cookie consent", pct)
				out := pass(current)
				if pct < 50 {
					out = warn(current)
				}
				return out.withAdvice(
					"Cookie consent on all pages",
					ifStr(pct > 80, "GDPR/CCPA compliant"),
					ifStr(pct < 80, "Legal compliance issues"),
					"Legal compliance affects trust metrics (5-10% impact)",
					"Implement a cookie consent banner with proper controls",
				).withEnhancements("Offer granular consent options; make opt-out easy; respect Do Not Track.")
			},
		},
		{
			Name: "WCAG accessibility violations", Category: CategoryAdvanced, Impact: 78,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Accessibility audit required",
					"Conduct an accessibility audit and fix WCAG violations",
				).withAdvice("WCAG 2.1 AA compliance", "", "Potential accessibility barriers",
					"Accessibility improvements can boost rankings by 8-12%",
					"Conduct an accessibility audit and fix WCAG violations",
				).withEnhancements("Use ARIA labels properly; ensure keyboard navigation; provide text alternatives; maintain color contrast ratios.")
			},
		},
		{
			Name: "Color contrast issues", Category: CategoryAdvanced, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Contrast audit required",
					"Ensure sufficient color contrast for all text elements",
				).withAdvice("4.5:1 for normal text, 3:1 for large text", "", "Readability issues; WCAG violations",
					"Better contrast improves engagement metrics (5-10% benefit)",
					"Ensure sufficient color contrast for all text elements",
				).withEnhancements("Use contrast checking tools; test with colorblindness simulators; avoid color-only indicators.")
			},
		},
		{
			Name: "Keyboard navigation problems", Category: CategoryAdvanced, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Keyboard navigation testing required",
					"Ensure all interactive elements are keyboard accessible",
				).withAdvice("Full keyboard accessibility", "", "Accessibility barriers for keyboard users",
					"Keyboard accessibility improves usability signals (6-10%)",
					"Ensure all interactive elements are keyboard accessible",
				).withEnhancements("Logical tab order; visible focus indicators; skip navigation links.")
			},
		},
		{
			Name: "HTTP/2 not enabled", Category: CategoryAdvanced, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				proto := protoOf(site)
				modern := strings.HasPrefix(proto, "HTTP/2") || strings.HasPrefix(proto, "HTTP/3")
				current := fmt.Sprintf("Server responded over %s", proto)
				out := warn(current)
				if modern {
					out = pass(current)
				}
				return out.withAdvice(
					"HTTP/2 or HTTP/3 enabled",
					ifStr(modern, "Multiplexed connections in use"),
					ifStr(!modern, "HTTP/1.1 is slower than HTTP/2"),
					"HTTP/2 improves load times by 15-30%, indirectly boosting rankings",
					"Enable HTTP/2 on the web server (Nginx, Apache, CDN)",
				).withEnhancements("Upgrade to HTTP/3; use a CDN with HTTP/2 support; validate with WebPageTest.")
			},
		},
		{
			Name: "No resource preloading/hints", Category: CategoryAdvanced, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool {
					return !containsAny(p.HTML, `rel="preload"`, `rel="preconnect"`, `rel="dns-prefetch"`)
				})
				current := fmt.Sprintf("%d/%d pages missing resource hints", len(missing), len(site.Pages))
				out := pass(current)
				switch {
				case ratio(len(missing), len(site.Pages)) > 0.7:
					out = fail(current)
				case len(missing) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"Use preload, preconnect and dns-prefetch strategically",
					ifStr(len(missing) < len(site.Pages), fmt.Sprintf("%d pages using resource hints", len(site.Pages)-len(missing))),
					ifStr(len(missing) > 0, fmt.Sprintf("%d pages missing resource optimization hints", len(missing))),
					"Resource hints can improve perceived load time by 10-20%, affecting Core Web Vitals",
					"Add preload for critical CSS/fonts and preconnect for third-party origins",
				).withEnhancements("Preload critical CSS and fonts; preconnect to analytics and CDN domains; use dns-prefetch for less critical third parties.")
			},
		},
		{
			Name: "Excessive DOM size (>1500 nodes)", Category: CategoryAdvanced, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				large := collectPages(site, func(p *crawl.PageRecord) bool {
					return p.DOMNodes > 1500
				})
				current := fmt.Sprintf("%d/%d pages with large DOM", len(large), len(site.Pages))
				out := pass(current)
				switch {
				case ratio(len(large), len(site.Pages)) > 0.5:
					out = fail(current)
				case len(large) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"Keep DOM size under 1500 nodes",
					ifStr(len(large) < len(site.Pages), fmt.Sprintf("%d pages with optimized DOM", len(site.Pages)-len(large))),
					ifStr(len(large) > 0, fmt.Sprintf("%d pages with excessive DOM size", len(large))),
					"A large DOM increases memory usage and rendering time, and can hurt INP by 15-25%",
					"Optimize HTML structure, use code splitting, lazy load components",
				).withEnhancements("Virtualize long lists; lazy load off-screen content; simplify nested div structures.")
			},
		},
		{
			Name: "Third-party scripts slowing site", Category: CategoryAdvanced, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				heavy := collectPages(site, func(p *crawl.PageRecord) bool {
					external := 0
					for _, src := range p.Scripts {
						if crawl.RegistrableDomain(hostOf(src)) != site.Domain && hostOf(src) != "" {
							external++
						}
					}
					return external > 10
				})
				current := fmt.Sprintf("%d/%d pages with many third-party scripts", len(heavy), len(site.Pages))
				out := pass(current)
				switch {
				case ratio(len(heavy), len(site.Pages)) > 0.5:
					out = fail(current)
				case len(heavy) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"Minimize third-party scripts, use async/defer",
					ifStr(len(heavy) < len(site.Pages), fmt.Sprintf("%d pages with optimized third-party loading", len(site.Pages)-len(heavy))),
					ifStr(len(heavy) > 0, fmt.Sprintf("%d pages heavily reliant on third-party scripts", len(heavy))),
					"Third-party scripts can increase Total Blocking Time by 30-50%, hurting rankings by 10-15%",
					"Audit third-party scripts, remove unnecessary ones, use async/defer attributes",
				).withEnhancements("Self-host critical third-party resources; use facade patterns for heavy embeds; load analytics only after consent.")
			},
		},
		{
			Name: "E-commerce tracking not set up", Category: CategoryAdvanced, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				ecommerce := false
				for i := range site.Pages {
					lower := strings.ToLower(site.Pages[i].HTML)
					if containsAny(lower, "add to cart", "buy now", "checkout", "product", "price") {
						ecommerce = true
						break
					}
				}
				if !ecommerce {
					return pass("Not an e-commerce site").withAdvice(
						"Enhanced e-commerce tracking enabled", "", "", "", "")
				}
				return warn("E-commerce site detected").withAdvice(
					"Enhanced e-commerce tracking enabled",
					"", "Missing transaction and product performance data",
					"E-commerce tracking does not directly affect rankings but helps optimize conversion rates",
					"Implement Google Analytics 4 e-commerce events and Meta Pixel",
				).withEnhancements("Track product impressions and clicks; implement purchase events; set up checkout funnel analysis.")
			},
		},
		{
			Name: "Core Web Vitals tracking not configured", Category: CategoryAdvanced, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"CWV tracking setup required",
					"Implement the web-vitals library and send metrics to analytics",
				).withAdvice("Real user monitoring (RUM) for Core Web Vitals", "", "Unable to monitor real-world Core Web Vitals performance",
					"Core Web Vitals directly affect rankings (15-20% factor); tracking helps optimize",
					"Implement the web-vitals library and send metrics to analytics",
				).withEnhancements("Send CWV metrics to Google Analytics 4; monitor in Search Console; alert on threshold violations; segment by device and connection.")
			},
		},
		{
			Name: "International SEO not configured", Category: CategoryAdvanced, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withHreflang := collectPages(site, func(p *crawl.PageRecord) bool {
					return p.HreflangCount > 0
				})
				if len(withHreflang) > 0 {
					return pass("Hreflang tags found").withAdvice(
						"Proper international SEO setup if targeting multiple regions",
						"International targeting configured", "", "", "")
				}
				return warn("No international targeting detected").withAdvice(
					"Proper international SEO setup if targeting multiple regions",
					"", "Missing international SEO configuration",
					"Proper international SEO can improve regional rankings by 20-40%",
					"Implement hreflang tags, country-specific content and regional targeting",
				).withEnhancements("Add hreflang for all language/region variants; pick a consistent URL structure; configure regional targeting in Search Console.")
			},
		},
	}
}

// disallowsAll reports whether robots.txt blocks the entire site for all
// agents. Only a bare "Disallow: /" counts; longer paths are scoped rules.
func disallowsAll(robots string) bool {
	allAgents := false
	for line := range strings.Lines(robots) {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "user-agent:") {
			allAgents = strings.TrimSpace(line[len("user-agent:"):]) == "*"
			continue
		}
		if allAgents && strings.HasPrefix(lower, "disallow:") {
			if strings.TrimSpace(line[len("disallow:"):]) == "/" {
				return true
			}
		}
	}
	return false
}

func hostOf(rawURL string) string {
	rest, ok := strings.CutPrefix(rawURL, "https://")
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "http://")
	}
	if !ok {
		rest, ok = strings.CutPrefix(rawURL, "//")
	}
	if !ok {
		return ""
	}
	host, _, _ := strings.Cut(rest, "/")
	return host
}
