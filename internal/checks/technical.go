package checks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

// technicalChecks covers crawlability, indexation directives, URL hygiene and
// the security basics search engines treat as table stakes.
func technicalChecks() []Check {
	return []Check{
		{
			Name: "Meta Robots Tag Presence", Category: CategoryTechnical, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return p.MetaRobots == "" })
				total := len(site.Pages)
				if len(missing) == 0 {
					return pass(fmt.Sprintf("All %d pages have meta robots directives", total)).withAdvice(
						"All pages should have meta robots directive for proper crawl control",
						"Every crawled page already has meta robots configured", "", "", "")
				}
				return fail(fmt.Sprintf("%d pages have meta robots, %d pages missing", total-len(missing), len(missing))).withAdvice(
					"All pages should have meta robots directive for proper crawl control",
					"",
					affected(missing, total, "are missing meta robots tags"),
					"Missing meta robots can reduce crawl efficiency by 5-10% and may cause unintended indexing issues. Search engines might waste crawl budget on pages you don't want indexed.",
					"Add <meta name=\"robots\" content=\"index, follow\"> to the <head> of each flagged page. If you use a CMS, an SEO plugin (Yoast, Rank Math) can add these automatically; for custom sites, put the tag in the shared template header.",
				).withEnhancements("Use 'noindex, follow' for thin content pages; add X-Robots-Tag headers for PDFs and images; verify directives in Google Search Console.")
			},
		},
		{
			Name: "Open Graph (OG) tags missing", Category: CategoryTechnical, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return len(p.OGTags) == 0 })
				total := len(site.Pages)
				current := fmt.Sprintf("%d/%d pages missing OG tags", len(missing), total)
				out := pass(current)
				switch {
				case len(missing) > total/2:
					out = fail(current)
				case len(missing) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"All pages should have OG tags for social sharing",
					ifStr(len(missing) == 0, "Proper social media optimization"),
					ifStr(len(missing) > 0, affected(missing, total, "lack Open Graph tags, so shared links render poorly")),
					"No direct ranking impact but reduces social traffic by 40-60%",
					"Add og:title, og:description, og:image and og:url to all pages",
				).withEnhancements("Use 1200x630px images; test with Facebook Sharing Debugger; add og:type for content classification.")
			},
		},
		{
			Name: "Twitter Card meta tags missing", Category: CategoryTechnical, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return len(p.TwitterTags) == 0 })
				current := fmt.Sprintf("%d/%d pages missing Twitter Cards", len(missing), len(site.Pages))
				out := pass(current)
				if len(missing) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"All pages should have Twitter Card tags",
					ifStr(len(missing) == 0, "Optimized for Twitter/X sharing"),
					ifStr(len(missing) > 0, sampleURLs(missing)),
					"No direct ranking impact but affects Twitter engagement",
					"Add twitter:card, twitter:title, twitter:description, twitter:image",
				).withEnhancements("Use 'summary_large_image' for better visibility; test with the Twitter Card Validator.")
			},
		},
		{
			Name: "Meta charset not specified", Category: CategoryTechnical, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return p.MetaCharset == "" })
				current := fmt.Sprintf("%d/%d pages missing charset", len(missing), len(site.Pages))
				out := pass(current)
				if len(missing) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"All pages should declare UTF-8 charset",
					ifStr(len(missing) == 0, "Proper character encoding"),
					ifStr(len(missing) > 0, "Character encoding issues can cause text rendering problems: "+sampleURLs(missing)),
					"Can cause rendering issues affecting user experience (5-10% bounce rate increase)",
					"Add <meta charset=\"UTF-8\"> as the first tag in the <head> section",
				)
			},
		},
		{
			Name: "Meta language tag missing", Category: CategoryTechnical, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return p.Lang == "" })
				current := fmt.Sprintf("%d/%d pages missing language declaration", len(missing), len(site.Pages))
				out := pass(current)
				if len(missing) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"All pages should declare language with <html lang=\"en\">",
					ifStr(len(missing) == 0, "Proper internationalization support"),
					ifStr(len(missing) > 0, "Screen readers may struggle and international SEO suffers: "+sampleURLs(missing)),
					"Affects international SEO and accessibility scores (10-15%)",
					"Add a lang attribute to the <html> tag, e.g. <html lang=\"en\">",
				).withEnhancements("Use hreflang tags for multi-language sites; declare regional variants (en-US, en-GB).")
			},
		},
		{
			Name: "Viewport meta tag missing", Category: CategoryTechnical, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return !p.HasViewport })
				current := fmt.Sprintf("%d/%d missing viewport", len(missing), len(site.Pages))
				out := pass(current)
				if len(missing) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"All pages should have a viewport meta tag",
					ifStr(len(missing) == 0, "Mobile-friendly configuration"),
					ifStr(len(missing) > 0, "Poor mobile experience on: "+sampleURLs(missing)),
					"Can reduce mobile rankings by 30-40% (mobile-first indexing)",
					"Add <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">",
				)
			},
		},
		{
			Name: "user-scalable set to 'no' in viewport", Category: CategoryTechnical, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				bad := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.ViewportContent, "user-scalable=no") || strings.Contains(p.ViewportContent, "user-scalable=0")
				})
				current := fmt.Sprintf("%d pages with user-scalable=no", len(bad))
				out := pass(current)
				if len(bad) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Allow users to zoom (user-scalable=yes)",
					ifStr(len(bad) == 0, "Good accessibility"),
					ifStr(len(bad) > 0, "Accessibility violation, poor UX for vision-impaired users: "+sampleURLs(bad)),
					"Negative accessibility signal (5-10% penalty)",
					"Remove user-scalable=no from the viewport meta tag",
				)
			},
		},
		{
			Name: "Mobile-friendly design issues", Category: CategoryTechnical, Impact: 95,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				ready := 0
				for i := range site.Pages {
					if site.Pages[i].HasViewport {
						ready++
					}
				}
				pct := ratio(ready, len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% mobile-ready pages", pct)
				out := fail(current)
				switch {
				case pct >= 80:
					out = pass(current)
				case pct >= 50:
					out = warn(current)
				}
				return out.withAdvice(
					"100% mobile-friendly pages",
					ifStr(pct >= 80, "Mobile-optimized design"),
					ifStr(pct < 100, "Some pages are not mobile-friendly"),
					"Non-mobile-friendly sites lose 40-60% of mobile rankings",
					"Implement responsive design with a mobile-first approach",
				).withEnhancements("Test with Google's mobile tools; use responsive images; size touch targets at least 48x48px.")
			},
		},
		{
			Name: "Sitemap not referenced in robots.txt", Category: CategoryTechnical, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if !site.Robots.Fetched {
					return fail("robots.txt could not be fetched").withAdvice(
						"A robots.txt referencing your sitemap",
						"", "Crawlers have no sitemap discovery path",
						"Affects crawl efficiency (10-15% slower indexing)",
						"Create /robots.txt and add a 'Sitemap: https://"+site.Domain+"/sitemap.xml' line",
					)
				}
				if len(site.Robots.SitemapURLs) == 0 {
					return warn("robots.txt exists but lists no Sitemap directive").withAdvice(
						"Sitemap URL in robots.txt",
						"robots.txt is present",
						"Sitemap is not easily discoverable",
						"Affects crawl efficiency (10-15% slower indexing)",
						"Add 'Sitemap: https://"+site.Domain+"/sitemap.xml' to robots.txt",
					).withEnhancements("Submit the sitemap to Google Search Console; keep it updated automatically.")
				}
				return pass(fmt.Sprintf("robots.txt references %d sitemap(s): %s", len(site.Robots.SitemapURLs), sampleURLs(site.Robots.SitemapURLs)))
			},
		},
		{
			Name: "Website not using HTTPS", Category: CategoryTechnical, Impact: 95,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				httpPages := collectPages(site, func(p *crawl.PageRecord) bool { return !p.HTTPS })
				if len(httpPages) > 0 {
					return fail("HTTP").withAdvice(
						"HTTPS on all pages",
						"",
						"Security risk; Google penalizes non-HTTPS: "+sampleURLs(httpPages),
						"Non-HTTPS sites can lose 15-20% rankings",
						"Install an SSL certificate and redirect HTTP to HTTPS",
					).withEnhancements("Implement HSTS; enable HTTP/2; use TLS 1.3; monitor certificate expiration.")
				}
				return pass("HTTPS").withAdvice("HTTPS on all pages", "Secure connection with trust signals", "", "", "")
			},
		},
		{
			Name: "Canonical tag missing", Category: CategoryTechnical, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return p.Canonical == "" })
				current := fmt.Sprintf("%d/%d pages missing canonical", len(missing), len(site.Pages))
				out := pass(current)
				if len(missing) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"All pages should have a self-referencing canonical",
					ifStr(len(missing) == 0, "Prevents duplicate content"),
					ifStr(len(missing) > 0, "Duplicate content risk on: "+sampleURLs(missing)),
					"Can dilute page authority by 20-30%",
					"Add <link rel=\"canonical\" href=\"page-url\"> to all pages",
				).withEnhancements("Use absolute URLs; audit for canonical loops.")
			},
		},
		{
			Name: "Schema markup missing (JSON-LD)", Category: CategoryTechnical, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withSchema := 0
				for i := range site.Pages {
					p := &site.Pages[i]
					if len(p.SchemaBlocks) > 0 || strings.Contains(p.HTML, "schema.org") {
						withSchema++
					}
				}
				pct := ratio(withSchema, len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with schema", pct)
				out := fail(current)
				switch {
				case pct >= 50:
					out = pass(current)
				case pct >= 20:
					out = warn(current)
				}
				return out.withAdvice(
					"All key pages should have structured data",
					ifStr(pct >= 50, "Rich snippet opportunities"),
					ifStr(pct < 100, "Missing rich snippet potential"),
					"Missing schema reduces rich snippet chances by 70-90%",
					"Implement JSON-LD schema for Organization, WebPage, BreadcrumbList and the content types you publish",
				).withEnhancements("Validate with Google's Rich Results Test; add Article schema for posts and Product schema for commerce pages.")
			},
		},
		{
			Name: "Multiple redirect chains", Category: CategoryTechnical, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				chained := collectPages(site, func(p *crawl.PageRecord) bool { return p.RedirectCount > 1 })
				current := fmt.Sprintf("%d pages reached through redirect chains", len(chained))
				out := pass(current)
				if len(chained) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Single hop redirects only",
					ifStr(len(chained) == 0, "No multi-hop redirects found"),
					ifStr(len(chained) > 0, sampleURLs(chained)),
					"Redirect chains waste crawl budget (15-25% loss)",
					"Audit all redirects, eliminate chains, use direct 301 redirects",
				).withEnhancements("Update internal links to final URLs; avoid redirect loops.")
			},
		},
		{
			Name: "URL structure not SEO-friendly", Category: CategoryTechnical, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				longCount, badCount := 0, 0
				for i := range site.Pages {
					u := site.Pages[i].URL
					if len(u) > 115 {
						longCount++
					}
					if strings.Contains(u, "_") || u != strings.ToLower(u) {
						badCount++
					}
				}
				issues := longCount + badCount
				current := fmt.Sprintf("%d URLs with issues", issues)
				out := fail(current)
				switch {
				case issues == 0:
					out = pass(current)
				case float64(issues) < float64(len(site.Pages))*0.3:
					out = warn(current)
				}
				return out.withAdvice(
					"Short, descriptive, lowercase URLs with hyphens",
					ifStr(issues == 0, "Clean URL structure"),
					ifStr(issues > 0, fmt.Sprintf("%d URLs too long, %d URLs with underscores or mixed case", longCount, badCount)),
					"Poor URL structure reduces CTR by 20-30%",
					"Use short, descriptive, lowercase URLs; prefer hyphens over underscores",
				).withEnhancements("Include target keywords in URLs; avoid stop words; keep a breadcrumb structure.")
			},
		},
		{
			Name: "Hreflang tags missing (international sites)", Category: CategoryTechnical, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withHreflang := 0
				for i := range site.Pages {
					if site.Pages[i].HreflangCount > 0 {
						withHreflang++
					}
				}
				if withHreflang == 0 {
					return warn("No hreflang annotations found").withAdvice(
						"Required for multi-language sites; safe to ignore for single-language sites",
						"", "",
						"For international sites: 30-50% wrong country targeting",
						"If you serve multiple languages or regions, implement hreflang tags for every variant",
					).withEnhancements("Use x-default for fallback; ensure bidirectional linking.")
				}
				return pass(fmt.Sprintf("%d pages with hreflang", withHreflang)).withAdvice(
					"Hreflang on all language/region variants", "Proper international targeting", "", "", "")
			},
		},
		{
			Name: "Mixed content warnings", Category: CategoryTechnical, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				mixed := collectPages(site, func(p *crawl.PageRecord) bool {
					return p.HTTPS && strings.Contains(p.HTML, "http://")
				})
				current := fmt.Sprintf("%d pages with mixed content", len(mixed))
				out := pass(current)
				if len(mixed) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"No mixed content (all resources HTTPS)",
					ifStr(len(mixed) == 0, "All content secure"),
					ifStr(len(mixed) > 0, "Mixed content security warnings on: "+sampleURLs(mixed)),
					"Mixed content can reduce rankings by 10-15% and triggers browser warnings",
					"Update all HTTP resources to HTTPS",
				).withEnhancements("Audit resource URLs; fix hardcoded HTTP links; add a Content Security Policy.")
			},
		},
		{
			Name: "SSL certificate issues", Category: CategoryTechnical, Impact: 95,
			Evaluate: func(site *crawl.Result) Outcome {
				httpsOK := 0
				for i := range site.Pages {
					if site.Pages[i].HTTPS {
						httpsOK++
					}
				}
				if httpsOK > 0 {
					return pass(fmt.Sprintf("TLS handshake succeeded on %d pages", httpsOK)).withAdvice(
						"Valid SSL certificate with proper configuration",
						"Certificate accepted for every HTTPS request made during the crawl", "", "", "")
				}
				tlsFailures := 0
				for _, f := range site.Failures {
					if f.Kind == crawl.FetchConnection && strings.Contains(f.Message, "tls") {
						tlsFailures++
					}
				}
				if tlsFailures > 0 {
					return fail(fmt.Sprintf("%d requests failed during TLS negotiation", tlsFailures)).withAdvice(
						"Valid SSL certificate with proper configuration",
						"", "SSL issues block search engine access and hurt trust",
						"SSL errors can result in complete deindexing",
						"Renew or reconfigure the certificate; verify the full chain is served",
					).withEnhancements("Use certificates from trusted CAs; enable HSTS; monitor expiration.")
				}
				return warn("No HTTPS pages crawled; certificate could not be verified").withAdvice(
					"Valid SSL certificate with proper configuration", "", "",
					"SSL errors can result in complete deindexing",
					"Serve the site over HTTPS with a valid certificate",
				)
			},
		},
		{
			Name: "Multiple canonical tags", Category: CategoryTechnical, Impact: 88,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				multiple := collectPages(site, func(p *crawl.PageRecord) bool { return p.CanonicalCount > 1 })
				current := fmt.Sprintf("%d pages with multiple canonicals", len(multiple))
				out := pass(current)
				if len(multiple) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"One canonical tag per page",
					ifStr(len(multiple) == 0, "Proper canonical implementation"),
					ifStr(len(multiple) > 0, "Conflicting canonical tags on: "+sampleURLs(multiple)),
					"Multiple canonicals confuse search engines (20-30% indexation issues)",
					"Ensure only one canonical tag per page",
				)
			},
		},
		{
			Name: "Canonical pointing to non-indexable URL", Category: CategoryTechnical, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				// A canonical is suspect when its target was crawled and turned
				// out broken, or when the page declaring it is noindex.
				broken := map[string]bool{}
				for _, f := range site.Failures {
					if n, ok := crawl.NormalizeURL(f.URL); ok {
						broken[n] = true
					}
				}
				var bad []string
				for i := range site.Pages {
					p := &site.Pages[i]
					if p.Canonical == "" {
						continue
					}
					if n, ok := crawl.NormalizeURL(p.Canonical); ok && broken[n] {
						bad = append(bad, p.URL)
						continue
					}
					if strings.Contains(strings.ToLower(p.MetaRobots), "noindex") {
						bad = append(bad, p.URL)
					}
				}
				current := fmt.Sprintf("%d canonicals point to broken or noindex targets", len(bad))
				out := pass(current)
				if len(bad) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"Canonicals point to indexable, 200 status pages",
					ifStr(len(bad) == 0, "All verified canonical targets resolve"),
					ifStr(len(bad) > 0, sampleURLs(bad)),
					"Broken canonicals prevent proper indexation (25-40% loss)",
					"Verify all canonical targets are accessible and indexable",
				)
			},
		},
		{
			Name: "Invalid schema markup", Category: CategoryTechnical, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total, invalid := 0, 0
				var badPages []string
				for i := range site.Pages {
					p := &site.Pages[i]
					pageBad := false
					for _, block := range p.SchemaBlocks {
						total++
						if !json.Valid([]byte(block)) {
							invalid++
							pageBad = true
						}
					}
					if pageBad {
						badPages = append(badPages, p.URL)
					}
				}
				if total == 0 {
					return warn("No JSON-LD blocks found to validate").withAdvice(
						"Valid, error-free schema markup", "", "",
						"Valid schema can improve CTR by 30-40% through rich results",
						"Add JSON-LD structured data, then validate with Google's Rich Results Test",
					)
				}
				current := fmt.Sprintf("%d of %d JSON-LD blocks failed to parse", invalid, total)
				out := pass(current)
				if invalid > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"Valid, error-free schema markup",
					ifStr(invalid == 0, "All JSON-LD blocks are syntactically valid"),
					ifStr(invalid > 0, "Invalid schema on: "+sampleURLs(badPages)),
					"Valid schema can improve CTR by 30-40% through rich results",
					"Fix the JSON syntax errors and re-validate with Google's Rich Results Test",
				)
			},
		},
		{
			Name: "URLs exceeding recommended length (>115 characters)", Category: CategoryTechnical, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				long := collectPages(site, func(p *crawl.PageRecord) bool { return len(p.URL) > 115 })
				pct := ratio(len(long), len(site.Pages)) * 100
				current := fmt.Sprintf("%d URLs over 115 chars (%.0f%%)", len(long), pct)
				out := pass(current)
				if len(long) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"URLs under 115 characters",
					ifStr(len(long) == 0, "Optimal URL lengths"),
					ifStr(len(long) > 0, sampleURLs(long)),
					"Long URLs may be truncated in SERPs (5-10% CTR loss)",
					"Shorten URLs, remove unnecessary parameters and words",
				)
			},
		},
		{
			Name: "Mixed case or underscores in URLs", Category: CategoryTechnical, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				bad := collectPages(site, func(p *crawl.PageRecord) bool {
					path := p.URL
					if _, rest, ok := strings.Cut(p.URL, "://"); ok {
						path = rest
					}
					return strings.Contains(p.URL, "_") || path != strings.ToLower(path)
				})
				current := fmt.Sprintf("%d URLs with case/underscore issues", len(bad))
				out := pass(current)
				if len(bad) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Lowercase with hyphens only",
					ifStr(len(bad) == 0, "Clean URL formatting"),
					ifStr(len(bad) > 0, sampleURLs(bad)),
					"URL formatting affects usability and SEO (5-8%)",
					"Use lowercase letters and hyphens instead of underscores",
				).withEnhancements("301-redirect old URLs; update internal links; standardize URL patterns.")
			},
		},
		{
			Name: "404 errors on important pages", Category: CategoryTechnical, Impact: 87,
			Evaluate: func(site *crawl.Result) Outcome {
				var notFound []string
				for _, f := range site.Failures {
					if f.Kind == crawl.FetchHTTPError && f.StatusCode == 404 {
						notFound = append(notFound, f.URL)
					}
				}
				current := fmt.Sprintf("%d internally linked URLs returned 404", len(notFound))
				out := pass(current)
				if len(notFound) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"No 404 errors on important pages",
					ifStr(len(notFound) == 0, "No dead internal links found during the crawl"),
					ifStr(len(notFound) > 0, sampleURLs(notFound)),
					"404 errors can reduce site quality scores by 15-25%",
					"Fix or 301-redirect all 404 pages, especially those with backlinks",
				).withEnhancements("Monitor 404s in Search Console; serve a custom 404 page with navigation.")
			},
		},
		{
			Name: "Redirect loops detected", Category: CategoryTechnical, Impact: 92,
			Evaluate: func(site *crawl.Result) Outcome {
				var looping []string
				for _, f := range site.Failures {
					if f.Kind == crawl.FetchTooManyRedirects {
						looping = append(looping, f.URL)
					}
				}
				current := fmt.Sprintf("%d URLs never resolved within the redirect limit", len(looping))
				out := pass(current)
				if len(looping) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"No redirect loops",
					ifStr(len(looping) == 0, "All redirects resolved"),
					ifStr(len(looping) > 0, "These URLs are effectively inaccessible: "+sampleURLs(looping)),
					"Redirect loops result in complete indexation failure",
					"Identify and fix redirect loops immediately",
				)
			},
		},
		{
			Name: "Too many 301/302 redirects", Category: CategoryTechnical, Impact: 78,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				redirected := collectPages(site, func(p *crawl.PageRecord) bool { return p.RedirectCount > 0 })
				pct := ratio(len(redirected), len(site.Pages)) * 100
				current := fmt.Sprintf("%d of %d pages reached via redirects (%.0f%%)", len(redirected), len(site.Pages), pct)
				out := pass(current)
				if pct > 20 {
					out = warn(current)
				}
				return out.withAdvice(
					"Minimize redirects, max 1 hop to final URL",
					ifStr(pct <= 20, "Internal links mostly point at final URLs"),
					ifStr(pct > 20, "Each redirect hop loses link equity: "+sampleURLs(redirected)),
					"Each redirect hop loses 10-15% link equity",
					"Update links to point directly to final URLs",
				)
			},
		},
		{
			Name: "Microdata markup issues", Category: CategoryTechnical, Impact: 58,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withMicrodata := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "itemscope") || strings.Contains(p.HTML, "itemprop")
				})
				current := fmt.Sprintf("%d pages using microdata", len(withMicrodata))
				out := pass(current)
				if len(withMicrodata) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Prefer JSON-LD over microdata",
					ifStr(len(withMicrodata) > 0, "Structured data is implemented"),
					ifStr(len(withMicrodata) > 0, "Microdata is harder to maintain than JSON-LD"),
					"JSON-LD is Google's preferred format (5% better processing)",
					"Migrate microdata to JSON-LD format",
				)
			},
		},
		{
			Name: "HTML file size too large (>100KB)", Category: CategoryTechnical, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				large := collectPages(site, func(p *crawl.PageRecord) bool { return p.HTMLSize > 100_000 })
				pct := ratio(len(large), len(site.Pages)) * 100
				current := fmt.Sprintf("%d pages over 100KB (%.0f%%)", len(large), pct)
				out := pass(current)
				if len(large) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"HTML under 100KB",
					ifStr(len(large) == 0, "Optimized HTML size"),
					ifStr(len(large) > 0, sampleURLs(large)),
					"Large HTML delays rendering and hurts Core Web Vitals (8-12%)",
					"Optimize HTML, remove unnecessary code and whitespace",
				).withEnhancements("Minify HTML; remove comments; defer non-critical content; enable compression.")
			},
		},
		{
			Name: "No CDN implementation", Category: CategoryTechnical, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				evidence := cdnEvidence(site)
				if evidence != "" {
					return pass("CDN detected via response headers: " + evidence).withAdvice(
						"CDN for global content delivery", "Content is served through a CDN edge", "", "", "")
				}
				return warn("No CDN signature found in response headers").withAdvice(
					"CDN for global content delivery",
					"",
					"Missing CDN increases load times for distant visitors",
					"CDN can improve Core Web Vitals by 20-40%",
					"Implement a CDN (Cloudflare, AWS CloudFront, Fastly, etc.)",
				).withEnhancements("Enable CDN for static assets; configure edge caching; tune cache policies.")
			},
		},
	}
}

// cdnEvidence returns the first response header that identifies a CDN, or "".
func cdnEvidence(site *crawl.Result) string {
	signatures := []string{"CF-Ray", "X-Amz-Cf-Id", "X-Served-By", "X-Cache", "X-Fastly-Request-ID", "X-Akamai-Transformed", "X-Vercel-Id"}
	for _, h := range signatures {
		if v := headerValue(site, h); v != "" {
			return h
		}
	}
	if server := strings.ToLower(headerValue(site, "Server")); strings.Contains(server, "cloudflare") || strings.Contains(server, "cloudfront") {
		return "Server"
	}
	if headerValue(site, "Via") != "" {
		return "Via"
	}
	return ""
}

// ifStr returns s when cond holds, else "".
func ifStr(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
