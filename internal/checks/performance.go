package checks

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mjseo/auditor/internal/crawl"
)

// performanceChecks covers load time, Core Web Vitals and delivery
// optimizations. Lab-only vitals (FID, CLS, INP, PageSpeed scores) cannot be
// measured from a crawl and report as warnings with guidance.
func performanceChecks() []Check {
	return []Check{
		{
			Name: "Slow page load time (>3 seconds)", Category: CategoryPerformance, Impact: 95,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				avg := site.AvgLoadTime()
				slow := collectPages(site, func(p *crawl.PageRecord) bool { return p.ResponseTime > 3*time.Second })
				current := fmt.Sprintf("%.2fs average, %d slow pages", avg.Seconds(), len(slow))
				out := pass(current)
				switch {
				case len(slow) > 0:
					out = fail(current)
				case avg > 2*time.Second:
					out = warn(current)
				}
				return out.withAdvice(
					"<2s average, <3s maximum",
					ifStr(len(slow) == 0, "Fast load times"),
					ifStr(len(slow) > 0, "Slow pages: "+sampleURLs(slow)),
					"Pages loading >3s lose 40-50% of visitors, 20-30% ranking penalty",
					"Optimize images, enable caching, minify CSS/JS, use a CDN",
				).withEnhancements("Implement lazy loading; use resource hints; enable HTTP/2; optimize the critical rendering path.")
			},
		},
		{
			Name: "Poor Largest Contentful Paint (LCP >2.5s)", Category: CategoryPerformance, Impact: 95,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				// LCP typically runs about 20% above document load time.
				estimated := site.AvgLoadTime().Seconds() * 1.2
				current := fmt.Sprintf("~%.2fs (estimated)", estimated)
				out := fail(current)
				switch {
				case estimated <= 2.5:
					out = pass(current)
				case estimated <= 4.0:
					out = warn(current)
				}
				return out.withAdvice(
					"LCP < 2.5s (good), < 4.0s (needs improvement)",
					ifStr(estimated <= 2.5, "Good LCP score"),
					ifStr(estimated > 2.5, "Slow largest content paint"),
					"Poor LCP directly affects the Core Web Vitals ranking factor (20-30%)",
					"Optimize images, use a CDN, preload critical resources, minimize render-blocking",
				).withEnhancements("Use WebP/AVIF; add responsive srcset images; improve TTFB; remove unused CSS/JS.")
			},
		},
		{
			Name: "High First Input Delay (FID >100ms)", Category: CategoryPerformance, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Requires real user monitoring",
					"Reduce JavaScript execution time, break up long tasks, use web workers",
				).withAdvice("FID < 100ms (good), < 300ms (needs improvement)", "", "",
					"Poor FID affects Core Web Vitals ranking (15-25%)",
					"Reduce JavaScript execution time, break up long tasks, use web workers",
				).withEnhancements("Code splitting; defer non-critical JavaScript; minimize main thread work.")
			},
		},
		{
			Name: "Poor Cumulative Layout Shift (CLS >0.1)", Category: CategoryPerformance, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Requires real user monitoring",
					"Set dimensions for images and videos, avoid inserting content above existing content, use transform animations",
				).withAdvice("CLS < 0.1 (good), < 0.25 (needs improvement)", "", "",
					"Poor CLS affects Core Web Vitals ranking (20-30%)",
					"Set dimensions for images and videos, avoid inserting content above existing content, use transform animations",
				).withEnhancements("Always include width and height attributes; reserve space for ads and embeds; use font-display: swap.")
			},
		},
		{
			Name: "Slow Time to First Byte (TTFB >600ms)", Category: CategoryPerformance, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				// TTFB is typically 10-30% of total load time.
				estimated := site.AvgLoadTime().Seconds() * 0.2
				current := fmt.Sprintf("~%.0fms (estimated)", estimated*1000)
				out := fail(current)
				switch {
				case estimated <= 0.6:
					out = pass(current)
				case estimated <= 1.0:
					out = warn(current)
				}
				return out.withAdvice(
					"TTFB < 600ms (good), < 1000ms (acceptable)",
					ifStr(estimated <= 0.6, "Fast server response"),
					ifStr(estimated > 0.6, "Slow server response time"),
					"Poor TTFB affects all other metrics (15-25% impact)",
					"Optimize server processing, use a CDN, enable caching, upgrade hosting",
				).withEnhancements("Use edge caching; optimize database queries; add a Redis layer; use HTTP/2 or HTTP/3.")
			},
		},
		{
			Name: "Images not optimized (>100KB each)", Category: CategoryPerformance, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total := 0
				for i := range site.Pages {
					total += len(site.Pages[i].Images)
				}
				return warn(fmt.Sprintf("%d images found (file sizes not measured by this audit)", total)).withAdvice(
					"All images optimized, compressed, lazy-loaded",
					"", "Image file sizes cannot be verified without downloading each asset",
					"Unoptimized images increase load time by 50-200%",
					"Compress images, use WebP/AVIF, implement responsive images, lazy load",
				).withEnhancements("Use an image CDN with auto-optimization; serve appropriate dimensions per viewport.")
			},
		},
		{
			Name: "Images not using modern formats (WebP/AVIF)", Category: CategoryPerformance, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total, modern := 0, 0
				for i := range site.Pages {
					for _, img := range site.Pages[i].Images {
						total++
						src := strings.ToLower(img.Src)
						if strings.Contains(src, ".webp") || strings.Contains(src, ".avif") {
							modern++
						}
					}
				}
				if total == 0 {
					return pass("No images found")
				}
				pct := ratio(modern, total) * 100
				current := fmt.Sprintf("%.0f%% using modern formats", pct)
				out := fail(current)
				switch {
				case pct >= 50:
					out = pass(current)
				case pct >= 20:
					out = warn(current)
				}
				return out.withAdvice(
					"80%+ images in WebP or AVIF format",
					ifStr(pct >= 50, "Using modern image formats"),
					ifStr(pct < 80, fmt.Sprintf("Only %.0f%% of images use modern formats", pct)),
					"Modern formats reduce load time by 25-35%",
					"Convert images to WebP or AVIF with fallbacks",
				).withEnhancements("Use the <picture> element for format fallbacks; automate conversion in the build or via an image CDN.")
			},
		},
		{
			Name: "Lazy loading not implemented", Category: CategoryPerformance, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total, lazy := 0, 0
				for i := range site.Pages {
					for _, img := range site.Pages[i].Images {
						total++
						if img.Loading != "" {
							lazy++
						}
					}
				}
				if total == 0 {
					return pass("No images found")
				}
				pct := ratio(lazy, total) * 100
				current := fmt.Sprintf("%.0f%% images with lazy loading", pct)
				out := fail(current)
				switch {
				case pct >= 50:
					out = pass(current)
				case pct >= 20:
					out = warn(current)
				}
				return out.withAdvice(
					"All below-the-fold images should lazy load",
					ifStr(pct >= 50, "Lazy loading implemented"),
					ifStr(pct < 50, "Missing lazy loading optimization"),
					"Lazy loading improves initial load time by 30-50%",
					"Add loading=\"lazy\" to <img> tags below the fold",
				).withEnhancements("Use Intersection Observer for custom lazy loading; lazy load iframes and videos too.")
			},
		},
		{
			Name: "Browser caching not enabled", Category: CategoryPerformance, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				cached := collectPages(site, func(p *crawl.PageRecord) bool {
					cc := p.Headers.Get("Cache-Control")
					return cc != "" && !strings.Contains(cc, "no-store")
				})
				current := fmt.Sprintf("%d of %d pages send usable Cache-Control headers", len(cached), len(site.Pages))
				if len(cached) == 0 {
					return warn(current).withAdvice(
						"Cache headers properly configured",
						"", "No caching directives observed in responses",
						"Proper caching improves repeat visit speed by 40-60%",
						"Set Cache-Control headers, use ETags, configure max-age",
					).withEnhancements("Cache static assets for up to a year with versioned URLs; configure CDN caching; consider service workers.")
				}
				return pass(current).withAdvice("Cache headers properly configured", "Responses carry caching directives", "", "", "")
			},
		},
		{
			Name: "Unminified CSS/JavaScript", Category: CategoryPerformance, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				// Heuristic: minified markup has very few line breaks relative
				// to its size.
				minified := collectPages(site, func(p *crawl.PageRecord) bool {
					lines := strings.Count(p.HTML, "\n")
					return len(p.HTML) > 0 && lines < len(p.HTML)/100
				})
				pct := ratio(len(minified), len(site.Pages)) * 100
				current := fmt.Sprintf("~%.0f%% pages appear minified", pct)
				out := fail(current)
				switch {
				case pct >= 50:
					out = pass(current)
				case pct >= 20:
					out = warn(current)
				}
				return out.withAdvice(
					"All CSS/JS should be minified",
					ifStr(pct >= 50, "Code appears minified"),
					ifStr(pct < 50, "Unminified code increases load time"),
					"Minification reduces file sizes by 30-50%",
					"Use build tools to minify CSS/JS and enable gzip compression",
				).withEnhancements("Use Terser for JS and cssnano for CSS; enable Brotli; drop unused code.")
			},
		},
		{
			Name: "HTTP/2 not enabled", Category: CategoryPerformance, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				modern := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.HasPrefix(p.Proto, "HTTP/2") || strings.HasPrefix(p.Proto, "HTTP/3")
				})
				current := fmt.Sprintf("%d of %d pages served over %s", len(modern), len(site.Pages), protoOf(site))
				if len(modern) == 0 {
					return warn(current).withAdvice(
						"HTTP/2 or HTTP/3 enabled",
						"", "Responses arrived over HTTP/1.x",
						"HTTP/2 improves load time by 20-40%",
						"Enable HTTP/2 on the web server (requires HTTPS)",
					).withEnhancements("Enable HTTP/3 (QUIC) if the host supports it; take advantage of multiplexing by unbundling assets.")
				}
				return pass(current).withAdvice("HTTP/2 or HTTP/3 enabled", "Modern multiplexed protocol in use", "", "", "")
			},
		},
		{
			Name: "Render-blocking resources", Category: CategoryPerformance, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				blocking := 0
				for i := range site.Pages {
					p := &site.Pages[i]
					blocking += p.BlockingScripts + len(p.Stylesheets)
				}
				avg := float64(blocking) / float64(len(site.Pages))
				current := fmt.Sprintf("~%.1f blocking resources per page", avg)
				out := fail(current)
				switch {
				case avg < 3:
					out = pass(current)
				case avg < 6:
					out = warn(current)
				}
				return out.withAdvice(
					"< 3 render-blocking resources",
					ifStr(avg < 3, "Minimal render blocking"),
					ifStr(avg >= 3, "Excessive render-blocking resources"),
					"Render-blocking delays first contentful paint by 30-50%",
					"Add async/defer to scripts, inline critical CSS, preload fonts",
				).withEnhancements("Extract and inline critical CSS; defer non-critical scripts; async independent scripts.")
			},
		},
		{
			Name: "Excessive DOM size (>1500 nodes)", Category: CategoryPerformance, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				maxDOM := 0
				large := collectPages(site, func(p *crawl.PageRecord) bool {
					if p.DOMNodes > maxDOM {
						maxDOM = p.DOMNodes
					}
					return p.DOMNodes > 1500
				})
				current := fmt.Sprintf("%d pages with large DOM, max: %d nodes", len(large), maxDOM)
				out := fail(current)
				switch {
				case len(large) == 0:
					out = pass(current)
				case float64(len(large)) < float64(len(site.Pages))*0.5:
					out = warn(current)
				}
				return out.withAdvice(
					"< 1500 DOM nodes per page",
					ifStr(len(large) == 0, "Efficient DOM size"),
					ifStr(len(large) > 0, sampleURLs(large)),
					"Large DOM increases rendering time by 40-60%",
					"Simplify HTML structure, use pagination, implement virtual scrolling",
				).withEnhancements("Remove unnecessary wrapper divs; use CSS for visual effects; lazy render off-screen content.")
			},
		},
		{
			Name: "High Interaction to Next Paint (INP >200ms)", Category: CategoryPerformance, Impact: 88,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"INP measurement required (PageSpeed Insights)",
					"Optimize JavaScript execution, reduce main thread blocking",
				).withAdvice("INP < 200ms", "", "INP replaced FID as the responsiveness Core Web Vital",
					"Poor INP is a ranking factor (15-25% impact)",
					"Optimize JavaScript execution, reduce main thread blocking",
				).withEnhancements("Minimize long tasks; optimize event handlers; use web workers.")
			},
		},
		{
			Name: "Poor desktop performance score (<90)", Category: CategoryPerformance, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Desktop PageSpeed score needed",
					"Optimize for desktop Core Web Vitals",
				).withAdvice("Score > 90", "", "Desktop performance affects rankings and conversions",
					"Desktop performance impacts rankings by 10-20%",
					"Optimize for desktop Core Web Vitals",
				).withEnhancements("Run PageSpeed Insights; optimize the largest images; minimize JavaScript.")
			},
		},
		{
			Name: "Poor mobile performance score (<70)", Category: CategoryPerformance, Impact: 92,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Mobile PageSpeed score needed",
					"Prioritize mobile Core Web Vitals optimization",
				).withAdvice("Score > 70 (ideally > 90)", "", "Mobile performance is critical for mobile-first indexing",
					"Mobile performance heavily affects rankings (20-30%)",
					"Prioritize mobile Core Web Vitals optimization",
				).withEnhancements("Reduce mobile-specific scripts; optimize touch interactions; test on real devices.")
			},
		},
		{
			Name: "Third-party scripts slowing site", Category: CategoryPerformance, Impact: 77,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withThirdParty := collectPages(site, func(p *crawl.PageRecord) bool {
					return hasThirdPartyScript(p, site.Domain)
				})
				pct := ratio(len(withThirdParty), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with 3rd party scripts", pct)
				out := pass(current)
				if pct > 50 {
					out = warn(current)
				}
				return out.withAdvice(
					"Minimize third-party scripts",
					ifStr(pct <= 50, "Third-party script usage is contained"),
					ifStr(pct > 50, "Third-party scripts slow performance"),
					"Third-party scripts can increase load time by 50-100%",
					"Audit and minimize third-party scripts, lazy load when possible",
				).withEnhancements("Defer non-critical scripts; use async loading; consider self-hosting critical scripts.")
			},
		},
		{
			Name: "No resource preloading", Category: CategoryPerformance, Impact: 68,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withHints := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, `rel="preload"`) || strings.Contains(p.HTML, `rel="prefetch"`)
				})
				pct := ratio(len(withHints), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages use preloading", pct)
				out := warn(current)
				if pct > 50 {
					out = pass(current)
				}
				return out.withAdvice(
					"Preload critical resources",
					ifStr(pct > 50, "Resource optimization implemented"),
					ifStr(pct <= 50, "Missing resource optimization"),
					"Resource hints can improve LCP by 10-20%",
					"Implement preload for critical fonts, images and CSS",
				).withEnhancements("Preload hero images and fonts; prefetch likely next pages; add dns-prefetch for external domains.")
			},
		},
		{
			Name: "Resources not using modern compression (Brotli)", Category: CategoryPerformance, Impact: 72,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				if enc := headerValue(site, "Content-Encoding"); enc != "" {
					return pass("Responses compressed with " + enc).withAdvice(
						"Brotli or Gzip compression enabled", "Text resources are compressed in transit", "", "", "")
				}
				return warn("No Content-Encoding observed on document responses").withAdvice(
					"Brotli or Gzip compression enabled",
					"", "Uncompressed resources waste bandwidth",
					"Compression reduces transfer size by 60-80%, improving load times",
					"Enable Brotli compression on the server, with Gzip as fallback",
				).withEnhancements("Compress all text resources; monitor compression ratios.")
			},
		},
	}
}

// hasThirdPartyScript reports whether the page loads any script from a host
// outside the crawl's registrable domain.
func hasThirdPartyScript(p *crawl.PageRecord, domain string) bool {
	for _, src := range p.Scripts {
		u, err := url.Parse(src)
		if err != nil || u.Host == "" {
			continue
		}
		if crawl.RegistrableDomain(u.Hostname()) != domain {
			return true
		}
	}
	return false
}

// protoOf picks a representative protocol string for the crawl.
func protoOf(site *crawl.Result) string {
	for i := range site.Pages {
		if p := site.Pages[i].Proto; p != "" {
			return p
		}
	}
	return "unknown protocol"
}
