package checks

import (
	"fmt"

	"github.com/mjseo/auditor/internal/crawl"
)

func analyticsChecks() []Check {
	return []Check{
		{
			Name: "Google Analytics 4 (GA4) not found", Category: CategoryAnalytics, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				tracked := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, "google-analytics.com", "gtag", "ga(")
				})
				pct := ratio(len(tracked), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have GA tracking", pct)
				out := pass(current)
				switch {
				case pct < 50:
					out = fail(current)
				case pct < 100:
					out = warn(current)
				}
				return out.withAdvice(
					"GA4 on all pages",
					ifStr(pct >= 100, "Analytics properly implemented"),
					ifStr(pct < 100, "Missing or incomplete analytics tracking"),
					"No direct impact, but essential for measuring SEO success",
					"Implement Google Analytics 4 on all pages with Google Tag Manager",
				).withEnhancements("Set up conversion tracking; configure enhanced measurement; create custom events.")
			},
		},
		{
			Name: "Google Tag Manager not implemented", Category: CategoryAnalytics, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withGTM := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, "googletagmanager.com")
				})
				pct := ratio(len(withGTM), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have GTM", pct)
				out := pass(current)
				if pct < 100 {
					out = warn(current)
				}
				return out.withAdvice(
					"GTM on all pages",
					ifStr(pct > 0, "Flexible tag management in place"),
					ifStr(pct < 100, "Missing GTM limits tracking flexibility"),
					"No direct SEO impact, but critical for data collection",
					"Implement Google Tag Manager for centralized tag management",
				).withEnhancements("Route all tracking tags through GTM; set up a data layer; version control your tags.")
			},
		},
		{
			Name: "Google Search Console not verified", Category: CategoryAnalytics, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Manual verification required",
					"Verify the site in Google Search Console and monitor regularly",
				).withAdvice("Verified and monitored weekly", "", "Missing critical search performance data",
					"No direct ranking impact, but essential for monitoring and fixing issues",
					"Verify the site in Google Search Console and monitor regularly",
				).withEnhancements("Submit the XML sitemap; monitor coverage issues; track Core Web Vitals; check mobile usability.")
			},
		},
		{
			Name: "Conversion tracking not set up", Category: CategoryAnalytics, Impact: 78,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Requires GA4 configuration review",
					"Set up conversion tracking for all key user actions in GA4",
				).withAdvice("All key conversions tracked", "", "Cannot measure ROI or optimize for conversions",
					"Indirectly affects SEO through better UX optimization (5-10% improvement)",
					"Set up conversion tracking for all key user actions in GA4",
				).withEnhancements("Track micro and macro conversions; set up enhanced e-commerce; create conversion funnels.")
			},
		},
		{
			Name: "Analytics data gaps or inconsistencies", Category: CategoryAnalytics, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Data audit required",
					"Run regular data audits and tag validation",
				).withAdvice("Clean, consistent data collection", "", "Poor data quality leads to bad decisions",
					"Clean data enables better SEO decisions (10-15% efficiency gain)",
					"Run regular data audits and tag validation",
				).withEnhancements("Use Google Tag Assistant; set up data filters; remove spam referrals; monitor bot traffic.")
			},
		},
		{
			Name: "No custom event tracking", Category: CategoryAnalytics, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Event tracking review needed",
					"Implement custom events for scroll depth, clicks, video plays, etc.",
				).withAdvice("Custom events for all important interactions", "", "Missing detailed user behavior insights",
					"Better insights lead to 8-12% SEO optimization improvement",
					"Implement custom events for scroll depth, clicks, video plays, etc.",
				).withEnhancements("Track scroll depth; monitor outbound clicks; track file downloads; measure video engagement.")
			},
		},
	}
}
