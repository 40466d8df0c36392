package checks

import (
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

func socialChecks() []Check {
	socialDomains := []string{"facebook.com", "twitter.com", "x.com", "linkedin.com", "instagram.com", "youtube.com", "tiktok.com"}

	return []Check{
		{
			Name: "Limited social media presence", Category: CategorySocial, Impact: 55,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				linked := collectPages(site, func(p *crawl.PageRecord) bool {
					for _, link := range p.ExternalLinks {
						for _, d := range socialDomains {
							if strings.Contains(link, d) {
								return true
							}
						}
					}
					return false
				})
				pct := ratio(len(linked), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages link to social profiles", pct)
				out := fail(current)
				switch {
				case pct >= 50:
					out = pass(current)
				case pct >= 20:
					out = warn(current)
				}
				return out.withAdvice(
					"Social media links visible site-wide",
					ifStr(pct >= 50, "Social media presence established"),
					ifStr(pct < 50, "Limited social media visibility"),
					"Social signals indirectly affect rankings through engagement (10-15%)",
					"Add social media links in the header or footer and implement share buttons",
				).withEnhancements("Add share buttons on content; display social proof; integrate social feeds; use Open Graph tags.")
			},
		},
		{
			Name: "Low social sharing indicators", Category: CategorySocial, Impact: 50,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				sharing := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "share") || strings.Contains(lower, "social")
				})
				pct := ratio(len(sharing), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have sharing elements", pct)
				out := warn(current)
				if pct >= 50 {
					out = pass(current)
				}
				return out.withAdvice(
					"All content pages should have share buttons",
					ifStr(pct >= 50, "Social sharing enabled"),
					ifStr(pct < 50, "Missing social share buttons"),
					"Share buttons can increase traffic by 20-30%",
					"Add social share buttons (click-to-tweet, share to Facebook, etc.)",
				).withEnhancements("Use floating share bars; add click-to-tweet quotes; track shares; optimize share text.")
			},
		},
		{
			Name: "Social media links not prominent", Category: CategorySocial, Impact: 52,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Visibility assessment needed",
					"Place social media icons in the header or footer for visibility",
				).withAdvice("Social links in header or footer", "", "Hidden social links reduce follow-through",
					"Prominent social links increase engagement by 15-25%",
					"Place social media icons in the header or footer for visibility",
				).withEnhancements("Use recognizable icons; make them stand out; include them in the mobile menu.")
			},
		},
		{
			Name: "Inconsistent branding across platforms", Category: CategorySocial, Impact: 58,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Cross-platform audit needed",
					"Use consistent logos, colors and messaging across all platforms",
				).withAdvice("Consistent branding across all platforms", "", "Inconsistent branding confuses users and hurts recognition",
					"Brand consistency improves trust signals (8-12%)",
					"Use consistent logos, colors and messaging across all platforms",
				).withEnhancements("Use the same profile images; keep a consistent brand voice; coordinate posting schedules.")
			},
		},
		{
			Name: "No social proof elements", Category: CategorySocial, Impact: 68,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				proof := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "testimonial") || strings.Contains(lower, "review") || strings.Contains(lower, "rating")
				})
				pct := ratio(len(proof), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with social proof", pct)
				out := warn(current)
				if pct > 30 {
					out = pass(current)
				}
				return out.withAdvice(
					"Social proof on key pages (home, products, services)",
					ifStr(pct > 30, "Social proof present"),
					ifStr(pct <= 30, "Missing trust signals"),
					"Social proof improves conversion and dwell time (10-18%)",
					"Add testimonials, reviews, ratings and trust badges",
				).withEnhancements("Display customer testimonials; show star ratings; add Review schema markup; display trust badges.")
			},
		},
	}
}
