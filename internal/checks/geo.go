package checks

import (
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

// geoAeoChecks covers markup and content patterns that drive visibility in
// AI-generated answers and local results.
func geoAeoChecks() []Check {
	return []Check{
		{
			Name: "FAQ schema markup missing", Category: CategoryGeoAeo, Impact: 82,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withFAQ := collectPages(site, func(p *crawl.PageRecord) bool {
					return containsAny(p.HTML, "FAQPage", "Question")
				})
				pct := ratio(len(withFAQ), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with FAQ schema", pct)
				out := pass(current)
				if pct < 20 {
					out = warn(current)
				}
				return out.withAdvice(
					"FAQ schema on relevant pages",
					ifStr(pct > 0, "Better visibility in AI-generated answers"),
					ifStr(pct < 50, "Missing FAQ schema reduces AI Overview visibility"),
					"FAQ schema increases AI Overview appearance by 40-60%",
					"Add FAQPage schema markup to pages with Q&A content",
				).withEnhancements("Structure content as Q&A; answer questions concisely; target voice search queries.")
			},
		},
		{
			Name: "HowTo schema markup missing", Category: CategoryGeoAeo, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withHowTo := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "HowTo")
				})
				pct := ratio(len(withHowTo), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with HowTo schema", pct)
				out := warn(current)
				if pct > 10 {
					out = pass(current)
				}
				return out.withAdvice(
					"HowTo schema on tutorial/guide pages",
					ifStr(pct > 0, "Enhanced rich results for instructional content"),
					ifStr(pct <= 10, "Missing opportunities for rich snippets"),
					"HowTo schema can increase CTR by 25-35% for tutorial queries",
					"Implement HowTo schema on step-by-step guides and tutorials",
				).withEnhancements("Break instructions into clear steps; add images per step; include time and cost estimates.")
			},
		},
		{
			Name: "Not ranking in AI Overview/SGE", Category: CategoryGeoAeo, Impact: 88,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"AI Overview monitoring required",
					"Optimize content for AI understanding - clear, authoritative, structured",
				).withAdvice("Appearing in AI Overviews for target queries", "", "Missing AI-generated search visibility",
					"AI Overview inclusion can increase visibility by 50-80%",
					"Optimize content for AI understanding - clear, authoritative, structured",
				).withEnhancements("Use clear, definitive statements; cite authoritative sources; answer questions directly; use semantic HTML and comprehensive schema.")
			},
		},
		{
			Name: "Content not optimized for voice search", Category: CategoryGeoAeo, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				questionWords := []string{"what", "who", "where", "when", "why", "how"}
				optimized := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					for _, w := range questionWords {
						if strings.Contains(lower, w) {
							return true
						}
					}
					return false
				})
				pct := ratio(len(optimized), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages with question-based content", pct)
				out := fail(current)
				switch {
				case pct > 60:
					out = pass(current)
				case pct > 30:
					out = warn(current)
				}
				return out.withAdvice(
					"Natural language Q&A on all pages",
					ifStr(pct > 50, "Question-based content format"),
					ifStr(pct <= 50, "Poor voice search optimization"),
					"Voice search optimization captures 20-30% more traffic from voice queries",
					"Write in natural, conversational language addressing common questions",
				).withEnhancements("Target long-tail question queries; provide direct, concise answers; optimize for featured snippets.")
			},
		},
		{
			Name: "Organization schema missing", Category: CategoryGeoAeo, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withOrg := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "Organization") && strings.Contains(p.HTML, "schema.org")
				})
				if len(withOrg) == 0 {
					return fail("Missing").withAdvice(
						"Organization schema on homepage",
						"", "Incomplete brand entity in search",
						"Organization schema improves brand SERP features by 30-40%",
						"Add Organization schema with logo, social profiles and contact info",
					).withEnhancements("Include all social media profiles; add the official logo; specify organization type; add founding date and description.")
				}
				return pass("Organization schema present").withAdvice(
					"Organization schema on homepage", "Enhanced brand knowledge graph", "", "", "")
			},
		},
		{
			Name: "LocalBusiness schema missing", Category: CategoryGeoAeo, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withLocal := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "LocalBusiness")
				})
				if len(withLocal) > 0 {
					return pass("LocalBusiness schema present").withAdvice(
						"LocalBusiness schema if applicable", "Local SEO optimization", "", "", "")
				}
				return warn("Not detected").withAdvice(
					"LocalBusiness schema if applicable; safe to ignore without a physical location",
					"", "Missing local search opportunities",
					"LocalBusiness schema improves local rankings by 20-35%",
					"Implement LocalBusiness schema for physical locations",
				).withEnhancements("Add accurate NAP; include business hours; add service area and price range.")
			},
		},
		{
			Name: "No Google Business Profile integration", Category: CategoryGeoAeo, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Manual verification required",
					"Claim and optimize the Google Business Profile with complete information",
				).withAdvice("Claimed and optimized GBP", "", "Missing local search visibility",
					"An optimized GBP can increase local visibility by 50-70%",
					"Claim and optimize the Google Business Profile with complete information",
				).withEnhancements("Upload photos regularly; respond to all reviews; post weekly updates; complete every profile section.")
			},
		},
		{
			Name: "Missing NAP (Name, Address, Phone) consistency", Category: CategoryGeoAeo, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Citation audit required",
					"Audit and standardize NAP across all online directories and citations",
				).withAdvice("100% NAP consistency across all listings", "", "Inconsistent NAP hurts local rankings",
					"NAP inconsistencies can reduce local rankings by 15-25%",
					"Audit and standardize NAP across all online directories and citations",
				).withEnhancements("Use the exact same format everywhere; audit citations regularly; watch for duplicate listings.")
			},
		},
	}
}
