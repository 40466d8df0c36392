package checks

import (
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

// contentChecks covers depth, uniqueness and readability. Most editorial
// quality signals (intent match, semantic coverage, AI review) need target
// keywords or human judgement and report as warnings with guidance.
func contentChecks() []Check {
	return []Check{
		{
			Name: "Thin content - insufficient word count (<800 words)", Category: CategoryContent, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				thin := collectPages(site, func(p *crawl.PageRecord) bool { return p.WordCount < 300 })
				totalWords := 0
				for i := range site.Pages {
					totalWords += site.Pages[i].WordCount
				}
				avg := float64(totalWords) / float64(len(site.Pages))
				current := fmt.Sprintf("%.0f words average, %d thin pages (<300 words)", avg, len(thin))
				out := pass(current)
				switch {
				case float64(len(thin)) > float64(len(site.Pages))*0.4:
					out = fail(current)
				case len(thin) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"800+ words for main pages, 300+ minimum",
					ifStr(len(thin) == 0, "Good content depth"),
					ifStr(len(thin) > 0, fmt.Sprintf("%d pages with thin content: %s", len(thin), sampleURLs(thin))),
					"Thin content can reduce rankings by 30-50%",
					"Expand thin pages with valuable content matching search intent",
				).withEnhancements("Target 1500-2500 words for pillar content; add visuals, data, FAQs and actionable takeaways.")
			},
		},
		{
			Name: "Content not updated recently (>1 year)", Category: CategoryContent, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Requires publication date analysis",
					"Regularly update content, add publication/update dates, refresh statistics",
				).withAdvice("Regular content updates, especially for time-sensitive topics", "", "",
					"Fresh content can boost rankings by 20-30% for query freshness",
					"Regularly update content, add publication/update dates, refresh statistics",
				).withEnhancements("Add 'Last updated' timestamps; refresh content quarterly; update statistics and examples.")
			},
		},
		{
			Name: "Duplicate content across pages", Category: CategoryContent, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				dups, _ := countDuplicates(site, func(p *crawl.PageRecord) string { return p.Title })
				current := fmt.Sprintf("%d duplicate titles found", dups)
				out := pass(current)
				if dups > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"All pages should have unique content and titles",
					ifStr(dups == 0, "No duplicate content detected"),
					ifStr(dups > 0, fmt.Sprintf("%d pages have duplicate titles", dups)),
					"Duplicate content dilutes authority by 20-40%",
					"Create unique content for each page, use canonical tags, combine similar pages",
				).withEnhancements("Use canonical tags for legitimate duplicates; 301-redirect merged pages; add unique value to similar pages.")
			},
		},
		{
			Name: "Readability score too complex (>12th grade)", Category: CategoryContent, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				complexPages := collectPages(site, func(p *crawl.PageRecord) bool { return avgSentenceLength(p) > 25 })
				current := fmt.Sprintf("%d pages with complex readability", len(complexPages))
				out := fail(current)
				switch {
				case len(complexPages) == 0:
					out = pass(current)
				case float64(len(complexPages)) < float64(len(site.Pages))*0.5:
					out = warn(current)
				}
				return out.withAdvice(
					"8th-10th grade reading level for most content",
					ifStr(len(complexPages) == 0, "Good readability"),
					ifStr(len(complexPages) > 0, sampleURLs(complexPages)),
					"Complex content increases bounce rate by 20-30%",
					"Use shorter sentences and simple words, break up text with headings",
				).withEnhancements("Use bullet points and lists; add subheadings every 300 words; use active voice.")
			},
		},
		{
			Name: "Content could be more comprehensive", Category: CategoryContent, Impact: 83,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Competitive content analysis needed",
					"Analyze top-ranking competitors and create more comprehensive content",
				).withAdvice("More comprehensive than competitors", "", "Thin content loses to more comprehensive competitors",
					"Comprehensive content outranks thin content by 40-60%",
					"Analyze top-ranking competitors and create more comprehensive content",
				).withEnhancements("Cover all sub-topics; include FAQs, examples and case studies; use multimedia; create definitive guides.")
			},
		},
		{
			Name: "Content may be AI-generated without human review", Category: CategoryContent, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Content authenticity assessment needed",
					"Add human expertise, personal insights, and original research",
				).withAdvice("Human-reviewed, original content", "", "AI-only content may lack E-E-A-T signals",
					"Low-quality AI content can reduce rankings by 30-50%",
					"Add human expertise, personal insights, and original research",
				).withEnhancements("Add first-hand experience; include expert opinions; add original data; keep a human editorial pass.")
			},
		},
		{
			Name: "Primary keyword density too low", Category: CategoryContent, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Keyword analysis required",
					"Use primary keywords naturally throughout content (1-2% density)",
				).withAdvice("1-2% keyword density (natural usage)", "", "Cannot assess without target keywords",
					"Proper keyword usage affects rankings by 10-20%",
					"Use primary keywords naturally throughout content (1-2% density)",
				).withEnhancements("Use keywords in the first 100 words; include them in headings naturally; avoid stuffing.")
			},
		},
		{
			Name: "No semantic keywords (LSI)", Category: CategoryContent, Impact: 78,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"LSI keyword analysis required",
					"Include related terms and concepts (LSI keywords)",
				).withAdvice("Rich semantic keyword coverage", "", "Limited topical relevance without semantic keywords",
					"Semantic keywords improve topical authority (15-25%)",
					"Include related terms and concepts (LSI keywords)",
				).withEnhancements("Analyze competitor content; include synonyms naturally; cover the topic comprehensively.")
			},
		},
		{
			Name: "Content doesn't match search intent", Category: CategoryContent, Impact: 92,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Intent analysis required",
					"Analyze SERP intent and align content type accordingly",
				).withAdvice("Content aligned with user search intent", "", "Intent mismatch results in high bounce rates",
					"Intent-mismatched content won't rank well (40-60% loss)",
					"Analyze SERP intent and align content type accordingly",
				).withEnhancements("Study the top 10 SERP results; match content format and depth; address user questions.")
			},
		},
		{
			Name: "No content update schedule", Category: CategoryContent, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Content maintenance review needed",
					"Establish a content refresh schedule, update stats and facts regularly",
				).withAdvice("Regular content updates (quarterly minimum)", "", "Outdated content loses rankings over time",
					"Regular updates maintain and improve rankings (12-18%)",
					"Establish a content refresh schedule, update stats and facts regularly",
				).withEnhancements("Update statistics annually; refresh examples; monitor content decay.")
			},
		},
	}
}

// avgSentenceLength estimates words per sentence over the page's paragraphs.
func avgSentenceLength(p *crawl.PageRecord) float64 {
	text := strings.Join(p.Paragraphs, " ")
	if text == "" {
		return 0
	}
	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		sentences = 1
	}
	return float64(len(strings.Fields(text))) / float64(sentences)
}
