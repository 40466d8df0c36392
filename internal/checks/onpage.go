package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
)

// onPageChecks covers titles, descriptions, headings, images, links and the
// editorial furniture (bylines, dates, related content) that shapes how a
// page reads to users and crawlers.
func onPageChecks() []Check {
	return []Check{
		{
			Name: "Meta title issues", Category: CategoryOnPage, Impact: 100,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				var issues []string
				missing, short, long := 0, 0, 0
				for i := range site.Pages {
					p := &site.Pages[i]
					switch {
					case p.Title == "":
						missing++
						issues = append(issues, p.URL+": Missing title")
					case len(p.Title) < 30:
						short++
						issues = append(issues, fmt.Sprintf("%s: Title too short (%d chars)", p.URL, len(p.Title)))
					case len(p.Title) > 60:
						long++
						issues = append(issues, fmt.Sprintf("%s: Title too long (%d chars)", p.URL, len(p.Title)))
					}
				}
				current := fmt.Sprintf("%d issues (%d missing, %d too short, %d too long)", len(issues), missing, short, long)
				out := pass(current)
				switch {
				case missing > 0:
					out = fail(current)
				case len(issues) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"30-60 characters, unique per page",
					ifStr(len(issues) == 0, "All titles optimized"),
					strings.Join(firstN(issues, 5), "; "),
					"Poor titles reduce CTR by 50-70% and rankings by 25-35%",
					"Optimize each title to 30-60 chars with the primary keyword near the start",
				).withEnhancements("Include power words; add numbers where relevant; A/B test title performance.")
			},
		},
		{
			Name: "Meta description issues", Category: CategoryOnPage, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				var issues []string
				missing, short, long := 0, 0, 0
				for i := range site.Pages {
					p := &site.Pages[i]
					switch {
					case p.MetaDescription == "":
						missing++
						issues = append(issues, p.URL+": Missing description")
					case len(p.MetaDescription) < 120:
						short++
						issues = append(issues, p.URL+": Description too short")
					case len(p.MetaDescription) > 160:
						long++
						issues = append(issues, p.URL+": Description too long")
					}
				}
				current := fmt.Sprintf("%d issues (%d missing, %d too short, %d too long)", len(issues), missing, short, long)
				out := pass(current)
				switch {
				case missing > 0:
					out = fail(current)
				case len(issues) > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"120-160 characters, unique per page",
					ifStr(len(issues) == 0, "Well-optimized descriptions"),
					strings.Join(firstN(issues, 5), "; "),
					"Poor descriptions reduce CTR by 30-40%",
					"Write unique 120-160 char descriptions with keywords and a call to action",
				).withEnhancements("Add emotional triggers; include value propositions; use active voice; match search intent.")
			},
		},
		{
			Name: "H1 heading issues", Category: CategoryOnPage, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				var issues []string
				missing, multiple := 0, 0
				for i := range site.Pages {
					p := &site.Pages[i]
					h1s := p.H1()
					switch {
					case len(h1s) == 0:
						missing++
						issues = append(issues, p.URL+": Missing H1")
					case len(h1s) > 1:
						multiple++
						issues = append(issues, fmt.Sprintf("%s: Multiple H1 tags (%d)", p.URL, len(h1s)))
					}
				}
				current := fmt.Sprintf("%d issues (%d missing, %d multiple H1s)", len(issues), missing, multiple)
				out := pass(current)
				switch {
				case missing > 0:
					out = fail(current)
				case multiple > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"One H1 per page with primary keyword",
					ifStr(len(issues) == 0, "Proper H1 structure"),
					strings.Join(firstN(issues, 5), "; "),
					"H1 issues reduce rankings by 15-20%",
					"Ensure each page has exactly one H1 with the primary keyword",
				).withEnhancements("Keep H1 under 70 characters; make it descriptive; differentiate it from the title tag.")
			},
		},
		{
			Name: "Weak heading hierarchy (skipping levels)", Category: CategoryOnPage, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				broken := collectPages(site, func(p *crawl.PageRecord) bool { return skipsHeadingLevels(p.HTML) })
				current := fmt.Sprintf("%d pages with heading hierarchy issues", len(broken))
				out := fail(current)
				switch {
				case len(broken) == 0:
					out = pass(current)
				case float64(len(broken)) < float64(len(site.Pages))*0.5:
					out = warn(current)
				}
				return out.withAdvice(
					"Proper H1-H6 hierarchy without skipping",
					ifStr(len(broken) == 0, "Proper heading structure"),
					ifStr(len(broken) > 0, sampleURLs(broken)),
					"Poor hierarchy affects content understanding (10-15%)",
					"Use headings in order: H1 then H2 then H3, without skipping levels",
				).withEnhancements("Use headings to outline content structure; include keywords in H2/H3 where natural.")
			},
		},
		{
			Name: "Images missing alt attributes", Category: CategoryOnPage, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total := 0
				var missing []string
				for i := range site.Pages {
					total += len(site.Pages[i].Images)
					missing = append(missing, site.Pages[i].AltMissingImages...)
				}
				coverage := 100.0
				if total > 0 {
					coverage = ratio(total-len(missing), total) * 100
				}
				current := fmt.Sprintf("%d/%d images missing alt (%.0f%% coverage)", len(missing), total, coverage)
				out := pass(current)
				switch {
				case coverage < 70:
					out = fail(current)
				case coverage < 90:
					out = warn(current)
				}
				solution := "Add descriptive alt text to all images, working keywords in naturally"
				if len(missing) > 0 {
					solution += ". Start with: " + sampleURLs(missing)
				}
				return out.withAdvice(
					"All images should have descriptive alt text",
					ifStr(coverage >= 90, "Good alt text coverage"),
					ifStr(len(missing) > 0, fmt.Sprintf("%d images missing alt text: %s", len(missing), sampleURLs(missing))),
					"Missing alt text loses 10-15% of image search traffic",
					solution,
				).withEnhancements("Be descriptive and specific; keep alt text under 125 characters; use empty alt=\"\" for decorative images.")
			},
		},
		{
			Name: "Insufficient internal linking", Category: CategoryOnPage, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				totalLinks, sparse := 0, 0
				for i := range site.Pages {
					n := len(site.Pages[i].InternalLinks)
					totalLinks += n
					if n < 3 {
						sparse++
					}
				}
				avg := float64(totalLinks) / float64(len(site.Pages))
				current := fmt.Sprintf("%.1f avg internal links per page", avg)
				out := fail(current)
				switch {
				case avg >= 5 && sparse == 0:
					out = pass(current)
				case avg >= 3:
					out = warn(current)
				}
				return out.withAdvice(
					"5-10 contextual internal links per page",
					ifStr(avg >= 5, "Good internal linking"),
					ifStr(sparse > 0, fmt.Sprintf("%d pages have insufficient internal links", sparse)),
					"Poor internal linking reduces PageRank distribution by 20-30%",
					"Add contextual internal links to related content with descriptive anchor text",
				).withEnhancements("Link to important pages from multiple sources; implement a hub and spoke model; add related content sections.")
			},
		},
		{
			Name: "Broken internal links", Category: CategoryOnPage, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				var broken []string
				for _, f := range site.Failures {
					if f.Kind == crawl.FetchHTTPError {
						broken = append(broken, f.URL)
					}
				}
				current := fmt.Sprintf("%d internally linked URLs returned an error status", len(broken))
				out := pass(current)
				if len(broken) > 0 {
					out = fail(current)
				}
				return out.withAdvice(
					"Zero broken links",
					ifStr(len(broken) == 0, "All followed internal links resolved"),
					ifStr(len(broken) > 0, sampleURLs(broken)),
					"Broken links waste crawl budget and reduce UX (10-15%)",
					"Fix or remove the broken links; 301-redirect moved pages",
				).withEnhancements("Serve a custom 404 page with navigation; schedule regular link audits.")
			},
		},
		{
			Name: "Missing breadcrumb navigation", Category: CategoryOnPage, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withCrumbs := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, "BreadcrumbList") || strings.Contains(strings.ToLower(p.HTML), "breadcrumb")
				})
				pct := ratio(len(withCrumbs), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have breadcrumbs", pct)
				out := warn(current)
				if pct >= 50 {
					out = pass(current)
				}
				return out.withAdvice(
					"All deep pages should have breadcrumbs",
					ifStr(pct >= 50, "Breadcrumbs implemented"),
					ifStr(pct < 50, "Missing breadcrumb navigation"),
					"Breadcrumbs improve site structure understanding (10-15%)",
					"Implement breadcrumb navigation with BreadcrumbList schema markup",
				).withEnhancements("Make breadcrumbs clickable; show the current page location; use separators like > or /.")
			},
		},
		{
			Name: "Duplicate meta titles across pages", Category: CategoryOnPage, Impact: 85,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				dups, total := countDuplicates(site, func(p *crawl.PageRecord) string { return p.Title })
				pct := ratio(dups, total) * 100
				current := fmt.Sprintf("%d duplicate titles (%.0f%%)", dups, pct)
				out := pass(current)
				switch {
				case pct > 10:
					out = fail(current)
				case dups > 0:
					out = warn(current)
				}
				return out.withAdvice(
					"All titles should be unique",
					ifStr(dups == 0, "All titles unique"),
					ifStr(dups > 0, fmt.Sprintf("%d pages have duplicate titles", dups)),
					"Duplicate titles reduce ranking potential by 20-30%",
					"Make each title unique and descriptive for its page",
				).withEnhancements("Add page-specific keywords; include location for local pages; use title templates wisely.")
			},
		},
		{
			Name: "Duplicate meta descriptions", Category: CategoryOnPage, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				dups, total := countDuplicates(site, func(p *crawl.PageRecord) string { return p.MetaDescription })
				pct := ratio(dups, total) * 100
				current := fmt.Sprintf("%d duplicate descriptions (%.0f%%)", dups, pct)
				out := pass(current)
				if dups > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"All descriptions should be unique",
					ifStr(dups == 0, "All descriptions unique"),
					ifStr(dups > 0, fmt.Sprintf("%d pages share descriptions", dups)),
					"Duplicate descriptions reduce CTR by 15-25%",
					"Write a unique description for each page highlighting its specific value",
				).withEnhancements("Highlight page-specific benefits; include unique CTAs; test description variants.")
			},
		},
		{
			Name: "Duplicate H1 tags across pages", Category: CategoryOnPage, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				dups, _ := countDuplicates(site, func(p *crawl.PageRecord) string {
					if h1s := p.H1(); len(h1s) > 0 {
						return h1s[0]
					}
					return ""
				})
				current := fmt.Sprintf("%d duplicate H1s", dups)
				out := pass(current)
				if dups > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Unique H1 on each page",
					ifStr(dups == 0, "All H1s unique"),
					ifStr(dups > 0, fmt.Sprintf("%d pages share H1 tags", dups)),
					"Duplicate H1s dilute page focus (10-15% impact)",
					"Create a unique, descriptive H1 for each page",
				).withEnhancements("Align H1 with the title but keep it distinct; keep it concise (50-70 chars).")
			},
		},
		{
			Name: "Primary keyword missing from title", Category: CategoryOnPage, Impact: 90,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Keyword analysis required",
					"Place the primary keyword naturally at the start of the title tag",
				).withAdvice("Primary keyword in the first 30 characters of the title",
					"", "Cannot verify keyword optimization without target keywords",
					"Keyword in title affects rankings by 15-25%",
					"Place the primary keyword naturally at the start of the title tag",
				).withEnhancements("Front-load important keywords; use variations naturally; match user search intent.")
			},
		},
		{
			Name: "Title doesn't match search intent", Category: CategoryOnPage, Impact: 82,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Search intent analysis required",
					"Analyze SERP intent and align titles accordingly",
				).withAdvice("Titles aligned with user search intent",
					"", "Intent mismatch reduces CTR and rankings",
					"Intent-matched titles improve CTR by 30-50%",
					"Analyze SERP intent and align titles accordingly",
				).withEnhancements("Study competitor titles in the SERP; match informational/commercial/transactional intent.")
			},
		},
		{
			Name: "No call-to-action in description", Category: CategoryOnPage, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				ctaWords := []string{"click", "learn", "discover", "find", "get", "try", "download", "buy", "shop", "read"}
				withCTA := collectPages(site, func(p *crawl.PageRecord) bool {
					desc := strings.ToLower(p.MetaDescription)
					if desc == "" {
						return false
					}
					for _, w := range ctaWords {
						if strings.Contains(desc, w) {
							return true
						}
					}
					return false
				})
				pct := ratio(len(withCTA), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% descriptions have CTA", pct)
				out := fail(current)
				switch {
				case pct > 60:
					out = pass(current)
				case pct > 30:
					out = warn(current)
				}
				return out.withAdvice(
					"CTA in 80%+ of descriptions",
					ifStr(pct > 60, "Good CTA usage"),
					ifStr(pct <= 60, "Missing CTAs reduce click-through"),
					"CTA in descriptions improves CTR by 20-35%",
					"Add compelling action words to meta descriptions",
				).withEnhancements("Use power verbs (discover, unlock, master); create urgency when appropriate; promise a concrete benefit.")
			},
		},
		{
			Name: "H1 doesn't include primary keyword", Category: CategoryOnPage, Impact: 80,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Keyword analysis required",
					"Include the primary keyword naturally in the H1 heading",
				).withAdvice("Primary keyword in H1",
					"", "H1 keyword optimization unverified",
					"Keyword in H1 affects rankings by 12-18%",
					"Include the primary keyword naturally in the H1 heading",
				).withEnhancements("Use keyword variations; keep the H1 user-friendly; avoid stuffing.")
			},
		},
		{
			Name: "Missing H2 subheadings", Category: CategoryOnPage, Impact: 70,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				missing := collectPages(site, func(p *crawl.PageRecord) bool { return len(p.Headings["h2"]) == 0 })
				pct := ratio(len(missing), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages missing H2s", pct)
				out := pass(current)
				if len(missing) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"H2 subheadings on all content pages",
					ifStr(pct <= 20, "Good heading structure"),
					ifStr(len(missing) > 0, fmt.Sprintf("%d pages lack H2 subheadings", len(missing))),
					"Proper heading structure improves rankings by 8-12%",
					"Add descriptive H2 subheadings to break up content",
				).withEnhancements("Use H2s for main sections; include keywords naturally; maintain a logical hierarchy.")
			},
		},
		{
			Name: "Inconsistent heading formatting", Category: CategoryOnPage, Impact: 55,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Visual heading audit needed",
					"Standardize heading styles in CSS",
				).withAdvice("Consistent styling across all headings",
					"", "Inconsistent formatting affects user experience",
					"Consistent headings improve engagement metrics (5-8%)",
					"Standardize heading styles in CSS",
				).withEnhancements("Define a clear heading hierarchy; use consistent fonts, sizes and spacing.")
			},
		},
		{
			Name: "Alt text too short or generic", Category: CategoryOnPage, Impact: 72,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				total, weak := 0, 0
				for i := range site.Pages {
					for _, img := range site.Pages[i].Images {
						alt := strings.TrimSpace(img.Alt)
						if alt == "" {
							continue
						}
						total++
						lower := strings.ToLower(alt)
						if len(strings.Fields(alt)) < 3 || strings.HasPrefix(lower, "image of") || strings.HasPrefix(lower, "picture of") {
							weak++
						}
					}
				}
				if total == 0 {
					return warn("No alt texts found to assess").withAdvice(
						"Descriptive alt text (5-15 words) for all images", "", "",
						"Descriptive alt text improves image rankings by 20-30%",
						"Write descriptive, specific alt text for each image",
					)
				}
				current := fmt.Sprintf("%d of %d alt texts look short or generic", weak, total)
				out := pass(current)
				if ratio(weak, total) > 0.3 {
					out = warn(current)
				}
				return out.withAdvice(
					"Descriptive alt text (5-15 words) for all images",
					ifStr(ratio(weak, total) <= 0.3, "Most alt texts are descriptive"),
					ifStr(weak > 0, fmt.Sprintf("%d alt texts are under three words or start with 'image of'", weak)),
					"Descriptive alt text improves image rankings by 20-30%",
					"Write descriptive, specific alt text for each image",
				).withEnhancements("Describe image content specifically; avoid 'image of'; keep under 125 characters.")
			},
		},
		{
			Name: "Alt text keyword stuffing", Category: CategoryOnPage, Impact: 68,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				stuffed := 0
				for i := range site.Pages {
					for _, img := range site.Pages[i].Images {
						if altLooksStuffed(img.Alt) {
							stuffed++
						}
					}
				}
				current := fmt.Sprintf("%d alt texts look keyword-stuffed", stuffed)
				out := pass(current)
				if stuffed > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Natural, descriptive alt text",
					ifStr(stuffed == 0, "No stuffing patterns detected"),
					ifStr(stuffed > 0, "Keyword stuffing can trigger penalties"),
					"Keyword stuffing can harm rankings by 10-20%",
					"Use keywords at most once per alt text and describe what is actually in the image",
				).withEnhancements("Vary alt text across images; focus on accuracy over optimization.")
			},
		},
		{
			Name: "Decorative images with descriptive alt", Category: CategoryOnPage, Impact: 50,
			Evaluate: func(site *crawl.Result) Outcome {
				return needsData(
					"Image role assessment needed",
					"Use alt=\"\" (empty) for decorative images",
				).withAdvice("Empty alt for purely decorative images",
					"", "Unnecessary alt text clutters screen readers",
					"Proper decorative image handling improves accessibility (3-5%)",
					"Use alt=\"\" (empty) for decorative images",
				).withEnhancements("Move decorative elements to CSS where possible; apply aria-hidden for decorations.")
			},
		},
		{
			Name: "No contextual anchor text", Category: CategoryOnPage, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				generic := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, ">click here<") || strings.Contains(lower, ">read more<") || strings.Contains(lower, ">learn more<")
				})
				current := fmt.Sprintf("%d pages use generic anchor text", len(generic))
				out := pass(current)
				if len(generic) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Descriptive anchor text for all internal links",
					ifStr(len(generic) == 0, "No generic anchors detected"),
					ifStr(len(generic) > 0, "Generic anchors ('click here', 'read more') waste SEO value: "+sampleURLs(generic)),
					"Descriptive anchors improve internal link equity by 15-25%",
					"Use descriptive, keyword-rich anchor text",
				).withEnhancements("Avoid 'click here' and 'read more'; vary anchor text appropriately.")
			},
		},
		{
			Name: "Orphan pages (no internal links)", Category: CategoryOnPage, Impact: 82,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				orphans := orphanPages(site)
				current := fmt.Sprintf("%d crawled pages receive no internal links", len(orphans))
				out := pass(current)
				if len(orphans) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"All pages accessible via internal links",
					ifStr(len(orphans) == 0, "Every crawled page has at least one inbound internal link"),
					ifStr(len(orphans) > 0, sampleURLs(orphans)),
					"Orphan pages typically don't rank well (30-50% reduced visibility)",
					"Link to these pages from related content or navigation",
				).withEnhancements("Add orphans to navigation or sidebar; link from related content; keep them in the sitemap as backup.")
			},
		},
		{
			Name: "Deep pages (>3 clicks from home)", Category: CategoryOnPage, Impact: 73,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				deep := deepPages(site, 3)
				current := fmt.Sprintf("%d pages sit more than 3 clicks from the homepage", len(deep))
				out := pass(current)
				if len(deep) > 0 {
					out = warn(current)
				}
				return out.withAdvice(
					"Important pages within 3 clicks of the homepage",
					ifStr(len(deep) == 0, "Flat site architecture"),
					ifStr(len(deep) > 0, sampleURLs(deep)),
					"Pages 3+ clicks deep receive 40-60% less SEO value",
					"Flatten the site architecture and link important pages closer to home",
				).withEnhancements("Add deep pages to main navigation; feature them on the homepage; create hub pages.")
			},
		},
		{
			Name: "Table of Contents (TOC) missing", Category: CategoryOnPage, Impact: 65,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withTOC := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "table-of-contents") || strings.Contains(lower, "toc")
				})
				pct := ratio(len(withTOC), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have TOC", pct)
				out := warn(current)
				if pct > 30 {
					out = pass(current)
				}
				return out.withAdvice(
					"TOC on long-form content (1500+ words)",
					ifStr(pct > 30, "Improved navigation"),
					ifStr(pct <= 30, "Missing TOC hurts UX on long content"),
					"TOC improves engagement metrics and rankings by 8-12% for long content",
					"Add a table of contents to long-form content pages",
				).withEnhancements("Make the TOC sticky on scroll; highlight the current section; auto-generate from headings.")
			},
		},
		{
			Name: "Author information missing", Category: CategoryOnPage, Impact: 78,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withAuthor := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "author") || strings.Contains(lower, "byline")
				})
				pct := ratio(len(withAuthor), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages show author info", pct)
				out := warn(current)
				if pct > 50 {
					out = pass(current)
				}
				return out.withAdvice(
					"Author byline on all content pages",
					ifStr(pct > 50, "E-E-A-T signals present"),
					ifStr(pct <= 50, "Missing E-E-A-T signals"),
					"Author attribution improves E-E-A-T and rankings by 10-20%",
					"Add author bylines with bio and credentials",
				).withEnhancements("Link to author profiles; show credentials; add an author photo.")
			},
		},
		{
			Name: "Published/updated date missing", Category: CategoryOnPage, Impact: 75,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withDate := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "published") || strings.Contains(lower, "date") || strings.Contains(lower, "<time")
				})
				pct := ratio(len(withDate), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages show dates", pct)
				out := fail(current)
				switch {
				case pct > 60:
					out = pass(current)
				case pct > 30:
					out = warn(current)
				}
				return out.withAdvice(
					"Dates on all time-sensitive content",
					ifStr(pct > 60, "Content freshness signals"),
					ifStr(pct <= 60, "Missing freshness signals"),
					"Date information affects the freshness ranking factor (12-18%)",
					"Display published and last-updated dates",
				).withEnhancements("Show both published and updated dates; use schema markup; refresh the date when content changes.")
			},
		},
		{
			Name: "Related articles/content section missing", Category: CategoryOnPage, Impact: 68,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withRelated := collectPages(site, func(p *crawl.PageRecord) bool {
					lower := strings.ToLower(p.HTML)
					return strings.Contains(lower, "related") || strings.Contains(lower, "similar") || strings.Contains(lower, "recommended")
				})
				pct := ratio(len(withRelated), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages have related content", pct)
				out := warn(current)
				if pct > 50 {
					out = pass(current)
				}
				return out.withAdvice(
					"Related content on 80%+ of pages",
					ifStr(pct > 50, "Good internal linking structure"),
					ifStr(pct <= 50, "Missing internal linking opportunities"),
					"Related content improves engagement and internal linking (10-15%)",
					"Add related/recommended content sections",
				).withEnhancements("Show 3-6 related items; use compelling thumbnails; track click-through rates.")
			},
		},
		{
			Name: "No jump links for long content", Category: CategoryOnPage, Impact: 60,
			Evaluate: func(site *crawl.Result) Outcome {
				if len(site.Pages) == 0 {
					return noPages()
				}
				withJumps := collectPages(site, func(p *crawl.PageRecord) bool {
					return strings.Contains(p.HTML, `href="#`)
				})
				pct := ratio(len(withJumps), len(site.Pages)) * 100
				current := fmt.Sprintf("%.0f%% pages use jump links", pct)
				out := warn(current)
				if pct > 30 {
					out = pass(current)
				}
				return out.withAdvice(
					"Jump links on long pages (2000+ words)",
					ifStr(pct > 30, "Good navigation structure"),
					ifStr(pct <= 30, "Missing in-page navigation"),
					"Jump links improve UX metrics and rankings by 5-8%",
					"Add jump links to section headings on long pages",
				).withEnhancements("Create a clickable TOC; use descriptive anchor IDs; add 'back to top' links.")
			},
		},
	}
}

var headingTagRe = regexp.MustCompile(`(?i)<h([1-6])[\s>]`)

// skipsHeadingLevels reports whether the document's headings jump more than
// one level down at any point (e.g. H1 straight to H3).
func skipsHeadingLevels(html string) bool {
	prev := 0
	for _, m := range headingTagRe.FindAllStringSubmatch(html, -1) {
		level := int(m[1][0] - '0')
		if prev != 0 && level > prev+1 {
			return true
		}
		prev = level
	}
	return false
}

// countDuplicates returns how many non-empty values repeat across pages, and
// the count of non-empty values.
func countDuplicates(site *crawl.Result, key func(p *crawl.PageRecord) string) (dups, total int) {
	seen := map[string]bool{}
	for i := range site.Pages {
		v := key(&site.Pages[i])
		if v == "" {
			continue
		}
		total++
		if seen[v] {
			dups++
		}
		seen[v] = true
	}
	return dups, total
}

// altLooksStuffed flags alt text with any word repeated three or more times.
func altLooksStuffed(alt string) bool {
	counts := map[string]int{}
	for _, w := range strings.Fields(strings.ToLower(alt)) {
		counts[w]++
		if len(w) > 3 && counts[w] >= 3 {
			return true
		}
	}
	return false
}

// orphanPages returns crawled pages (other than the seed) that no other
// crawled page links to.
func orphanPages(site *crawl.Result) []string {
	inbound := map[string]bool{}
	for i := range site.Pages {
		from := site.Pages[i].URL
		for _, link := range site.Pages[i].InternalLinks {
			if n, ok := crawl.NormalizeURL(link); ok && n != from {
				inbound[n] = true
			}
		}
	}
	var orphans []string
	for i := range site.Pages {
		u := site.Pages[i].URL
		if u == site.SeedURL {
			continue
		}
		if !inbound[u] {
			orphans = append(orphans, u)
		}
	}
	return orphans
}

// deepPages returns crawled pages more than maxDepth clicks from the seed,
// computed over the internal link graph.
func deepPages(site *crawl.Result, maxDepth int) []string {
	links := map[string][]string{}
	for i := range site.Pages {
		var outs []string
		for _, link := range site.Pages[i].InternalLinks {
			if n, ok := crawl.NormalizeURL(link); ok {
				outs = append(outs, n)
			}
		}
		links[site.Pages[i].URL] = outs
	}

	depth := map[string]int{site.SeedURL: 0}
	queue := []string{site.SeedURL}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, next := range links[u] {
			if _, seen := depth[next]; seen {
				continue
			}
			if _, crawled := links[next]; !crawled {
				continue
			}
			depth[next] = depth[u] + 1
			queue = append(queue, next)
		}
	}

	var deep []string
	for i := range site.Pages {
		u := site.Pages[i].URL
		if d, ok := depth[u]; !ok || d > maxDepth {
			deep = append(deep, u)
		}
	}
	return deep
}

// firstN caps a string slice at n entries.
func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
