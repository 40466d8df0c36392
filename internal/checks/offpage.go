package checks

import "github.com/mjseo/auditor/internal/crawl"

// offPageChecks all depend on external data sources (backlink indexes,
// authority metrics) a crawl cannot see. Each reports a warning with the
// concrete follow-up so the category still contributes to the report.
func offPageChecks() []Check {
	type entry struct {
		name        string
		impact      int
		current     string
		recommended string
		cons        string
		ranking     string
		solution    string
		enhance     string
	}

	entries := []entry{
		{
			name: "Low Domain Authority (DA <30)", impact: 95,
			current:     "Requires SEO tool integration",
			recommended: "DA 50+",
			cons:        "Domain authority directly impacts ranking ability",
			ranking:     "Domain authority accounts for 20-30% of ranking potential",
			solution:    "Focus on acquiring high-quality backlinks from authoritative domains",
			enhance:     "Create content that attracts natural links; build relationships with high-DA sites; monitor DA growth monthly.",
		},
		{
			name: "Low Domain Rating (DR <30)", impact: 92,
			current:     "Requires Ahrefs integration",
			recommended: "DR 40+",
			cons:        "Low DR reduces competitive ranking ability",
			ranking:     "DR strongly correlates with organic visibility (25-35% factor)",
			solution:    "Run a strategic link building campaign targeting high-DR referring domains",
			enhance:     "Analyze competitor backlink profiles; focus on editorial links; create data-driven content for natural links.",
		},
		{
			name: "Few referring domains", impact: 90,
			current:     "Requires backlink analysis tool",
			recommended: "100+ quality referring domains",
			cons:        "Limited backlink diversity hurts rankings",
			ranking:     "Backlinks are a top 3 ranking factor (30-40% weight)",
			solution:    "Build high-quality backlinks through content marketing, outreach and PR",
			enhance:     "Create linkable assets (tools, research, infographics); guest post on authority sites; monitor competitor backlinks.",
		},
		{
			name: "High percentage of backlinks from low-authority domains", impact: 80,
			current:     "Requires backlink audit",
			recommended: "<30% from low-authority sites",
			cons:        "Low-quality backlinks can hurt rankings",
			ranking:     "Poor link quality can reduce rankings by 20-40%",
			solution:    "Disavow spammy links, focus on quality link acquisition",
			enhance:     "Run regular backlink audits; use Google's Disavow Tool for toxic links; prioritize editorial links.",
		},
		{
			name: "High spam score in backlink profile", impact: 88,
			current:     "Requires Moz or similar tool",
			recommended: "Spam score <5%",
			cons:        "High spam score can trigger penalties",
			ranking:     "Toxic backlinks can cause 30-50% ranking drops",
			solution:    "Audit and disavow toxic backlinks using Google Search Console",
			enhance:     "Monitor spam score monthly; maintain the disavow file proactively; avoid link schemes.",
		},
		{
			name: "Unnatural anchor text distribution", impact: 75,
			current:     "Requires backlink analysis",
			recommended: "Natural mix: 40% branded, 30% generic, 20% exact, 10% other",
			cons:        "Over-optimized anchors can trigger penalties",
			ranking:     "Unnatural anchor distribution risks 20-30% ranking penalty",
			solution:    "Diversify anchor text naturally and avoid over-optimization",
			enhance:     "Monitor anchor text ratios monthly; use branded and naked URLs; avoid exact match over-optimization.",
		},
		{
			name: "No-follow ratio too high", impact: 70,
			current:     "Requires link profile analysis",
			recommended: "80-90% dofollow links",
			cons:        "Too many nofollow links reduce SEO benefit",
			ranking:     "High nofollow ratio limits ranking power by 15-25%",
			solution:    "Focus on earning editorial, dofollow links from quality sites",
			enhance:     "Target editorial content placements; guest post on relevant blogs; create newsworthy content.",
		},
		{
			name: "Missing citations from industry directories", impact: 60,
			current:     "Manual verification required",
			recommended: "Listed in top 20 industry directories",
			cons:        "Missing directory presence limits local/industry visibility",
			ranking:     "Directory citations provide a 5-10% ranking boost for industry searches",
			solution:    "Submit to relevant industry directories and local business listings",
			enhance:     "Identify top industry directories; ensure NAP consistency; claim and optimize profiles.",
		},
		{
			name: "No guest posting or outreach strategy", impact: 72,
			current:     "Strategic assessment needed",
			recommended: "Active outreach program with 2-4 quality placements/month",
			cons:        "A passive approach misses link building opportunities",
			ranking:     "Active outreach can improve rankings by 15-25% over 6 months",
			solution:    "Develop a systematic guest posting and digital PR outreach program",
			enhance:     "Identify target publications; track outreach metrics; build journalist relationships.",
		},
		{
			name: "Competitor backlink gap", impact: 85,
			current:     "Competitive analysis required",
			recommended: "Within 20% of top 3 competitors",
			cons:        "A backlink deficit limits competitive ranking ability",
			ranking:     "Closing the backlink gap can improve rankings by 20-40%",
			solution:    "Analyze competitor backlinks and replicate successful link sources",
			enhance:     "Use Ahrefs/Semrush for gap analysis; target competitor link sources; create superior content for the same sources.",
		},
	}

	checks := make([]Check, 0, len(entries))
	for _, e := range entries {
		checks = append(checks, Check{
			Name: e.name, Category: CategoryOffPage, Impact: e.impact,
			Evaluate: func(_ *crawl.Result) Outcome {
				return needsData(e.current, e.solution).
					withAdvice(e.recommended, "", e.cons, e.ranking, e.solution).
					withEnhancements(e.enhance)
			},
		})
	}
	return checks
}
