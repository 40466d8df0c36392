package checks

import (
	"fmt"
	"strings"

	"github.com/mjseo/auditor/internal/crawl"
	"github.com/mjseo/auditor/internal/model"
)

// pass/fail/warn build Outcomes with the check's explanatory text attached.

func pass(current string) Outcome {
	return Outcome{Status: model.StatusPass, CurrentValue: current}
}

func fail(current string) Outcome {
	return Outcome{Status: model.StatusFail, CurrentValue: current}
}

func warn(current string) Outcome {
	return Outcome{Status: model.StatusWarning, CurrentValue: current}
}

// withAdvice fills the advice fields on an outcome in one call.
func (o Outcome) withAdvice(recommended, pros, cons, impact, solution string) Outcome {
	o.RecommendedValue = recommended
	o.Pros = pros
	o.Cons = cons
	o.RankingImpact = impact
	o.Solution = solution
	return o
}

func (o Outcome) withEnhancements(enhancements string) Outcome {
	o.Enhancements = enhancements
	return o
}

// needsData is the outcome for checks whose signal requires data sources the
// crawl does not reach (backlink indexes, search console, lab performance
// runs). They always warn so the score denominator stays stable.
func needsData(current, solution string) Outcome {
	return Outcome{
		Status:       model.StatusWarning,
		CurrentValue: current,
		Solution:     solution,
	}
}

// sampleURLs formats up to three offending page URLs for a finding's
// current value.
func sampleURLs(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	shown := urls
	if len(shown) > 3 {
		shown = shown[:3]
	}
	s := strings.Join(shown, ", ")
	if rest := len(urls) - len(shown); rest > 0 {
		s += fmt.Sprintf(" ...and %d more", rest)
	}
	return s
}

// affected formats "N of M pages: url, url, url ...and K more".
func affected(urls []string, total int, what string) string {
	return fmt.Sprintf("%d of %d pages %s: %s", len(urls), total, what, sampleURLs(urls))
}

// collectPages returns the URLs of pages matching the predicate.
func collectPages(site *crawl.Result, match func(p *crawl.PageRecord) bool) []string {
	var out []string
	for i := range site.Pages {
		if match(&site.Pages[i]) {
			out = append(out, site.Pages[i].URL)
		}
	}
	return out
}

// ratio is the fraction of pages matched, 0 when the crawl is empty.
func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// noPages is the outcome every page-driven check emits when the crawl
// produced nothing to inspect.
func noPages() Outcome {
	return Outcome{
		Status:       model.StatusWarning,
		CurrentValue: "No pages were crawled",
		Solution:     "Verify the site is reachable and serves HTML, then re-run the audit.",
	}
}

// headerValue reads a response header off the first page that has it.
func headerValue(site *crawl.Result, name string) string {
	for i := range site.Pages {
		if v := site.Pages[i].Headers.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// containsAny reports whether s contains any of the needles.
func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
