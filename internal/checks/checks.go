// Package checks evaluates a crawled site against the audit rule catalog.
// Each check inspects the crawl result and produces one finding; the full
// catalog is registered once and runs as a bounded parallel batch.
package checks

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mjseo/auditor/internal/crawl"
	"github.com/mjseo/auditor/internal/model"
)

// Outcome is what a single check reports: a status plus the explanatory
// fields surfaced to the user.
type Outcome struct {
	Status           model.CheckStatus
	CurrentValue     string
	RecommendedValue string
	Pros             string
	Cons             string
	RankingImpact    string
	Solution         string
	Enhancements     string
}

// Check is one catalog entry. Impact weights the check in the overall score;
// Evaluate must be safe to call concurrently with other checks.
type Check struct {
	Name     string
	Category string
	Impact   int
	Evaluate func(site *crawl.Result) Outcome
}

// Category names, in report order.
const (
	CategoryTechnical   = "Technical SEO"
	CategoryPerformance = "Performance"
	CategoryOnPage      = "On-Page SEO"
	CategoryContent     = "Content Quality"
	CategorySocial      = "Social Media"
	CategoryOffPage     = "Off-Page SEO"
	CategoryAnalytics   = "Analytics & Reporting"
	CategoryGeoAeo      = "GEO & AEO"
	CategoryAdvanced    = "Advanced Technical & Security"
)

// Registry returns the full check catalog. The slice order is stable, so
// findings come back in the same order on every run.
func Registry() []Check {
	var all []Check
	all = append(all, technicalChecks()...)
	all = append(all, performanceChecks()...)
	all = append(all, onPageChecks()...)
	all = append(all, contentChecks()...)
	all = append(all, socialChecks()...)
	all = append(all, offPageChecks()...)
	all = append(all, analyticsChecks()...)
	all = append(all, geoAeoChecks()...)
	all = append(all, advancedChecks()...)
	return all
}

// Runner executes a check catalog against one crawl result.
type Runner struct {
	catalog  []Check
	parallel int
	logger   *slog.Logger
}

// NewRunner builds a Runner over the given catalog. parallel bounds how many
// checks evaluate at once.
func NewRunner(catalog []Check, parallel int, logger *slog.Logger) *Runner {
	if parallel < 1 {
		parallel = 1
	}
	return &Runner{catalog: catalog, parallel: parallel, logger: logger}
}

// Run evaluates every check and returns findings in catalog order. A check
// that panics is recorded as a warning finding rather than failing the batch.
// When the crawl produced no pages the catalog still runs; checks report
// warnings for what they could not evaluate.
func (r *Runner) Run(ctx context.Context, site *crawl.Result) ([]model.Finding, error) {
	findings := make([]model.Finding, len(r.catalog))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i, check := range r.catalog {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			findings[i] = r.evaluate(check, site)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return findings, nil
}

func (r *Runner) evaluate(check Check, site *crawl.Result) (finding model.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			if r.logger != nil {
				r.logger.Error("check panicked", "check", check.Name, "panic", fmt.Sprint(rec))
			}
			finding = model.Finding{
				Category:     check.Category,
				CheckName:    check.Name,
				Status:       model.StatusWarning,
				ImpactScore:  check.Impact,
				CurrentValue: "Check could not be completed",
				Solution:     "Re-run the audit; if the problem persists the page content may be unusual enough to confuse this check.",
			}
		}
	}()

	out := check.Evaluate(site)
	return model.Finding{
		Category:         check.Category,
		CheckName:        check.Name,
		Status:           out.Status,
		ImpactScore:      check.Impact,
		CurrentValue:     out.CurrentValue,
		RecommendedValue: out.RecommendedValue,
		Pros:             out.Pros,
		Cons:             out.Cons,
		RankingImpact:    out.RankingImpact,
		Solution:         out.Solution,
		Enhancements:     out.Enhancements,
	}
}
