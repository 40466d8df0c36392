// Package score turns a slice of findings into the audit's overall 0-100
// score and its pass/fail/warning tallies.
package score

import (
	"math"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

// ErrNoChecks is returned when scoring runs over zero findings. A score over
// an empty catalog is undefined, so the audit fails rather than reporting a
// misleading 0 or 100.
var ErrNoChecks = &errs.AppError{Kind: errs.ScoringUndefined, Message: "score: no checks executed"}

// Summary is the scored rollup of one audit's findings. Overall is the
// unrounded value; callers round only for display.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int

	// PenaltySum is the summed impact of every failed and warning check.
	PenaltySum int

	Overall float64
}

// Compute aggregates findings into a Summary.
//
// The score starts from the pass rate and subtracts a dampened penalty
// proportional to the impact of everything that did not pass:
//
//	base    = passed/total * 100
//	penalty = penaltySum/total * 0.3
//	overall = clamp(base-penalty, 0, 100)
//
// Warnings carry their full impact in the penalty; a check that could not be
// evaluated weighs the same as one that failed outright.
func Compute(findings []model.Finding) (Summary, error) {
	if len(findings) == 0 {
		return Summary{}, ErrNoChecks
	}

	s := Summary{Total: len(findings)}
	for i := range findings {
		switch findings[i].Status {
		case model.StatusPass:
			s.Passed++
		case model.StatusFail:
			s.Failed++
			s.PenaltySum += findings[i].ImpactScore
		default:
			s.Warnings++
			s.PenaltySum += findings[i].ImpactScore
		}
	}

	total := float64(s.Total)
	base := float64(s.Passed) / total * 100
	penalty := float64(s.PenaltySum) / total * 0.3
	s.Overall = math.Min(100, math.Max(0, base-penalty))
	return s, nil
}

// Round1 rounds a score to one decimal place for display.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
