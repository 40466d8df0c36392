package score

import (
	"errors"
	"math"
	"testing"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

func findingsWith(passed, failed, warned int, impact int) []model.Finding {
	var out []model.Finding
	for range passed {
		out = append(out, model.Finding{Status: model.StatusPass, ImpactScore: impact})
	}
	for range failed {
		out = append(out, model.Finding{Status: model.StatusFail, ImpactScore: impact})
	}
	for range warned {
		out = append(out, model.Finding{Status: model.StatusWarning, ImpactScore: impact})
	}
	return out
}

func TestComputeLiteralFormula(t *testing.T) {
	// 130 checks, 100 passed, 30 failed with impacts summing to 450.
	findings := findingsWith(100, 30, 0, 15) // 30 * 15 = 450
	s, err := Compute(findings)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	want := 100.0*100/130 - (450.0/130)*0.3
	if math.Abs(s.Overall-want) > 1e-9 {
		t.Errorf("Overall = %v, want %v", s.Overall, want)
	}
	if s.Passed != 100 || s.Failed != 30 || s.Warnings != 0 {
		t.Errorf("tallies = %d/%d/%d, want 100/30/0", s.Passed, s.Failed, s.Warnings)
	}
	if s.PenaltySum != 450 {
		t.Errorf("PenaltySum = %d, want 450", s.PenaltySum)
	}
}

func TestComputeWarningsPenalizeFully(t *testing.T) {
	failed, err := Compute(findingsWith(5, 5, 0, 80))
	if err != nil {
		t.Fatal(err)
	}
	warned, err := Compute(findingsWith(5, 0, 5, 80))
	if err != nil {
		t.Fatal(err)
	}
	if failed.Overall != warned.Overall {
		t.Errorf("warning penalty %v != fail penalty %v", warned.Overall, failed.Overall)
	}
}

func TestComputeAllPassed(t *testing.T) {
	s, err := Compute(findingsWith(10, 0, 0, 90))
	if err != nil {
		t.Fatal(err)
	}
	if s.Overall != 100 {
		t.Errorf("all-pass score = %v, want 100", s.Overall)
	}
}

func TestComputeClampsAtZero(t *testing.T) {
	// base 0, penalty 100*0.3 = 30; unclamped would be -30.
	s, err := Compute(findingsWith(0, 10, 0, 100))
	if err != nil {
		t.Fatal(err)
	}
	if s.Overall != 0 {
		t.Errorf("all-fail score = %v, want 0", s.Overall)
	}
}

func TestComputeNoChecks(t *testing.T) {
	_, err := Compute(nil)
	if err == nil {
		t.Fatal("expected error for zero findings")
	}
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.ScoringUndefined {
		t.Errorf("error = %v, want ScoringUndefined AppError", err)
	}
}

func TestComputeDeterministic(t *testing.T) {
	findings := findingsWith(7, 2, 3, 60)
	a, _ := Compute(findings)
	b, _ := Compute(findings)
	if a != b {
		t.Errorf("repeated compute differs: %+v vs %+v", a, b)
	}
}

func TestRound1(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{76.9230769, 76.9},
		{76.95, 77.0},
		{0, 0},
		{100, 100},
	}
	for _, tc := range cases {
		if got := Round1(tc.in); got != tc.want {
			t.Errorf("Round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
