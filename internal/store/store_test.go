package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

// openTestStore opens an in-memory database. MaxOpenConns(1) keeps every
// query on the same connection; each :memory: connection is its own database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return New(db)
}

func newAudit(t *testing.T, s *Store) *model.Audit {
	t.Helper()
	a := &model.Audit{OwnerID: "user-1", WebsiteURL: "https://example.com"}
	if err := s.CreateAudit(context.Background(), a); err != nil {
		t.Fatalf("CreateAudit: %v", err)
	}
	return a
}

func kindOf(t *testing.T, err error) errs.Kind {
	t.Helper()
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an AppError", err)
	}
	return appErr.Kind
}

func TestMigrateIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()
	for range 3 {
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("plans seeded = %d, want 4", n)
	}
}

func TestCreateAndGetAudit(t *testing.T) {
	s := openTestStore(t)
	a := newAudit(t, s)

	got, err := s.GetAudit(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("GetAudit: %v", err)
	}
	if got.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.WebsiteURL != "https://example.com" || got.OwnerID != "user-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.OverallScore != nil {
		t.Error("new audit should have nil score")
	}
}

func TestGetAuditNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetAudit(context.Background(), "nope")
	if kindOf(t, err) != errs.NotFound {
		t.Errorf("kind = %v, want NotFound", kindOf(t, err))
	}
}

func TestTransitionStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)

	for _, next := range []model.AuditStatus{
		model.StatusCrawling, model.StatusAnalyzing, model.StatusGeneratingReport,
	} {
		if err := s.TransitionStatus(ctx, a.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// Backward jumps are rejected and leave the row alone.
	err := s.TransitionStatus(ctx, a.ID, model.StatusCrawling)
	if kindOf(t, err) != errs.Conflict {
		t.Errorf("backward transition kind = %v, want Conflict", kindOf(t, err))
	}
	got, _ := s.GetAudit(ctx, a.ID)
	if got.Status != model.StatusGeneratingReport {
		t.Errorf("status after rejected transition = %q", got.Status)
	}
}

func TestTransitionToFailedAllowedAnywhere(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)
	if err := s.TransitionStatus(ctx, a.ID, model.StatusFailed); err != nil {
		t.Fatalf("pending -> failed: %v", err)
	}
	// Terminal states refuse everything.
	err := s.TransitionStatus(ctx, a.ID, model.StatusCrawling)
	if kindOf(t, err) != errs.Conflict {
		t.Errorf("transition out of failed kind = %v, want Conflict", kindOf(t, err))
	}
}

func TestCompleteAuditAtomic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)

	score := 76.9230769
	a.TotalChecks = 3
	a.ChecksPassed = 1
	a.ChecksFailed = 1
	a.ChecksWarning = 1
	a.OverallScore = &score
	a.Summary = "One of three checks passed."
	a.TopPageMarkdown = "# Home\n\nWelcome."
	findings := []model.Finding{
		{Category: "Technical SEO", CheckName: "Website not using HTTPS", Status: model.StatusPass, ImpactScore: 95, CurrentValue: "All pages HTTPS"},
		{Category: "On-Page SEO", CheckName: "Meta title issues", Status: model.StatusFail, ImpactScore: 100, CurrentValue: "1 page missing a title"},
		{Category: "Performance", CheckName: "Browser caching not enabled", Status: model.StatusWarning, ImpactScore: 85, CurrentValue: "No Cache-Control header"},
	}
	if err := s.CompleteAudit(ctx, a, findings); err != nil {
		t.Fatalf("CompleteAudit: %v", err)
	}

	got, err := s.GetAudit(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.OverallScore == nil || *got.OverallScore != score {
		t.Errorf("score = %v, want %v unrounded", got.OverallScore, score)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not set")
	}
	if got.TopPageMarkdown != "# Home\n\nWelcome." {
		t.Errorf("top page markdown = %q", got.TopPageMarkdown)
	}

	stored, err := s.GetFindings(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 {
		t.Fatalf("findings = %d, want 3", len(stored))
	}
	// Ordered by impact, highest first.
	if stored[0].CheckName != "Meta title issues" || stored[2].CheckName != "Website not using HTTPS" {
		t.Errorf("findings not ordered by impact: %q, %q, %q",
			stored[0].CheckName, stored[1].CheckName, stored[2].CheckName)
	}
}

func TestFailAuditClearsFindings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)

	score := 10.0
	a.OverallScore = &score
	a.TotalChecks = 1
	if err := s.CompleteAudit(ctx, a, []model.Finding{
		{Category: "c", CheckName: "n", Status: model.StatusFail, ImpactScore: 50},
	}); err != nil {
		t.Fatal(err)
	}

	b := newAudit(t, s)
	if err := s.FailAudit(ctx, b.ID, "crawl_unreachable", "no page could be fetched"); err != nil {
		t.Fatalf("FailAudit: %v", err)
	}
	got, _ := s.GetAudit(ctx, b.ID)
	if got.Status != model.StatusFailed || got.FailureReason != "crawl_unreachable" {
		t.Errorf("failed audit = %+v", got)
	}
	findings, _ := s.GetFindings(ctx, b.ID)
	if len(findings) != 0 {
		t.Errorf("failed audit has %d findings, want 0", len(findings))
	}
	// The completed audit's findings are untouched.
	findings, _ = s.GetFindings(ctx, a.ID)
	if len(findings) != 1 {
		t.Errorf("completed audit findings = %d, want 1", len(findings))
	}
}

func TestListAuditsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := range 3 {
		a := &model.Audit{
			OwnerID:    "user-1",
			WebsiteURL: "https://example.com",
			CreatedAt:  time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := s.CreateAudit(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateAudit(ctx, &model.Audit{OwnerID: "user-2", WebsiteURL: "https://other.com"}); err != nil {
		t.Fatal(err)
	}

	audits, err := s.ListAudits(ctx, "user-1", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(audits) != 3 {
		t.Fatalf("got %d audits, want 3", len(audits))
	}
	for i := 1; i < len(audits); i++ {
		if audits[i].CreatedAt.After(audits[i-1].CreatedAt) {
			t.Error("audits not ordered newest first")
		}
	}

	page, err := s.ListAudits(ctx, "user-1", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 {
		t.Errorf("offset page = %d audits, want 1", len(page))
	}
}

func TestCountAuditsSince(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	old := &model.Audit{OwnerID: "u", WebsiteURL: "https://a.com", CreatedAt: time.Now().UTC().AddDate(0, -2, 0)}
	if err := s.CreateAudit(ctx, old); err != nil {
		t.Fatal(err)
	}
	recent := newAuditOwned(t, s, "u")
	failed := newAuditOwned(t, s, "u")
	if err := s.TransitionStatus(ctx, failed.ID, model.StatusFailed); err != nil {
		t.Fatal(err)
	}
	_ = recent

	since := time.Now().UTC().AddDate(0, -1, 0)
	n, err := s.CountAuditsSince(ctx, "u", since)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1 (old and failed excluded)", n)
	}
}

func newAuditOwned(t *testing.T, s *Store, owner string) *model.Audit {
	t.Helper()
	a := &model.Audit{OwnerID: owner, WebsiteURL: "https://example.com"}
	if err := s.CreateAudit(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestGetPlan(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetPlan(context.Background(), "free")
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if p.MaxAuditsPerMonth != 2 || p.MaxPagesPerAudit != 5 {
		t.Errorf("free plan quotas = %d/%d, want 2/5", p.MaxAuditsPerMonth, p.MaxPagesPerAudit)
	}
	_, err = s.GetPlan(context.Background(), "platinum")
	if kindOf(t, err) != errs.NotFound {
		t.Errorf("unknown plan kind = %v, want NotFound", kindOf(t, err))
	}
}

func TestChatMessages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)

	msgs := []model.ChatMessage{
		{AuditID: a.ID, Role: "user", Content: "Why is my score low?", CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{AuditID: a.ID, Role: "assistant", Content: "Several checks failed.", CreatedAt: time.Date(2026, 8, 1, 10, 0, 5, 0, time.UTC)},
	}
	for i := range msgs {
		if err := s.AddChatMessage(ctx, &msgs[i]); err != nil {
			t.Fatalf("AddChatMessage: %v", err)
		}
	}

	got, err := s.ListChatMessages(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "assistant" {
		t.Errorf("messages out of order: %q then %q", got[0].Role, got[1].Role)
	}
}

func TestCascadeDeleteFindings(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := newAudit(t, s)
	score := 50.0
	a.OverallScore = &score
	a.TotalChecks = 1
	if err := s.CompleteAudit(ctx, a, []model.Finding{
		{Category: "c", CheckName: "n", Status: model.StatusPass, ImpactScore: 10},
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE id = ?`, a.ID); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_findings`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("findings remain after audit delete: %d", n)
	}
}
