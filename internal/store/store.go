// Package store persists audits, findings, chat history and plans in SQLite.
// One Store wraps one *sql.DB; all methods are safe for concurrent use.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func persistErr(op string, err error) error {
	return &errs.AppError{Kind: errs.Persistence, Message: "store: " + op, Cause: err}
}

// CreateAudit inserts a new pending audit. ID and timestamps are filled in
// if the caller left them zero.
func (s *Store) CreateAudit(ctx context.Context, a *model.Audit) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = model.StatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audits (id, owner_id, website_url, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.WebsiteURL, string(a.Status), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return persistErr("create audit", err)
	}
	return nil
}

// TransitionStatus moves an audit to next, enforcing the forward-only state
// machine inside one transaction. An illegal transition returns a Conflict
// error and leaves the row untouched.
func (s *Store) TransitionStatus(ctx context.Context, auditID string, next model.AuditStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM audits WHERE id = ?`, auditID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	if err != nil {
		return persistErr("read status", err)
	}
	if !model.AuditStatus(current).CanTransitionTo(next) {
		return &errs.AppError{
			Kind:    errs.Conflict,
			Message: fmt.Sprintf("illegal audit transition %s -> %s", current, next),
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE audits SET status = ?, updated_at = ? WHERE id = ?`,
		string(next), time.Now().UTC(), auditID)
	if err != nil {
		return persistErr("update status", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// SetCrawlStats records crawl health on the audit row once the crawl phase
// finishes.
func (s *Store) SetCrawlStats(ctx context.Context, auditID string, crawled, failed int, crawlMS, avgPageMS int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE audits SET pages_crawled = ?, pages_failed = ?, crawl_time_ms = ?, avg_page_time_ms = ?, updated_at = ?
		 WHERE id = ?`,
		crawled, failed, crawlMS, avgPageMS, time.Now().UTC(), auditID)
	if err != nil {
		return persistErr("set crawl stats", err)
	}
	return nil
}

// CompleteAudit writes the findings and flips the audit to completed in one
// transaction. Either everything lands or nothing does; a completed audit
// without its findings is never observable.
func (s *Store) CompleteAudit(ctx context.Context, a *model.Audit, findings []model.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO audit_findings
		 (id, audit_id, category, check_name, status, impact_score,
		  current_value, recommended_value, pros, cons, ranking_impact, solution, enhancements)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return persistErr("prepare findings", err)
	}
	defer stmt.Close()

	for i := range findings {
		f := &findings[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		f.AuditID = a.ID
		_, err := stmt.ExecContext(ctx,
			f.ID, f.AuditID, f.Category, f.CheckName, string(f.Status), f.ImpactScore,
			f.CurrentValue, f.RecommendedValue, f.Pros, f.Cons, f.RankingImpact, f.Solution, f.Enhancements)
		if err != nil {
			return persistErr("insert finding", err)
		}
	}

	now := time.Now().UTC()
	var score sql.NullFloat64
	if a.OverallScore != nil {
		score = sql.NullFloat64{Float64: *a.OverallScore, Valid: true}
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE audits SET status = ?, total_checks_run = ?, checks_passed = ?, checks_failed = ?,
		        checks_warning = ?, overall_score = ?, summary = ?, top_page_md = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		string(model.StatusCompleted), a.TotalChecks, a.ChecksPassed, a.ChecksFailed,
		a.ChecksWarning, score, a.Summary, a.TopPageMarkdown, now, now, a.ID)
	if err != nil {
		return persistErr("complete audit", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// FailAudit marks the audit failed with a short reason. Any findings already
// attached are removed so a failed audit never carries partial results.
func (s *Store) FailAudit(ctx context.Context, auditID, reason, message string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM audit_findings WHERE audit_id = ?`, auditID); err != nil {
		return persistErr("clear findings", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE audits SET status = ?, failure_reason = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(model.StatusFailed), reason, message, time.Now().UTC(), auditID)
	if err != nil {
		return persistErr("fail audit", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

const auditColumns = `id, owner_id, website_url, status, pages_crawled, pages_failed,
	total_checks_run, checks_passed, checks_failed, checks_warning, overall_score,
	summary, top_page_md, failure_reason, error_message, crawl_time_ms, avg_page_time_ms,
	created_at, updated_at, completed_at`

func scanAudit(row interface{ Scan(...any) error }) (*model.Audit, error) {
	var a model.Audit
	var status string
	var score sql.NullFloat64
	var completed sql.NullTime
	err := row.Scan(&a.ID, &a.OwnerID, &a.WebsiteURL, &status, &a.PagesCrawled, &a.PagesFailed,
		&a.TotalChecks, &a.ChecksPassed, &a.ChecksFailed, &a.ChecksWarning, &score,
		&a.Summary, &a.TopPageMarkdown, &a.FailureReason, &a.ErrorMessage, &a.CrawlTimeMS, &a.AvgPageTimeMS,
		&a.CreatedAt, &a.UpdatedAt, &completed)
	if err != nil {
		return nil, err
	}
	a.Status = model.AuditStatus(status)
	if score.Valid {
		a.OverallScore = &score.Float64
	}
	if completed.Valid {
		t := completed.Time
		a.CompletedAt = &t
	}
	return &a, nil
}

func (s *Store) GetAudit(ctx context.Context, auditID string) (*model.Audit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = ?`, auditID)
	a, err := scanAudit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	if err != nil {
		return nil, persistErr("get audit", err)
	}
	return a, nil
}

// ListAudits returns an owner's audits newest first.
func (s *Store) ListAudits(ctx context.Context, ownerID string, limit, offset int) ([]model.Audit, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, persistErr("list audits", err)
	}
	defer rows.Close()

	var out []model.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, persistErr("scan audit", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list audits", err)
	}
	return out, nil
}

// GetFindings returns an audit's findings ordered by impact, highest first,
// the order reports and the UI present them in.
func (s *Store) GetFindings(ctx context.Context, auditID string) ([]model.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, audit_id, category, check_name, status, impact_score,
		        current_value, recommended_value, pros, cons, ranking_impact, solution, enhancements
		 FROM audit_findings WHERE audit_id = ? ORDER BY impact_score DESC, check_name`,
		auditID)
	if err != nil {
		return nil, persistErr("get findings", err)
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var f model.Finding
		var status string
		err := rows.Scan(&f.ID, &f.AuditID, &f.Category, &f.CheckName, &status, &f.ImpactScore,
			&f.CurrentValue, &f.RecommendedValue, &f.Pros, &f.Cons, &f.RankingImpact, &f.Solution, &f.Enhancements)
		if err != nil {
			return nil, persistErr("scan finding", err)
		}
		f.Status = model.CheckStatus(status)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("get findings", err)
	}
	return out, nil
}

// CountAuditsSince counts an owner's audits created at or after since,
// excluding failed ones. Used for monthly quota enforcement.
func (s *Store) CountAuditsSince(ctx context.Context, ownerID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE owner_id = ? AND created_at >= ? AND status != ?`,
		ownerID, since, string(model.StatusFailed)).Scan(&n)
	if err != nil {
		return 0, persistErr("count audits", err)
	}
	return n, nil
}

// GetPlan looks a plan up by name ("free", "pro", ...).
func (s *Store) GetPlan(ctx context.Context, name string) (*model.Plan, error) {
	var p model.Plan
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, display_name, price, max_audits_per_month, max_pages_per_audit
		 FROM plans WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &p.DisplayName, &p.Price, &p.MaxAuditsPerMonth, &p.MaxPagesPerAudit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.AppError{Kind: errs.NotFound, Message: "plan not found: " + name}
	}
	if err != nil {
		return nil, persistErr("get plan", err)
	}
	return &p, nil
}

// AddChatMessage appends one message to an audit's conversation.
func (s *Store) AddChatMessage(ctx context.Context, m *model.ChatMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, audit_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.AuditID, m.Role, m.Content, m.CreatedAt)
	if err != nil {
		return persistErr("add chat message", err)
	}
	return nil
}

// ListChatMessages returns an audit's conversation oldest first.
func (s *Store) ListChatMessages(ctx context.Context, auditID string) ([]model.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, audit_id, role, content, created_at FROM chat_messages
		 WHERE audit_id = ? ORDER BY created_at, id`, auditID)
	if err != nil {
		return nil, persistErr("list chat messages", err)
	}
	defer rows.Close()

	var out []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.AuditID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, persistErr("scan chat message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list chat messages", err)
	}
	return out, nil
}
