// Package audit implements the audit lifecycle: creation with quota
// enforcement, the background pipeline that crawls, checks and scores a
// site, and the HTTP surface for polling results.
package audit

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

// Storage is the slice of the store the service reads and writes.
type Storage interface {
	CreateAudit(ctx context.Context, a *model.Audit) error
	GetAudit(ctx context.Context, auditID string) (*model.Audit, error)
	ListAudits(ctx context.Context, ownerID string, limit, offset int) ([]model.Audit, error)
	GetFindings(ctx context.Context, auditID string) ([]model.Finding, error)
}

// QuotaChecker decides whether an owner may start another audit and how many
// pages that audit may crawl.
type QuotaChecker interface {
	Allow(ctx context.Context, ownerID string) (maxPages int, err error)
}

// Enqueuer hands a created audit to the background workers.
type Enqueuer interface {
	Enqueue(job Job) error
}

// Job is one unit of background work: run the full pipeline for an audit.
type Job struct {
	AuditID  string
	SeedURL  string
	MaxPages int
}

type Service struct {
	store  Storage
	quota  QuotaChecker
	queue  Enqueuer
	logger *slog.Logger
}

func NewService(store Storage, quota QuotaChecker, queue Enqueuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, quota: quota, queue: queue, logger: logger}
}

// Create validates the URL, checks the owner's quota, persists a pending
// audit and enqueues the background job.
func (s *Service) Create(ctx context.Context, ownerID, websiteURL string) (*model.Audit, error) {
	seed, err := validateWebsiteURL(websiteURL)
	if err != nil {
		return nil, err
	}

	maxPages, err := s.quota.Allow(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	a := &model.Audit{
		OwnerID:    ownerID,
		WebsiteURL: seed,
		Status:     model.StatusPending,
	}
	if err := s.store.CreateAudit(ctx, a); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(Job{AuditID: a.ID, SeedURL: seed, MaxPages: maxPages}); err != nil {
		s.logger.Error("enqueue failed", "audit_id", a.ID, "error", err)
		return nil, err
	}

	s.logger.Info("audit created", "audit_id", a.ID, "owner_id", ownerID, "url", seed, "max_pages", maxPages)
	return a, nil
}

// Get returns the audit; findings are attached only once it completed.
func (s *Service) Get(ctx context.Context, auditID string) (*model.Audit, []model.Finding, error) {
	a, err := s.store.GetAudit(ctx, auditID)
	if err != nil {
		return nil, nil, err
	}
	if a.Status != model.StatusCompleted {
		return a, nil, nil
	}
	findings, err := s.store.GetFindings(ctx, auditID)
	if err != nil {
		return nil, nil, err
	}
	return a, findings, nil
}

// List returns the owner's audits, newest first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]model.Audit, error) {
	return s.store.ListAudits(ctx, ownerID, limit, offset)
}

func validateWebsiteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "website_url is required"}
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "website_url must be a valid http(s) URL"}
	}
	if !strings.Contains(u.Hostname(), ".") && u.Hostname() != "localhost" {
		return "", &errs.AppError{Kind: errs.InvalidInput, Message: "website_url must include a registrable domain"}
	}
	return u.String(), nil
}
