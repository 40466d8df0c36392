package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mjseo/auditor/internal/crawl"
	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
	"github.com/mjseo/auditor/internal/score"
)

// PipelineStorage is the slice of the store the background pipeline mutates.
type PipelineStorage interface {
	TransitionStatus(ctx context.Context, auditID string, next model.AuditStatus) error
	SetCrawlStats(ctx context.Context, auditID string, crawled, failed int, crawlMS, avgPageMS int64) error
	CompleteAudit(ctx context.Context, a *model.Audit, findings []model.Finding) error
	FailAudit(ctx context.Context, auditID, reason, message string) error
	GetAudit(ctx context.Context, auditID string) (*model.Audit, error)
}

// Crawler produces the crawl result the checks consume.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, maxPages int) (*crawl.Result, error)
}

// CheckRunner evaluates the catalog against one crawl.
type CheckRunner interface {
	Run(ctx context.Context, site *crawl.Result) ([]model.Finding, error)
}

// SummaryWriter produces the narrative summary and the homepage markdown kept
// for chat context; both degrade internally and never return an error.
type SummaryWriter interface {
	Summary(ctx context.Context, a *model.Audit, findings []model.Finding) string
	PageContext(rawHTML string) string
}

// Orchestrator drives one audit through its state machine:
// pending → crawling → analyzing → generating_report → completed, failing
// out of any non-terminal state on an unrecoverable error.
type Orchestrator struct {
	store    PipelineStorage
	crawler  Crawler
	runner   CheckRunner
	narrator SummaryWriter
	logger   *slog.Logger
}

func NewOrchestrator(store PipelineStorage, crawler Crawler, runner CheckRunner, narrator SummaryWriter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{store: store, crawler: crawler, runner: runner, narrator: narrator, logger: logger}
}

// Process runs the full pipeline for one job. Errors are absorbed into the
// audit's failed state; Process itself only returns the context's error so
// a shutdown can be distinguished from a failed audit.
func (o *Orchestrator) Process(ctx context.Context, job Job) error {
	log := o.logger.With("audit_id", job.AuditID, "url", job.SeedURL)

	if err := o.store.TransitionStatus(ctx, job.AuditID, model.StatusCrawling); err != nil {
		log.Error("transition to crawling failed", "error", err)
		if ctx.Err() == nil {
			o.fail(job.AuditID, reasonOf(err), err.Error())
		}
		return ctx.Err()
	}

	started := time.Now()
	site, err := o.crawler.Crawl(ctx, job.SeedURL, job.MaxPages)
	if err != nil {
		if ctx.Err() != nil {
			o.fail(job.AuditID, "internal_error", "audit interrupted by shutdown")
			return ctx.Err()
		}
		reason := "internal_error"
		if errors.Is(err, crawl.ErrNoPages) {
			reason = "crawl_unreachable"
		}
		log.Warn("crawl failed", "reason", reason, "error", err)
		o.fail(job.AuditID, reason, err.Error())
		return nil
	}
	crawlMS := time.Since(started).Milliseconds()

	avgMS := site.AvgLoadTime().Milliseconds()
	if err := o.store.SetCrawlStats(ctx, job.AuditID, len(site.Pages), len(site.Failures), crawlMS, avgMS); err != nil {
		log.Error("persist crawl stats failed", "error", err)
		o.fail(job.AuditID, reasonOf(err), err.Error())
		return ctx.Err()
	}
	log.Info("crawl finished", "pages", len(site.Pages), "failures", len(site.Failures), "elapsed_ms", crawlMS)

	if err := o.store.TransitionStatus(ctx, job.AuditID, model.StatusAnalyzing); err != nil {
		log.Error("transition to analyzing failed", "error", err)
		if ctx.Err() == nil {
			o.fail(job.AuditID, reasonOf(err), err.Error())
		}
		return ctx.Err()
	}

	findings, err := o.runner.Run(ctx, site)
	if err != nil {
		if ctx.Err() != nil {
			o.fail(job.AuditID, "internal_error", "audit interrupted by shutdown")
			return ctx.Err()
		}
		log.Error("check run failed", "error", err)
		o.fail(job.AuditID, "internal_error", err.Error())
		return nil
	}

	summary, err := score.Compute(findings)
	if err != nil {
		log.Error("scoring failed", "error", err)
		o.fail(job.AuditID, reasonOf(err), err.Error())
		return nil
	}

	if err := o.store.TransitionStatus(ctx, job.AuditID, model.StatusGeneratingReport); err != nil {
		log.Error("transition to generating_report failed", "error", err)
		if ctx.Err() == nil {
			o.fail(job.AuditID, reasonOf(err), err.Error())
		}
		return ctx.Err()
	}

	a, err := o.store.GetAudit(ctx, job.AuditID)
	if err != nil {
		log.Error("reload audit failed", "error", err)
		o.fail(job.AuditID, reasonOf(err), err.Error())
		return ctx.Err()
	}
	a.TotalChecks = summary.Total
	a.ChecksPassed = summary.Passed
	a.ChecksFailed = summary.Failed
	a.ChecksWarning = summary.Warnings
	overall := summary.Overall
	a.OverallScore = &overall
	a.PagesCrawled = len(site.Pages)
	a.PagesFailed = len(site.Failures)
	a.Summary = o.narrator.Summary(ctx, a, findings)
	if len(site.Pages) > 0 {
		a.TopPageMarkdown = o.narrator.PageContext(site.Pages[0].HTML)
	}

	if err := o.store.CompleteAudit(ctx, a, findings); err != nil {
		log.Error("completion write failed", "error", err)
		o.fail(job.AuditID, reasonOf(err), err.Error())
		return ctx.Err()
	}

	log.Info("audit completed", "score", score.Round1(summary.Overall),
		"passed", summary.Passed, "failed", summary.Failed, "warnings", summary.Warnings)
	return nil
}

// fail marks the audit failed on a fresh context; the pipeline context may
// already be canceled when this runs.
func (o *Orchestrator) fail(auditID, reason, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.store.FailAudit(ctx, auditID, reason, message); err != nil {
		o.logger.Error("failed to mark audit failed", "audit_id", auditID, "error", err)
	}
}

func reasonOf(err error) string {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return appErr.Reason()
	}
	return "internal_error"
}
