package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

// QuotaStorage is what plan-based quota enforcement needs from the store.
type QuotaStorage interface {
	GetPlan(ctx context.Context, name string) (*model.Plan, error)
	CountAuditsSince(ctx context.Context, ownerID string, since time.Time) (int, error)
}

// PlanQuota enforces the subscription plan's monthly audit ceiling and hands
// back the plan's max-pages-per-audit, clamped to the deployment-wide page
// cap. The plan is resolved per owner by the injected resolver; the default
// resolver maps everyone to one configured plan, since billing integration
// lives outside this service.
type PlanQuota struct {
	store    QuotaStorage
	planFor  func(ownerID string) string
	pagesCap int
	now      func() time.Time
}

// NewPlanQuota builds a quota over the store. pagesCap bounds the pages any
// single audit may crawl regardless of plan; zero means no deployment cap.
func NewPlanQuota(store QuotaStorage, defaultPlan string, pagesCap int) *PlanQuota {
	if defaultPlan == "" {
		defaultPlan = "free"
	}
	return &PlanQuota{
		store:    store,
		planFor:  func(string) string { return defaultPlan },
		pagesCap: pagesCap,
		now:      time.Now,
	}
}

// Allow returns the page ceiling for a new audit, or a QuotaExceeded error
// when the owner used up this calendar month's audits.
func (q *PlanQuota) Allow(ctx context.Context, ownerID string) (int, error) {
	plan, err := q.store.GetPlan(ctx, q.planFor(ownerID))
	if err != nil {
		return 0, err
	}

	now := q.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	used, err := q.store.CountAuditsSince(ctx, ownerID, monthStart)
	if err != nil {
		return 0, err
	}
	if used >= plan.MaxAuditsPerMonth {
		return 0, &errs.AppError{
			Kind: errs.QuotaExceeded,
			Message: fmt.Sprintf("monthly audit limit reached (%d/%d on the %s plan)",
				used, plan.MaxAuditsPerMonth, plan.Name),
		}
	}
	maxPages := plan.MaxPagesPerAudit
	if q.pagesCap > 0 && maxPages > q.pagesCap {
		maxPages = q.pagesCap
	}
	return maxPages, nil
}
