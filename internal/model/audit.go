package model

import "time"

// AuditStatus is the lifecycle state of an audit. Transitions are strictly
// forward: pending → crawling → analyzing → generating_report → completed,
// with failed reachable from any non-terminal state.
type AuditStatus string

const (
	StatusPending          AuditStatus = "pending"
	StatusCrawling         AuditStatus = "crawling"
	StatusAnalyzing        AuditStatus = "analyzing"
	StatusGeneratingReport AuditStatus = "generating_report"
	StatusCompleted        AuditStatus = "completed"
	StatusFailed           AuditStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s AuditStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal forward
// transition of the audit state machine.
func (s AuditStatus) CanTransitionTo(next AuditStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	order := map[AuditStatus]int{
		StatusPending:          0,
		StatusCrawling:         1,
		StatusAnalyzing:        2,
		StatusGeneratingReport: 3,
		StatusCompleted:        4,
	}
	a, okA := order[s]
	b, okB := order[next]
	return okA && okB && b == a+1
}

// Audit is the aggregate root a user observes: one crawl+check+score run
// against a single website.
type Audit struct {
	ID            string      `json:"id"`
	OwnerID       string      `json:"owner_id"`
	WebsiteURL    string      `json:"website_url"`
	Status        AuditStatus `json:"status"`
	PagesCrawled  int         `json:"pages_crawled"`
	PagesFailed   int         `json:"pages_failed"`
	TotalChecks   int         `json:"total_checks_run"`
	ChecksPassed  int         `json:"checks_passed"`
	ChecksFailed  int         `json:"checks_failed"`
	ChecksWarning int         `json:"checks_warning"`

	// OverallScore is non-nil iff Status is completed. The stored value is
	// unrounded; DisplayScore rounds to one decimal for presentation.
	OverallScore *float64 `json:"overall_score,omitempty"`

	// Summary is the generated executive summary, or a templated fallback
	// when the language model was unavailable.
	Summary string `json:"summary,omitempty"`

	// TopPageMarkdown is the homepage content as sanitized markdown, kept
	// for chat context. Internal only, never serialized to the API.
	TopPageMarkdown string `json:"-"`

	FailureReason string `json:"failure_reason,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`

	CrawlTimeMS   int64 `json:"crawl_time_ms"`
	AvgPageTimeMS int64 `json:"avg_page_time_ms"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Plan describes a subscription tier's audit quotas.
type Plan struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	DisplayName       string  `json:"display_name"`
	Price             float64 `json:"price"`
	MaxAuditsPerMonth int     `json:"max_audits_per_month"`
	MaxPagesPerAudit  int     `json:"max_pages_per_audit"`
}

// ChatMessage is one turn of an audit-scoped conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	AuditID   string    `json:"audit_id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
