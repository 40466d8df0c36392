package errs

import "fmt"

// Kind categorizes application errors for HTTP status mapping and for the
// audit pipeline's failure reasons.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// NotFound indicates the requested resource does not exist (HTTP 404).
	NotFound
	// Forbidden indicates the caller may not access the resource (HTTP 403).
	Forbidden
	// QuotaExceeded indicates the caller's plan limit was reached (HTTP 429).
	QuotaExceeded
	// CrawlUnreachable indicates no page of the target site could be
	// fetched; the audit fails with this reason.
	CrawlUnreachable
	// ScoringUndefined indicates scoring ran over zero executed checks.
	ScoringUndefined
	// Persistence indicates a storage write failed.
	Persistence
	// ExternalService indicates a dependency (language model) failed after
	// its retries were exhausted.
	ExternalService
	// Conflict indicates an illegal state transition was attempted.
	Conflict
)

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Reason returns the short machine-readable failure reason persisted on a
// failed audit.
func (e *AppError) Reason() string {
	switch e.Kind {
	case CrawlUnreachable:
		return "crawl_unreachable"
	case ScoringUndefined:
		return "scoring_undefined"
	case Persistence:
		return "persistence_error"
	case ExternalService:
		return "external_service_error"
	default:
		return "internal_error"
	}
}
