package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

// ownerHeader identifies the tenant on every request. Authentication proper
// is handled upstream; this service trusts the header.
const ownerHeader = "X-Owner-ID"

// Transport is the HTTP surface of the audit service.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

func NewTransport(service *Service, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the audit endpoints under the given router.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Post("/audits", t.handleCreate)
	r.Get("/audits", t.handleList)
	r.Get("/audits/{auditID}", t.handleGet)
}

type createRequest struct {
	WebsiteURL string `json:"website_url"`
}

type auditResponse struct {
	model.Audit
	Findings []model.Finding `json:"findings,omitempty"`
}

func (t *Transport) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Send a JSON object with a \"website_url\" field.")
		return
	}

	a, err := t.service.Create(r.Context(), ownerOf(r), req.WebsiteURL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusAccepted, auditResponse{Audit: *a})
}

func (t *Transport) handleGet(w http.ResponseWriter, r *http.Request) {
	auditID := chi.URLParam(r, "auditID")
	a, findings, err := t.service.Get(r.Context(), auditID)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	if a.OwnerID != ownerOf(r) {
		t.renderError(w, http.StatusNotFound, "audit not found")
		return
	}
	t.renderJSON(w, http.StatusOK, auditResponse{Audit: *a, Findings: findings})
}

func (t *Transport) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	audits, err := t.service.List(r.Context(), ownerOf(r), limit, offset)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	if audits == nil {
		audits = []model.Audit{}
	}
	t.renderJSON(w, http.StatusOK, map[string]any{"audits": audits})
}

func ownerOf(r *http.Request) string {
	if owner := r.Header.Get(ownerHeader); owner != "" {
		return owner
	}
	return "default"
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.NotFound:
			status = http.StatusNotFound
		case errs.Forbidden:
			status = http.StatusForbidden
		case errs.QuotaExceeded:
			status = http.StatusTooManyRequests
		case errs.Conflict:
			status = http.StatusConflict
		}
		t.renderError(w, status, appErr.Message)
		return
	}
	t.logger.Error("unhandled service error", "error", err)
	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
