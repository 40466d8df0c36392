package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

const ownerHeader = "X-Owner-ID"

// Transport is the HTTP surface of the chat feature.
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

// RegisterRoutes attaches the chat endpoints under the given router.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Post("/audits/{auditID}/chat", t.handleSend)
	r.Get("/audits/{auditID}/chat", t.handleHistory)
}

type sendRequest struct {
	Message string `json:"message"`
}

func (t *Transport) handleSend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Send a JSON object with a \"message\" field.")
		return
	}

	reply, err := t.service.Send(r.Context(), chi.URLParam(r, "auditID"), ownerOf(r), req.Message)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	t.renderJSON(w, http.StatusOK, reply)
}

func (t *Transport) handleHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := t.service.History(r.Context(), chi.URLParam(r, "auditID"), ownerOf(r))
	if err != nil {
		t.handleServiceError(w, err)
		return
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	t.renderJSON(w, http.StatusOK, map[string]any{"messages": msgs})
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
		case errs.Conflict:
			status = http.StatusConflict
		case errs.ExternalService:
			status = http.StatusBadGateway
		}
		t.renderError(w, status, appErr.Message)
		return
	}
	t.logger.Error("unhandled chat error", "error", err)
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
