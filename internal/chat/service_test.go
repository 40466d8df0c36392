package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mjseo/auditor/internal/llm"
	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

type memStorage struct {
	audit    *model.Audit
	findings []model.Finding
	messages []model.ChatMessage
}

func (m *memStorage) GetAudit(_ context.Context, id string) (*model.Audit, error) {
	if m.audit == nil || m.audit.ID != id {
		return nil, &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	cp := *m.audit
	return &cp, nil
}

func (m *memStorage) GetFindings(context.Context, string) ([]model.Finding, error) {
	return m.findings, nil
}

func (m *memStorage) AddChatMessage(_ context.Context, msg *model.ChatMessage) error {
	msg.ID = "m" + string(rune('0'+len(m.messages)))
	msg.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStorage) ListChatMessages(context.Context, string) ([]model.ChatMessage, error) {
	return m.messages, nil
}

type clientFunc func(ctx context.Context, system string, msgs []llm.Message) (string, error)

func (f clientFunc) Complete(ctx context.Context, system string, msgs []llm.Message) (string, error) {
	return f(ctx, system, msgs)
}

func completedAudit() *model.Audit {
	score := 55.5
	return &model.Audit{
		ID: "a1", OwnerID: "user-1", WebsiteURL: "https://example.com",
		Status: model.StatusCompleted, OverallScore: &score, ChecksFailed: 12,
		TopPageMarkdown: "# Example Store\n\nPurveyors of fine things.",
	}
}

func TestSendInjectsAuditContext(t *testing.T) {
	st := &memStorage{
		audit: completedAudit(),
		findings: []model.Finding{
			{CheckName: "Viewport meta tag missing", Category: "Technical SEO", Status: model.StatusFail, ImpactScore: 90, CurrentValue: "3 pages without viewport"},
		},
	}
	var gotSystem string
	var gotMsgs []llm.Message
	c := clientFunc(func(_ context.Context, system string, msgs []llm.Message) (string, error) {
		gotSystem = system
		gotMsgs = msgs
		return "Fix the viewport tag first.", nil
	})
	s := NewService(st, c, nil)

	reply, err := s.Send(context.Background(), "a1", "user-1", "What should I fix first?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if reply.Role != "assistant" || reply.Content != "Fix the viewport tag first." {
		t.Errorf("reply = %+v", reply)
	}
	for _, want := range []string{"https://example.com", "55.5", "Viewport meta tag missing", "# Example Store"} {
		if !strings.Contains(gotSystem, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if len(gotMsgs) != 1 || gotMsgs[0].Content != "What should I fix first?" {
		t.Errorf("messages = %+v", gotMsgs)
	}
	// Both turns persisted, user first.
	if len(st.messages) != 2 || st.messages[0].Role != "user" || st.messages[1].Role != "assistant" {
		t.Errorf("stored messages = %+v", st.messages)
	}
}

func TestSendRejectsIncompleteAudit(t *testing.T) {
	a := completedAudit()
	a.Status = model.StatusCrawling
	s := NewService(&memStorage{audit: a}, clientFunc(nil), nil)

	_, err := s.Send(context.Background(), "a1", "user-1", "hello")
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.Conflict {
		t.Errorf("error = %v, want Conflict", err)
	}
}

func TestSendRejectsForeignAudit(t *testing.T) {
	s := NewService(&memStorage{audit: completedAudit()}, clientFunc(nil), nil)
	_, err := s.Send(context.Background(), "a1", "intruder", "hello")
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.NotFound {
		t.Errorf("error = %v, want NotFound", err)
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	s := NewService(&memStorage{audit: completedAudit()}, clientFunc(nil), nil)
	_, err := s.Send(context.Background(), "a1", "user-1", "   ")
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.InvalidInput {
		t.Errorf("error = %v, want InvalidInput", err)
	}
}

func TestTrimHistoryKeepsNewestTurns(t *testing.T) {
	history := []model.ChatMessage{
		{Role: "user", Content: strings.Repeat("a", 50)},
		{Role: "assistant", Content: strings.Repeat("b", 50)},
		{Role: "user", Content: strings.Repeat("c", 50)},
	}
	msgs := trimHistory(history, "newest", 120)
	if len(msgs) >= 4 {
		t.Fatalf("history not trimmed: %d messages", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.Content != "newest" {
		t.Errorf("newest message dropped; last = %q", last.Content)
	}
	// Oldest turn is the one that went.
	if msgs[0].Content == history[0].Content {
		t.Error("oldest turn survived past the budget")
	}
}

func TestTrimHistoryKeepsNewMessageEvenOverBudget(t *testing.T) {
	msgs := trimHistory(nil, strings.Repeat("x", 500), 100)
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
}

func newTestRouter(s *Service) http.Handler {
	r := chi.NewRouter()
	tr := NewTransport(s, nil)
	r.Route("/api/v1", tr.RegisterRoutes)
	return r
}

func TestHandleSendAndHistory(t *testing.T) {
	st := &memStorage{audit: completedAudit()}
	c := clientFunc(func(context.Context, string, []llm.Message) (string, error) {
		return "reply text", nil
	})
	h := newTestRouter(NewService(st, c, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits/a1/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set(ownerHeader, "user-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d, body %s", rec.Code, rec.Body)
	}
	var msg model.ChatMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Content != "reply text" {
		t.Errorf("reply = %q", msg.Content)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/audits/a1/chat", nil)
	req.Header.Set(ownerHeader, "user-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var resp struct {
		Messages []model.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("history = %d messages, want 2", len(resp.Messages))
	}
}

func TestHandleSendModelDown(t *testing.T) {
	st := &memStorage{audit: completedAudit()}
	c := clientFunc(func(context.Context, string, []llm.Message) (string, error) {
		return "", &errs.AppError{Kind: errs.ExternalService, Message: "llm: completion failed"}
	})
	h := newTestRouter(NewService(st, c, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/audits/a1/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set(ownerHeader, "user-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
