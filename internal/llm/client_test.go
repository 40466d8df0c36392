package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/config"
	"github.com/mjseo/auditor/internal/platform/errs"
)

func testClient(url string, retries int) *HTTPClient {
	return NewHTTPClient(config.LLMConfig{
		BaseURL:    url,
		Model:      "test-model",
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: retries,
	}, nil)
}

func completionJSON(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(completionJSON("Here is your analysis.")))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 3)
	reply, err := c.Complete(context.Background(), "be helpful", []Message{{Role: "user", Content: "analyze"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "Here is your analysis." {
		t.Errorf("reply = %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system prompt first", gotReq.Messages)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestCompleteRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionJSON("finally")))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 3)
	reply, err := c.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "finally" {
		t.Errorf("reply = %q", reply)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestCompleteExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL, 2)
	_, err := c.Complete(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Kind != errs.ExternalService {
		t.Errorf("error = %v, want ExternalService AppError", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestCompleteHonorsCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testClient(srv.URL, 3)
	_, err := c.Complete(ctx, "", []Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNarratorFallback(t *testing.T) {
	failing := clientFunc(func(context.Context, string, []Message) (string, error) {
		return "", errors.New("model down")
	})
	n := NewNarrator(failing, nil)

	score := 42.5
	audit := &model.Audit{
		WebsiteURL: "https://example.com", TotalChecks: 132, ChecksPassed: 70,
		ChecksFailed: 40, ChecksWarning: 22, OverallScore: &score,
	}
	findings := []model.Finding{
		{CheckName: "Viewport meta tag missing", Status: model.StatusFail, ImpactScore: 90},
		{CheckName: "Meta charset not specified", Status: model.StatusFail, ImpactScore: 65},
	}
	got := n.Summary(context.Background(), audit, findings)
	for _, want := range []string{"https://example.com", "70 of 132", "42.5", "Viewport meta tag missing"} {
		if !strings.Contains(got, want) {
			t.Errorf("fallback summary missing %q: %s", want, got)
		}
	}
}

func TestNarratorUsesModelReply(t *testing.T) {
	var gotPrompt string
	ok := clientFunc(func(_ context.Context, _ string, msgs []Message) (string, error) {
		gotPrompt = msgs[0].Content
		return "  Model summary.  ", nil
	})
	n := NewNarrator(ok, nil)
	audit := &model.Audit{WebsiteURL: "https://example.com", TotalChecks: 10, ChecksFailed: 1}
	findings := []model.Finding{
		{CheckName: "Canonical tag missing", Status: model.StatusFail, ImpactScore: 80, CurrentValue: "3 pages without canonical"},
	}
	got := n.Summary(context.Background(), audit, findings)
	if got != "Model summary." {
		t.Errorf("summary = %q", got)
	}
	if !strings.Contains(gotPrompt, "Canonical tag missing") {
		t.Errorf("prompt missing top issue: %s", gotPrompt)
	}
}

type clientFunc func(ctx context.Context, system string, msgs []Message) (string, error)

func (f clientFunc) Complete(ctx context.Context, system string, msgs []Message) (string, error) {
	return f(ctx, system, msgs)
}

func TestPageMarkdownSanitizes(t *testing.T) {
	html := `<html><body><h1>Welcome</h1><script>alert("x")</script><p>Some <b>bold</b> text.</p></body></html>`
	md, err := PageMarkdown(html, 0)
	if err != nil {
		t.Fatalf("PageMarkdown: %v", err)
	}
	if strings.Contains(md, "alert") {
		t.Errorf("script content leaked into markdown: %s", md)
	}
	if !strings.Contains(md, "Welcome") || !strings.Contains(md, "bold") {
		t.Errorf("content missing from markdown: %s", md)
	}
}

func TestPageMarkdownTruncates(t *testing.T) {
	html := "<p>" + strings.Repeat("word ", 500) + "</p>"
	md, err := PageMarkdown(html, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(md, "[truncated]") {
		t.Errorf("long content not truncated: %q", md[len(md)-30:])
	}
}

func TestAuditContext(t *testing.T) {
	score := 61.3
	audit := &model.Audit{
		WebsiteURL: "https://example.com", OverallScore: &score, ChecksFailed: 12, PagesCrawled: 8,
		TopPageMarkdown: "# Example Store\n\nFine things.",
	}
	findings := []model.Finding{
		{CheckName: "Meta title issues", Category: "On-Page SEO", Status: model.StatusFail, ImpactScore: 100, CurrentValue: "2 pages missing titles"},
	}
	got := AuditContext(audit, findings)
	for _, want := range []string{"61.3", "Meta title issues", "2 pages missing titles", "Pages Crawled: 8", "Homepage Content", "# Example Store"} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestNarratorPageContext(t *testing.T) {
	n := NewNarrator(clientFunc(nil), nil)
	md := n.PageContext(`<html><body><h1>Shop</h1><script>track()</script><p>Hand-made goods.</p></body></html>`)
	if strings.Contains(md, "track()") {
		t.Errorf("script content leaked: %s", md)
	}
	if !strings.Contains(md, "Shop") || !strings.Contains(md, "Hand-made goods") {
		t.Errorf("page content missing: %s", md)
	}
}
