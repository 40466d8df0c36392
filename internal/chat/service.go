// Package chat implements the audit-scoped conversation feature: users ask
// questions about a completed audit and a language model answers with the
// audit's findings as context.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mjseo/auditor/internal/llm"
	"github.com/mjseo/auditor/internal/model"
	"github.com/mjseo/auditor/internal/platform/errs"
)

const systemPrompt = `You are an expert SEO consultant helping users understand and improve their website's SEO.
Provide specific, actionable advice. Reference the audit results when relevant.
Be concise but thorough. Use bullet points for clarity.`

// defaultContextChars bounds the conversation history sent to the model;
// roughly 8k tokens at 4 chars per token.
const defaultContextChars = 32_000

// Storage is the slice of the store the chat service needs.
type Storage interface {
	GetAudit(ctx context.Context, auditID string) (*model.Audit, error)
	GetFindings(ctx context.Context, auditID string) ([]model.Finding, error)
	AddChatMessage(ctx context.Context, m *model.ChatMessage) error
	ListChatMessages(ctx context.Context, auditID string) ([]model.ChatMessage, error)
}

type Service struct {
	store       Storage
	client      llm.Client
	maxCtxChars int
	logger      *slog.Logger
}

func NewService(store Storage, client llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, client: client, maxCtxChars: defaultContextChars, logger: logger}
}

// Send appends the user's message to the audit conversation, asks the model,
// persists and returns the reply. Only completed audits can be discussed.
func (s *Service) Send(ctx context.Context, auditID, ownerID, content string) (*model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "message is required"}
	}

	audit, err := s.store.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.OwnerID != ownerID {
		return nil, &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	if audit.Status != model.StatusCompleted {
		return nil, &errs.AppError{
			Kind:    errs.Conflict,
			Message: "chat is available once the audit has completed",
		}
	}

	findings, err := s.store.GetFindings(ctx, auditID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListChatMessages(ctx, auditID)
	if err != nil {
		return nil, err
	}

	userMsg := &model.ChatMessage{AuditID: auditID, Role: "user", Content: content}
	if err := s.store.AddChatMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	system := systemPrompt + "\n\n" + llm.AuditContext(audit, findings)
	messages := trimHistory(history, content, s.maxCtxChars)

	reply, err := s.client.Complete(ctx, system, messages)
	if err != nil {
		s.logger.Error("chat completion failed", "audit_id", auditID, "error", err)
		return nil, err
	}

	assistantMsg := &model.ChatMessage{AuditID: auditID, Role: "assistant", Content: reply}
	if err := s.store.AddChatMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}

// History returns the audit's conversation, oldest first.
func (s *Service) History(ctx context.Context, auditID, ownerID string) ([]model.ChatMessage, error) {
	audit, err := s.store.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit.OwnerID != ownerID {
		return nil, &errs.AppError{Kind: errs.NotFound, Message: "audit not found"}
	}
	return s.store.ListChatMessages(ctx, auditID)
}

// trimHistory builds the message window for the model: the stored history
// plus the new user message, dropping the oldest turns once the character
// budget is exceeded. The newest message is always kept.
func trimHistory(history []model.ChatMessage, newMessage string, budget int) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: newMessage})

	total := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		total += len(msgs[i].Content)
		if total > budget && i < len(msgs)-1 {
			return msgs[i+1:]
		}
	}
	return msgs
}
