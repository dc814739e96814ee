package service

import (
	"context"
	"fmt"

	"github.com/twistandthread/chatwidget/internal/domain"
	"github.com/twistandthread/chatwidget/internal/retrieval"
)

// ChatTurn is the result of one user message: the persisted user and
// assistant messages. ContextDegraded is set when retrieval fell back to
// an empty context because embedding the query failed.
type ChatTurn struct {
	UserMessage     *domain.Message `json:"userMessage"`
	AIMessage       *domain.Message `json:"aiMessage"`
	ContextDegraded bool            `json:"-"`
}

// SendMessage runs one chat turn: persist the user message, retrieve
// relevant context from the knowledge base and the conversation's
// document, generate the assistant reply, and persist it.
//
// If completion fails after the user message was persisted, the user
// message is left in place (no rollback) and the error is returned.
func (s *Service) SendMessage(ctx context.Context, conversationID int, content string) (*ChatTurn, error) {
	if content == "" {
		return nil, domain.NewValidationError("Message content is required")
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, &domain.NotFoundError{Resource: "conversation", ID: conversationID}
	}

	userMessage := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        content,
		SourceChunks:   []string{},
	}
	if err := s.store.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	history, err := s.conversationHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	contextChunks, degraded, err := s.retrieveContext(ctx, conv, content)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.GenerateChatResponse(ctx, content, contextChunks, history)
	if err != nil {
		return nil, err
	}

	aiMessage := &domain.Message{
		ConversationID: conversationID,
		Role:           domain.RoleAssistant,
		Content:        result.Response,
		SourceChunks:   result.SourceChunks,
	}
	if err := s.store.CreateMessage(ctx, aiMessage); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	return &ChatTurn{
		UserMessage:     userMessage,
		AIMessage:       aiMessage,
		ContextDegraded: degraded,
	}, nil
}

// conversationHistory returns the last historyLimit messages as
// role+content pairs, oldest first. The just-persisted user message is
// included in the window.
func (s *Service) conversationHistory(ctx context.Context, conversationID int) ([]domain.ChatMessage, error) {
	messages, err := s.store.GetConversationMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}

	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}

	history := make([]domain.ChatMessage, len(messages))
	for i, msg := range messages {
		history[i] = domain.ChatMessage{Role: msg.Role, Content: msg.Content}
	}
	return history, nil
}

// retrieveContext merges relevant chunks from the standing knowledge
// base and the conversation's linked document, in that order. The two
// sources are not deduplicated or re-ranked against each other.
func (s *Service) retrieveContext(ctx context.Context, conv *domain.Conversation, query string) ([]string, bool, error) {
	var chunks []string
	var degraded bool

	if kbID := s.KnowledgeBaseID(); kbID != 0 {
		kb, err := s.store.GetDocument(ctx, kbID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get knowledge base: %w", err)
		}
		if kb != nil {
			result := s.ranker.FindRelevantChunks(ctx, query, kb.Chunks, kb.Embeddings, retrieval.DefaultTopK)
			chunks = append(chunks, result.Chunks...)
			degraded = degraded || result.Degraded
		}
	}

	if conv.DocumentID != nil {
		doc, err := s.store.GetDocument(ctx, *conv.DocumentID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to get conversation document: %w", err)
		}
		if doc != nil {
			result := s.ranker.FindRelevantChunks(ctx, query, doc.Chunks, doc.Embeddings, retrieval.DefaultTopK)
			chunks = append(chunks, result.Chunks...)
			degraded = degraded || result.Degraded
		}
	}

	return chunks, degraded, nil
}
