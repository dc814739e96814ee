package service

import (
	"context"
	"fmt"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// GetOrCreateConversation returns the existing conversation for a
// session id, or creates one. Creating twice with the same session id
// is idempotent.
func (s *Service) GetOrCreateConversation(ctx context.Context, sessionID string, documentID *int) (*domain.Conversation, error) {
	if sessionID == "" {
		return nil, domain.NewValidationError("sessionId is required")
	}

	existing, err := s.store.GetConversationBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	conv := &domain.Conversation{
		SessionID:  sessionID,
		DocumentID: documentID,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversationMessages returns a conversation's messages in creation
// order.
func (s *Service) GetConversationMessages(ctx context.Context, conversationID int) ([]domain.Message, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, &domain.NotFoundError{Resource: "conversation", ID: conversationID}
	}

	return s.store.GetConversationMessages(ctx, conversationID)
}
