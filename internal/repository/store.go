// Package repository defines the storage interface and implementations.
package repository

import (
	"context"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// Store defines the interface for data persistence. Lookups return
// (nil, nil) for unknown ids. Deleting a document cascades to the
// conversations referencing it and their messages; both implementations
// apply the same cascade policy.
type Store interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *domain.Document) error
	GetDocument(ctx context.Context, id int) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id int) error

	// Conversation operations
	CreateConversation(ctx context.Context, conv *domain.Conversation) error
	GetConversation(ctx context.Context, id int) (*domain.Conversation, error)
	GetConversationBySession(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Message operations
	CreateMessage(ctx context.Context, msg *domain.Message) error
	GetConversationMessages(ctx context.Context, conversationID int) ([]domain.Message, error)

	// Lifecycle
	Close() error
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)
