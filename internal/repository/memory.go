package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// MemoryStore implements Store with process-local maps. IDs are
// monotonically unique per process lifetime.
type MemoryStore struct {
	mu sync.RWMutex

	documents     map[int]*domain.Document
	conversations map[int]*domain.Conversation
	messages      map[int]*domain.Message

	nextDocumentID     int
	nextConversationID int
	nextMessageID      int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:          make(map[int]*domain.Document),
		conversations:      make(map[int]*domain.Conversation),
		messages:           make(map[int]*domain.Message),
		nextDocumentID:     1,
		nextConversationID: 1,
		nextMessageID:      1,
	}
}

// CreateDocument stores a document, assigning its ID and CreatedAt.
func (s *MemoryStore) CreateDocument(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.ID = s.nextDocumentID
	s.nextDocumentID++
	doc.CreatedAt = time.Now()

	stored := *doc
	s.documents[stored.ID] = &stored
	return nil
}

// GetDocument returns the document or (nil, nil) if unknown.
func (s *MemoryStore) GetDocument(ctx context.Context, id int) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

// DeleteDocument removes the document and cascades to conversations
// referencing it and their messages.
func (s *MemoryStore) DeleteDocument(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, id)

	for convID, conv := range s.conversations {
		if conv.DocumentID == nil || *conv.DocumentID != id {
			continue
		}
		for msgID, msg := range s.messages {
			if msg.ConversationID == convID {
				delete(s.messages, msgID)
			}
		}
		delete(s.conversations, convID)
	}
	return nil
}

// CreateConversation stores a conversation, assigning its ID and CreatedAt.
func (s *MemoryStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv.ID = s.nextConversationID
	s.nextConversationID++
	conv.CreatedAt = time.Now()

	stored := *conv
	s.conversations[stored.ID] = &stored
	return nil
}

// GetConversation returns the conversation or (nil, nil) if unknown.
func (s *MemoryStore) GetConversation(ctx context.Context, id int) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	copied := *conv
	return &copied, nil
}

// GetConversationBySession returns the conversation for a session id,
// or (nil, nil) when the session has none yet.
func (s *MemoryStore) GetConversationBySession(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conv := range s.conversations {
		if conv.SessionID == sessionID {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, nil
}

// CreateMessage appends a message, assigning its ID and CreatedAt.
func (s *MemoryStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = s.nextMessageID
	s.nextMessageID++
	msg.CreatedAt = time.Now()
	if msg.SourceChunks == nil {
		msg.SourceChunks = []string{}
	}

	stored := *msg
	s.messages[stored.ID] = &stored
	return nil
}

// GetConversationMessages returns a conversation's messages in creation
// order. IDs break timestamp ties since the clock is coarser than
// back-to-back appends.
func (s *MemoryStore) GetConversationMessages(ctx context.Context, conversationID int) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []domain.Message
	for _, msg := range s.messages {
		if msg.ConversationID == conversationID {
			messages = append(messages, *msg)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
