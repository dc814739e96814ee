// Package domain defines the core domain models for the chat widget backend.
package domain

import "time"

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Document is an ingested text source. Chunks and Embeddings are
// index-aligned: Embeddings[i] is the vector for Chunks[i].
type Document struct {
	ID           int         `json:"id"`
	Filename     string      `json:"filename"`
	OriginalName string      `json:"originalName"`
	MimeType     string      `json:"mimeType"`
	Size         int64       `json:"size"`
	Content      string      `json:"content"`
	Chunks       []string    `json:"chunks"`
	Embeddings   [][]float64 `json:"embeddings"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Conversation binds a widget session to its message history and,
// optionally, to an uploaded document.
type Conversation struct {
	ID         int       `json:"id"`
	SessionID  string    `json:"sessionId"`
	DocumentID *int      `json:"documentId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Message is a single turn in a conversation. SourceChunks holds the
// passages an assistant reply was grounded on; it is empty for user
// messages.
type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	SourceChunks   []string  `json:"sourceChunks"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChatMessage is a role+content pair passed to the completion model as
// conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
