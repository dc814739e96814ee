// Package llm wraps the external embedding and chat completion services
// behind an OpenAI-compatible HTTP client.
package llm

import (
	"context"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// CreateEmbeddings returns one vector per input string, order-preserving.
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// Completer generates chat responses grounded on retrieved context.
type Completer interface {
	// GenerateChatResponse produces a reply to message, conditioned on
	// contextChunks and the prior conversation history.
	GenerateChatResponse(ctx context.Context, message string, contextChunks []string, history []domain.ChatMessage) (*ChatResult, error)
}

// ChatResult is a generated reply together with the passages it was
// grounded on.
type ChatResult struct {
	Response     string
	SourceChunks []string
}

// Ensure Client implements both service interfaces.
var (
	_ Embedder  = (*Client)(nil)
	_ Completer = (*Client)(nil)
)
