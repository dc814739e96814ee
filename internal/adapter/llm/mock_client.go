package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// mockDimension is the vector size produced by the mock embedder.
const mockDimension = 64

// MockClient is an offline implementation of Embedder and Completer for
// development and testing.
type MockClient struct{}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var (
	_ Embedder  = (*MockClient)(nil)
	_ Completer = (*MockClient)(nil)
)

// CreateEmbeddings returns deterministic bag-of-words vectors. Texts
// sharing words get correlated vectors, so cosine ranking behaves
// sensibly without a real model.
func (m *MockClient) CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	embeddings := make([][]float64, len(texts))
	for i, text := range texts {
		embeddings[i] = m.embed(text)
	}
	return embeddings, nil
}

func (m *MockClient) embed(text string) []float64 {
	vec := make([]float64, mockDimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%mockDimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// GenerateChatResponse returns a canned reply that repeats the grounding
// context, mirroring the shape of a real completion.
func (m *MockClient) GenerateChatResponse(ctx context.Context, message string, contextChunks []string, history []domain.ChatMessage) (*ChatResult, error) {
	var response string
	if len(contextChunks) > 0 {
		response = "Based on what I know: " + contextChunks[0]
	} else {
		response = "I don't have specific information about that, but I'm happy to help with questions about Twist and Thread."
	}

	return &ChatResult{
		Response:     response,
		SourceChunks: contextChunks,
	}, nil
}
