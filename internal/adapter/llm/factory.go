package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "CHATWIDGET_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// Service bundles the embedding and completion capabilities.
type Service interface {
	Embedder
	Completer
}

// NewService creates an LLM service based on the CHATWIDGET_MODE
// environment variable. If CHATWIDGET_MODE=MOCK, returns a MockClient;
// otherwise returns a real Client.
func NewService(baseURL, apiKey, embeddingModel, chatModel string, timeout time.Duration) Service {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("CHATWIDGET_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, embeddingModel, chatModel, timeout)
}
