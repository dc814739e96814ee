package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/twistandthread/chatwidget/internal/domain"
)

const (
	// systemPrompt instructs the assistant to prefer provided context
	// over claiming ignorance.
	systemPrompt = "You are an AI assistant for Shop Twist and Thread. Always use the information provided in the user's message to answer questions. Do not say you don't have information if it's provided in the context."

	// fallbackResponse is returned when the service produces no content.
	fallbackResponse = "I couldn't generate a response."

	completionMaxTokens   = 500
	completionTemperature = 0.7
)

// Client talks to an OpenAI-compatible API for embeddings and chat
// completions.
type Client struct {
	baseURL        string
	apiKey         string
	embeddingModel string
	chatModel      string
	httpClient     *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, apiKey, embeddingModel, chatModel string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		apiKey:         apiKey,
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// embeddingRequest is the OpenAI embeddings request.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse is the OpenAI embeddings response.
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// chatCompletionRequest is the OpenAI chat completion request.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// chatMessage is a single message on the wire.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI chat completion response.
type chatCompletionResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

// errorResponse is an API error body.
type errorResponse struct {
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// CreateEmbeddings generates one embedding vector per input text.
func (c *Client) CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := c.post(ctx, "/v1/embeddings", embeddingRequest{
		Model: c.embeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, &domain.EmbeddingServiceError{Err: err}
	}

	var result embeddingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.EmbeddingServiceError{Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	embeddings := make([][]float64, len(result.Data))
	for i, item := range result.Data {
		embeddings[i] = item.Embedding
	}
	return embeddings, nil
}

// GenerateChatResponse produces a reply conditioned on the retrieved
// context chunks and conversation history.
func (c *Client) GenerateChatResponse(ctx context.Context, message string, contextChunks []string, history []domain.ChatMessage) (*ChatResult, error) {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, h := range history {
		messages = append(messages, chatMessage{Role: string(h.Role), Content: h.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: BuildUserMessage(message, contextChunks)})

	body, err := c.post(ctx, "/v1/chat/completions", chatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
	})
	if err != nil {
		return nil, &domain.CompletionServiceError{Err: err}
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.CompletionServiceError{Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	response := fallbackResponse
	if len(result.Choices) > 0 && result.Choices[0].Message.Content != "" {
		response = result.Choices[0].Message.Content
	}

	return &ChatResult{
		Response:     response,
		SourceChunks: contextChunks,
	}, nil
}

// BuildUserMessage rewrites the user message to embed the retrieved
// context. With no context the message passes through unmodified.
func BuildUserMessage(message string, contextChunks []string) string {
	if len(contextChunks) == 0 {
		return message
	}
	return fmt.Sprintf(
		"Based on this information: %s\n\nQuestion: %s\n\nPlease answer the question using the information provided above.",
		strings.Join(contextChunks, " "), message,
	)
}

// post sends a JSON request and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return nil, fmt.Errorf("API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
