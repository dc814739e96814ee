package domain

import "fmt"

// ValidationError reports a rejected client request (bad upload, missing
// message content). Maps to a 400 at the transport boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an unknown entity. Maps to a 404.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// EmbeddingServiceError wraps a failure of the external embedding service.
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("failed to generate embeddings: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return e.Err }

// CompletionServiceError wraps a failure of the external chat completion
// service.
type CompletionServiceError struct {
	Err error
}

func (e *CompletionServiceError) Error() string {
	return fmt.Sprintf("failed to generate chat response: %v", e.Err)
}

func (e *CompletionServiceError) Unwrap() error { return e.Err }

// ExtractionUnsupportedError reports an upload whose MIME type passed
// validation but cannot be extracted to plain text.
type ExtractionUnsupportedError struct {
	MimeType string
	Message  string
}

func (e *ExtractionUnsupportedError) Error() string { return e.Message }
