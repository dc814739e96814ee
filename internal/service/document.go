package service

import (
	"context"
	"fmt"

	"github.com/twistandthread/chatwidget/internal/document"
	"github.com/twistandthread/chatwidget/internal/domain"
	"github.com/twistandthread/chatwidget/policy"
)

// Upload describes a file already saved to the upload directory by the
// transport layer. The transport owns the temp file and removes it on
// every path.
type Upload struct {
	Path         string
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
}

// IngestUpload validates, extracts, chunks and embeds an uploaded file,
// then stores it as a document. Validation failures surface before any
// processing happens.
func (s *Service) IngestUpload(ctx context.Context, upload Upload) (*domain.Document, error) {
	decision, err := s.policy.Evaluate(ctx, policy.UploadInput{
		MimeType: upload.MimeType,
		Size:     upload.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate upload policy: %w", err)
	}
	switch decision {
	case policy.DecisionAllow:
	case policy.DecisionRejectType:
		return nil, domain.NewValidationError("Invalid file type. Please upload PDF, DOCX, or TXT files only.")
	case policy.DecisionRejectSize:
		return nil, domain.NewValidationError("File too large. Maximum size is 10MB.")
	default:
		return nil, fmt.Errorf("unknown upload policy decision %q", decision)
	}

	content, err := document.ExtractText(upload.Path, upload.MimeType)
	if err != nil {
		return nil, err
	}

	chunks := document.Chunk(content)
	embeddings, err := s.llm.CreateEmbeddings(ctx, chunks)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		Filename:     upload.Filename,
		OriginalName: upload.OriginalName,
		MimeType:     upload.MimeType,
		Size:         upload.Size,
		Content:      content,
		Chunks:       chunks,
		Embeddings:   embeddings,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	return doc, nil
}

// GetDocument returns a stored document.
func (s *Service) GetDocument(ctx context.Context, id int) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, &domain.NotFoundError{Resource: "document", ID: id}
	}
	return doc, nil
}

// DeleteDocument removes a document, cascading to conversations that
// reference it and their messages.
func (s *Service) DeleteDocument(ctx context.Context, id int) error {
	return s.store.DeleteDocument(ctx, id)
}
