package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/twistandthread/chatwidget/internal/document"
	"github.com/twistandthread/chatwidget/internal/domain"
)

// Knowledge base document metadata.
const (
	knowledgeBaseFilename = "knowledge-base.txt"
	knowledgeBaseName     = "AI Assistant Knowledge Base"
)

// KnowledgeBaseID returns the id of the standing knowledge-base
// document, or 0 if it has not been initialized.
func (s *Service) KnowledgeBaseID() int {
	s.kbMu.RLock()
	defer s.kbMu.RUnlock()
	return s.knowledgeBaseID
}

// InitializeKnowledgeBase ingests the knowledge base file on startup.
// A no-op if it is already initialized.
func (s *Service) InitializeKnowledgeBase(ctx context.Context) (*domain.Document, error) {
	if s.KnowledgeBaseID() != 0 {
		return nil, nil
	}
	return s.ingestKnowledgeBase(ctx)
}

// ReloadKnowledgeBase re-reads the knowledge base file, deletes the
// previous knowledge-base document and re-ingests it.
func (s *Service) ReloadKnowledgeBase(ctx context.Context) (*domain.Document, error) {
	log.Println("Reloading knowledge base...")
	return s.ingestKnowledgeBase(ctx)
}

func (s *Service) ingestKnowledgeBase(ctx context.Context) (*domain.Document, error) {
	content, err := os.ReadFile(s.cfg.KnowledgeBasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base file: %w", err)
	}

	chunks := document.Chunk(string(content))
	embeddings, err := s.llm.CreateEmbeddings(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if oldID := s.KnowledgeBaseID(); oldID != 0 {
		if err := s.store.DeleteDocument(ctx, oldID); err != nil {
			log.Printf("WARN: could not delete old knowledge base: %v", err)
		}
	}

	doc := &domain.Document{
		Filename:     knowledgeBaseFilename,
		OriginalName: knowledgeBaseName,
		MimeType:     document.MimeTypeText,
		Size:         int64(len(content)),
		Content:      string(content),
		Chunks:       chunks,
		Embeddings:   embeddings,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store knowledge base: %w", err)
	}

	s.kbMu.Lock()
	s.knowledgeBaseID = doc.ID
	s.kbMu.Unlock()

	log.Printf("Knowledge base initialized with ID: %d (%d chunks)", doc.ID, len(chunks))
	return doc, nil
}
