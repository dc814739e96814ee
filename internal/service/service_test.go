package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/twistandthread/chatwidget/internal/adapter/llm"
	"github.com/twistandthread/chatwidget/internal/config"
	"github.com/twistandthread/chatwidget/internal/domain"
	"github.com/twistandthread/chatwidget/internal/repository"
	"github.com/twistandthread/chatwidget/internal/service"
	"github.com/twistandthread/chatwidget/policy"
)

const testKnowledgeBase = "We are a small local studio in town. Our shop offers custom embroidery. We love embroidery projects and embroidery gifts for everyone."

// failingEmbedder breaks the embedding capability while keeping the
// mock completion behavior.
type failingEmbedder struct {
	*llm.MockClient
}

func (f *failingEmbedder) CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, &domain.EmbeddingServiceError{Err: errors.New("embedding service down")}
}

// failingCompleter breaks the completion capability while keeping the
// mock embedding behavior.
type failingCompleter struct {
	*llm.MockClient
}

func (f *failingCompleter) GenerateChatResponse(ctx context.Context, message string, contextChunks []string, history []domain.ChatMessage) (*llm.ChatResult, error) {
	return nil, &domain.CompletionServiceError{Err: errors.New("completion service down")}
}

func newTestService(t *testing.T, llmService llm.Service) *service.Service {
	t.Helper()

	kbPath := filepath.Join(t.TempDir(), "knowledge-base.txt")
	if err := os.WriteFile(kbPath, []byte(testKnowledgeBase), 0o644); err != nil {
		t.Fatalf("failed to write knowledge base file: %v", err)
	}

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	cfg := &config.Config{
		KnowledgeBasePath: kbPath,
		UploadDir:         t.TempDir(),
	}
	return service.New(repository.NewMemoryStore(), llmService, engine, cfg)
}

func TestConversationIdempotence(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	first, err := svc.GetOrCreateConversation(ctx, "session-1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	second, err := svc.GetOrCreateConversation(ctx, "session-1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same conversation, got %d and %d", first.ID, second.ID)
	}

	other, err := svc.GetOrCreateConversation(ctx, "session-2", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("expected a new conversation for a different session")
	}
}

func TestConversationRequiresSessionID(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())

	_, err := svc.GetOrCreateConversation(context.Background(), "", nil)
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestChatTurnEndToEnd(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	if _, err := svc.InitializeKnowledgeBase(ctx); err != nil {
		t.Fatalf("InitializeKnowledgeBase failed: %v", err)
	}
	if svc.KnowledgeBaseID() == 0 {
		t.Fatal("expected knowledge base id after initialization")
	}

	conv, err := svc.GetOrCreateConversation(ctx, "widget-session", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	turn, err := svc.SendMessage(ctx, conv.ID, "Do you do embroidery?")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if turn.ContextDegraded {
		t.Fatal("unexpected degraded context")
	}
	if turn.UserMessage.Role != domain.RoleUser || turn.AIMessage.Role != domain.RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", turn.UserMessage.Role, turn.AIMessage.Role)
	}

	var grounded bool
	for _, chunk := range turn.AIMessage.SourceChunks {
		if strings.Contains(chunk, "Our shop offers custom embroidery") {
			grounded = true
		}
	}
	if !grounded {
		t.Fatalf("assistant reply not grounded on knowledge base: %v", turn.AIMessage.SourceChunks)
	}

	messages, err := svc.GetConversationMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversationMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser || messages[1].Role != domain.RoleAssistant {
		t.Fatalf("messages out of order: %s, %s", messages[0].Role, messages[1].Role)
	}
}

func TestChatTurnDegradesWhenEmbeddingFails(t *testing.T) {
	svc := newTestService(t, &failingEmbedder{llm.NewMockClient()})
	ctx := context.Background()

	// Seed a linked document directly; the knowledge base cannot be
	// initialized with a broken embedder.
	doc := &domain.Document{
		Filename:     "f",
		OriginalName: "faq.txt",
		MimeType:     "text/plain",
		Content:      "Custom embroidery takes five business days.",
		Chunks:       []string{"Custom embroidery takes five business days"},
		Embeddings:   [][]float64{{1, 0}},
	}
	if err := svc.Store().CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	conv, err := svc.GetOrCreateConversation(ctx, "s1", &doc.ID)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	turn, err := svc.SendMessage(ctx, conv.ID, "How long do orders take?")
	if err != nil {
		t.Fatalf("SendMessage should degrade, not fail: %v", err)
	}
	if !turn.ContextDegraded {
		t.Fatal("expected degraded context when embedding fails")
	}
	if len(turn.AIMessage.SourceChunks) != 0 {
		t.Fatalf("expected no source chunks, got %v", turn.AIMessage.SourceChunks)
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	_, err = svc.SendMessage(ctx, conv.ID, "")
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for empty content, got %v", err)
	}

	_, err = svc.SendMessage(ctx, 12345, "hello")
	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError for unknown conversation, got %v", err)
	}
}

func TestCompletionFailureLeavesUserMessage(t *testing.T) {
	svc := newTestService(t, &failingCompleter{llm.NewMockClient()})
	ctx := context.Background()

	conv, err := svc.GetOrCreateConversation(ctx, "s1", nil)
	if err != nil {
		t.Fatalf("GetOrCreateConversation failed: %v", err)
	}

	_, err = svc.SendMessage(ctx, conv.ID, "hello")
	var completionErr *domain.CompletionServiceError
	if !errors.As(err, &completionErr) {
		t.Fatalf("expected CompletionServiceError, got %v", err)
	}

	// No rollback: the user message stays without an assistant reply.
	messages, err := svc.GetConversationMessages(ctx, conv.ID)
	if err != nil {
		t.Fatalf("GetConversationMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != domain.RoleUser {
		t.Fatalf("expected only the orphaned user message, got %+v", messages)
	}
}

func TestReloadKnowledgeBaseReplacesDocument(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	first, err := svc.InitializeKnowledgeBase(ctx)
	if err != nil {
		t.Fatalf("InitializeKnowledgeBase failed: %v", err)
	}

	second, err := svc.ReloadKnowledgeBase(ctx)
	if err != nil {
		t.Fatalf("ReloadKnowledgeBase failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected reload to create a new document")
	}
	if svc.KnowledgeBaseID() != second.ID {
		t.Fatalf("knowledge base id not updated: %d", svc.KnowledgeBaseID())
	}

	old, err := svc.Store().GetDocument(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if old != nil {
		t.Fatal("expected previous knowledge base document to be deleted")
	}
}

func TestInitializeKnowledgeBaseIsIdempotent(t *testing.T) {
	svc := newTestService(t, llm.NewMockClient())
	ctx := context.Background()

	if _, err := svc.InitializeKnowledgeBase(ctx); err != nil {
		t.Fatalf("InitializeKnowledgeBase failed: %v", err)
	}
	id := svc.KnowledgeBaseID()

	doc, err := svc.InitializeKnowledgeBase(ctx)
	if err != nil {
		t.Fatalf("second InitializeKnowledgeBase failed: %v", err)
	}
	if doc != nil {
		t.Fatal("expected no-op on second initialization")
	}
	if svc.KnowledgeBaseID() != id {
		t.Fatalf("knowledge base id changed: %d vs %d", id, svc.KnowledgeBaseID())
	}
}
