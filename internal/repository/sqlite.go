package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/twistandthread/chatwidget/internal/domain"
)

// SQLiteStore implements Store using SQLite. Chunks, embeddings and
// source chunks are stored as JSON text columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and runs
// migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Foreign keys drive the document delete cascade.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			original_name TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			content TEXT NOT NULL,
			chunks TEXT NOT NULL DEFAULT '[]',
			embeddings TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			document_id INTEGER,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_session ON conversations(session_id)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			source_chunks TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateDocument stores a document, assigning its ID and CreatedAt.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *domain.Document) error {
	chunks, err := json.Marshal(doc.Chunks)
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	embeddings, err := json.Marshal(doc.Embeddings)
	if err != nil {
		return fmt.Errorf("failed to marshal embeddings: %w", err)
	}

	doc.CreatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (filename, original_name, mime_type, size, content, chunks, embeddings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Filename, doc.OriginalName, doc.MimeType, doc.Size, doc.Content, string(chunks), string(embeddings), doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document id: %w", err)
	}
	doc.ID = int(id)
	return nil
}

// GetDocument returns the document or (nil, nil) if unknown.
func (s *SQLiteStore) GetDocument(ctx context.Context, id int) (*domain.Document, error) {
	var doc domain.Document
	var chunks, embeddings string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, original_name, mime_type, size, content, chunks, embeddings, created_at
		 FROM documents WHERE id = ?`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.OriginalName, &doc.MimeType, &doc.Size, &doc.Content, &chunks, &embeddings, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if err := json.Unmarshal([]byte(chunks), &doc.Chunks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunks: %w", err)
	}
	if err := json.Unmarshal([]byte(embeddings), &doc.Embeddings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embeddings: %w", err)
	}
	return &doc, nil
}

// DeleteDocument removes the document. The ON DELETE CASCADE foreign
// keys remove conversations referencing it and their messages.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// CreateConversation stores a conversation, assigning its ID and CreatedAt.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	conv.CreatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (session_id, document_id, created_at) VALUES (?, ?, ?)`,
		conv.SessionID, conv.DocumentID, conv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get conversation id: %w", err)
	}
	conv.ID = int(id)
	return nil
}

// GetConversation returns the conversation or (nil, nil) if unknown.
func (s *SQLiteStore) GetConversation(ctx context.Context, id int) (*domain.Conversation, error) {
	return s.scanConversation(s.db.QueryRowContext(ctx,
		`SELECT id, session_id, document_id, created_at FROM conversations WHERE id = ?`, id))
}

// GetConversationBySession returns the conversation for a session id,
// or (nil, nil) when the session has none yet.
func (s *SQLiteStore) GetConversationBySession(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	return s.scanConversation(s.db.QueryRowContext(ctx,
		`SELECT id, session_id, document_id, created_at FROM conversations WHERE session_id = ? LIMIT 1`, sessionID))
}

func (s *SQLiteStore) scanConversation(row *sql.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	var documentID sql.NullInt64

	err := row.Scan(&conv.ID, &conv.SessionID, &documentID, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if documentID.Valid {
		id := int(documentID.Int64)
		conv.DocumentID = &id
	}
	return &conv, nil
}

// CreateMessage appends a message, assigning its ID and CreatedAt.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if msg.SourceChunks == nil {
		msg.SourceChunks = []string{}
	}
	sourceChunks, err := json.Marshal(msg.SourceChunks)
	if err != nil {
		return fmt.Errorf("failed to marshal source chunks: %w", err)
	}

	msg.CreatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, source_chunks, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ConversationID, string(msg.Role), msg.Content, string(sourceChunks), msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get message id: %w", err)
	}
	msg.ID = int(id)
	return nil
}

// GetConversationMessages returns a conversation's messages in creation
// order.
func (s *SQLiteStore) GetConversationMessages(ctx context.Context, conversationID int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, source_chunks, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role, sourceChunks string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &sourceChunks, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = domain.Role(role)
		if err := json.Unmarshal([]byte(sourceChunks), &msg.SourceChunks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source chunks: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
