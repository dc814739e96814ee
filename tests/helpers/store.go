// Package helpers provides shared test fixtures.
package helpers

import (
	"testing"

	"github.com/twistandthread/chatwidget/internal/repository"
)

// NewTestSQLiteStore creates an in-memory SQLite store that is closed
// when the test finishes.
func NewTestSQLiteStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()

	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewTestMemoryStore creates a fresh in-memory map store.
func NewTestMemoryStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	return repository.NewMemoryStore()
}
