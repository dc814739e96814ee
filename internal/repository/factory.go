package repository

import "fmt"

// New creates a store for the configured backend. The dsn is only used
// by the sqlite backend.
func New(backend, dsn string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return NewSQLiteStore(dsn)
	case BackendMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
