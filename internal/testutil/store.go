package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"tasktalk/internal/backend/sqlite"
)

// NewStore returns an initialized SQLite store in a temporary directory.
func NewStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}
