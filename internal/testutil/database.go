// Package testutil provides shared helpers for tests: throwaway
// databases and deterministic transaction fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lapazlabs/centavo/internal/storage"
)

// SetupTestDB creates a migrated SQLite database in a per-test temp
// directory and registers its cleanup.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return store
}
