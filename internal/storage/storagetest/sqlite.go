// Package storagetest provides file-backed SQLite stores for tests.
package storagetest

import (
	"path/filepath"
	"testing"

	"github.com/akeren/college-forms/internal/log"
	"github.com/akeren/college-forms/internal/models"
	"github.com/akeren/college-forms/internal/storage"
	"gorm.io/driver/sqlite"
)

// NewSQLiteStore returns a Connected store over a fresh database file with the
// application schema applied. The pool holds a single connection so that
// concurrent writers queue instead of failing with SQLITE_BUSY.
func NewSQLiteStore(t testing.TB) *storage.Store {
	t.Helper()

	store := storage.New(log.NewDiscardLogger())
	path := filepath.Join(t.TempDir(), "forms.db")

	if err := store.Connect(sqlite.Open(path), storage.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1}); err != nil {
		t.Fatalf("connect sqlite store: %v", err)
	}
	if err := store.AutoMigrate(models.ModelRegistry...); err != nil {
		t.Fatalf("migrate sqlite store: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })
	return store
}

// CountRows counts rows of model matching the optional where clause.
func CountRows(t testing.TB, store *storage.Store, model any, query string, args ...any) int64 {
	t.Helper()

	db, err := store.Conn(t.Context())
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}

	tx := db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
