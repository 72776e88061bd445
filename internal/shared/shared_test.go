package shared

import (
	"database/sql"
	"testing"
)

// newTestDatabase opens an in-memory database pinned to a single
// connection, which is all an in-memory sqlite database lives on.
func newTestDatabase(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ConfigureDatabase(db, 1, 1)
	return db
}

func TestGenerateID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("expected a non-empty id")
		}
		if seen[id] {
			t.Fatalf("id %s generated twice", id)
		}
		seen[id] = true
	}
}
