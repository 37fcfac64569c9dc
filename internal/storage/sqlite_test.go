package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{
		Mode: ModePlain,
		Path: filepath.Join(t.TempDir(), "expenso.db"),
	})
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	var version int
	if err := db.QueryRow(`SELECT version FROM schema_migrations WHERE id = 1`).Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("schema version = %d, want %d", version, schemaVersion)
	}

	for _, table := range []string{"categories", "transactions"} {
		var name string
		err := db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %q missing: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenso.db")

	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), Config{Mode: ModePlain, Path: path})
		if err != nil {
			t.Fatalf("Open() attempt %d unexpected error: %v", i+1, err)
		}
		db.Close()
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{Mode: ModePlain}); err == nil {
		t.Fatal("Open() accepted an empty path")
	}
}

func TestOpenRejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenso.db")
	if _, err := Open(context.Background(), Config{Mode: "wrong", Path: path}); err == nil {
		t.Fatal("Open() accepted an unknown mode")
	}
}
