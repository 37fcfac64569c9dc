package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/denis-severinov/expenso-go/internal/auth"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	// ModePlain stores the database unencrypted.
	ModePlain Mode = "plain"
	// ModeSecure encrypts the database with a key held in the system
	// credential store; requires a sqlcipher-enabled build.
	ModeSecure Mode = "secure"
)

const schemaVersion = 1

type Config struct {
	Mode Mode
	Path string
}

func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("storage path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	var db *sql.DB
	switch cfg.Mode {
	case ModePlain:
		plain, err := sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		db = plain
	case ModeSecure:
		if !secureSQLiteSupported() {
			return nil, fmt.Errorf(
				"secure mode requires a sqlcipher-enabled build; rebuild with '-tags sqlcipher'",
			)
		}
		key, err := ensureDBKey()
		if err != nil {
			return nil, fmt.Errorf("ensure secure db key: %w", err)
		}
		secure, err := openSecureSQLite(cfg.Path, key)
		if err != nil {
			return nil, err
		}
		db = secure
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureDBKey() (string, error) {
	key, err := auth.LoadDBKey()
	if err == nil && strings.TrimSpace(key) != "" {
		return key, nil
	}

	newKey, err := generateRandomKey()
	if err != nil {
		return "", err
	}
	if err := auth.SaveDBKey(newKey); err != nil {
		return "", err
	}
	return newKey, nil
}

func generateRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);
`
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("bootstrap schema_migrations: %w", err)
	}

	var current int
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE id = 1`).Scan(&current)
	if err == sql.ErrNoRows {
		current = 0
		err = nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if current < 1 {
		const v1 = `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  amount_cents INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  category_id TEXT NOT NULL DEFAULT '',
  category_name TEXT NOT NULL DEFAULT '',
  comment TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at);
`
		if _, err := db.ExecContext(ctx, v1); err != nil {
			return fmt.Errorf("apply schema v1: %w", err)
		}
	}

	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO schema_migrations (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`,
		schemaVersion,
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
