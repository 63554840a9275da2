package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/teamdeck/internal/client/migrations"
	"github.com/dmitrijs2005/teamdeck/internal/dbx"
	"github.com/dmitrijs2005/teamdeck/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type SQLiteStorage struct {
	db  dbx.DBTX
	raw *sql.DB
}

func NewSQLiteStorage(db dbx.DBTX) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

// Open opens (creating if needed) the SQLite database at dsn and applies
// the schema.
func Open(ctx context.Context, dsn string) (*SQLiteStorage, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewSQLiteStorage(db)
	s.raw = db
	return s, nil
}

func (s *SQLiteStorage) GetItem(ctx context.Context, name string) (*string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", name, err)
	}
	return &value, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value)
	if err != nil {
		return fmt.Errorf("failed to set slot[%s]: %w", name, err)
	}
	return nil
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove slot[%s]: %w", name, err)
	}
	return nil
}

// Close closes the database if the storage owns it.
func (s *SQLiteStorage) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
