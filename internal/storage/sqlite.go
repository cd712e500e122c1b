// Package storage provides the persistence adapters for the ledger.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// SQLiteStorage implements service.Storage as a key/blob table in SQLite.
type SQLiteStorage struct {
	db              *sql.DB
	dbPath          string
	defaultCurrency string
	retry           service.RetryOptions
}

// NewSQLiteStorage opens (and creates if needed) the database at dbPath.
// Call Migrate before use.
func NewSQLiteStorage(dbPath, defaultCurrency string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if defaultCurrency == "" {
		defaultCurrency = model.DefaultCurrency
	}

	return &SQLiteStorage{
		db:              db,
		dbPath:          dbPath,
		defaultCurrency: defaultCurrency,
		retry:           common.DefaultRetryOptions(),
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Save writes every key of the snapshot in a single database transaction.
func (s *SQLiteStorage) Save(ctx context.Context, snap model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	blobs, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	return common.WithRetry(ctx, func() error {
		return s.writeBlobs(ctx, blobs)
	}, s.retry)
}

func (s *SQLiteStorage) writeBlobs(ctx context.Context, blobs []blob) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classifyError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return classifyError(fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blobs {
		if _, err := stmt.ExecContext(ctx, b.key, b.value); err != nil {
			return classifyError(fmt.Errorf("failed to write %s: %w", b.key, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return classifyError(fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// Load reads the persisted snapshot. Missing or corrupt keys fall back to
// their defaults; only a failing database is reported as an error.
func (s *SQLiteStorage) Load(ctx context.Context) (model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.EmptySnapshot(s.defaultCurrency), err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv_store WHERE key IN (?, ?, ?)`,
		service.KeyTransactions, service.KeyRecurring, service.KeyCurrency)
	if err != nil {
		return model.EmptySnapshot(s.defaultCurrency), fmt.Errorf("failed to query stored state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	blobs := make(map[string][]byte, 3)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return model.EmptySnapshot(s.defaultCurrency), fmt.Errorf("failed to scan stored state: %w", err)
		}
		blobs[key] = value
	}
	if err := rows.Err(); err != nil {
		return model.EmptySnapshot(s.defaultCurrency), fmt.Errorf("failed to read stored state: %w", err)
	}

	return decodeSnapshot(blobs, s.defaultCurrency), nil
}

// classifyError marks SQLite lock contention as retryable.
func classifyError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %w", common.ErrStorageBusy, err)
	}
	return err
}
