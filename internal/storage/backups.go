package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// SaveBackup stores an export document under the given reason.
func (s *SQLiteStorage) SaveBackup(ctx context.Context, reason string, document []byte) (service.Backup, error) {
	if err := validateContext(ctx); err != nil {
		return service.Backup{}, err
	}
	if err := validateString(reason, "reason"); err != nil {
		return service.Backup{}, err
	}

	createdAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO backups (reason, document, created_at) VALUES (?, ?, ?)`,
		reason, document, createdAt)
	if err != nil {
		return service.Backup{}, fmt.Errorf("failed to save backup: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return service.Backup{}, fmt.Errorf("failed to read backup id: %w", err)
	}

	return service.Backup{
		ID:        strconv.FormatInt(id, 10),
		Reason:    reason,
		CreatedAt: createdAt,
		Size:      len(document),
	}, nil
}

// ListBackups returns stored backups, newest first.
func (s *SQLiteStorage) ListBackups(ctx context.Context) ([]service.Backup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reason, created_at, length(document) FROM backups ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var backups []service.Backup
	for rows.Next() {
		var id int64
		var b service.Backup
		if err := rows.Scan(&id, &b.Reason, &b.CreatedAt, &b.Size); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		b.ID = strconv.FormatInt(id, 10)
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// GetBackup returns the export document of a backup.
func (s *SQLiteStorage) GetBackup(ctx context.Context, id string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBackupNotFound, id)
	}

	var document []byte
	err = s.db.QueryRowContext(ctx, `SELECT document FROM backups WHERE id = ?`, rowID).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrBackupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return document, nil
}
