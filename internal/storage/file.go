package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

const (
	backupsDir     = "backups"
	backupIDLayout = "20060102T150405.000000000Z"
)

// FileStorage implements service.Storage with one file per key.
// Every write goes through a temporary file and a rename, so a key on disk
// is always either the previous or the new complete value.
type FileStorage struct {
	fs              afero.Fs
	dir             string
	defaultCurrency string
}

// NewFileStorage creates a file-backed storage rooted at dir on fsys.
func NewFileStorage(fsys afero.Fs, dir, defaultCurrency string) (*FileStorage, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := fsys.MkdirAll(filepath.Join(dir, backupsDir), 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if defaultCurrency == "" {
		defaultCurrency = model.DefaultCurrency
	}
	return &FileStorage{fs: fsys, dir: dir, defaultCurrency: defaultCurrency}, nil
}

// Close is a no-op; files are not held open between calls.
func (f *FileStorage) Close() error {
	return nil
}

// Save writes each key of the snapshot atomically.
func (f *FileStorage) Save(ctx context.Context, snap model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	blobs, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	for _, b := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.writeAtomic(f.keyPath(b.key), b.value); err != nil {
			return fmt.Errorf("failed to write %s: %w", b.key, err)
		}
	}
	return nil
}

// Load reads every key, falling back to defaults for missing or corrupt ones.
func (f *FileStorage) Load(ctx context.Context) (model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.EmptySnapshot(f.defaultCurrency), err
	}

	blobs := make(map[string][]byte, 3)
	for _, key := range []string{service.KeyTransactions, service.KeyRecurring, service.KeyCurrency} {
		data, err := afero.ReadFile(f.fs, f.keyPath(key))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			slog.Warn("Failed to read stored key", "key", key, "error", err)
			continue
		}
		blobs[key] = data
	}

	return decodeSnapshot(blobs, f.defaultCurrency), nil
}

// SaveBackup writes an export document into the backups directory.
func (f *FileStorage) SaveBackup(ctx context.Context, reason string, document []byte) (service.Backup, error) {
	if err := validateContext(ctx); err != nil {
		return service.Backup{}, err
	}
	if err := validateString(reason, "reason"); err != nil {
		return service.Backup{}, err
	}

	createdAt := time.Now().UTC()
	id := createdAt.Format(backupIDLayout) + "-" + sanitizeReason(reason)
	if err := f.writeAtomic(f.backupPath(id), document); err != nil {
		return service.Backup{}, fmt.Errorf("failed to save backup: %w", err)
	}

	return service.Backup{ID: id, Reason: reason, CreatedAt: createdAt, Size: len(document)}, nil
}

// ListBackups returns stored backups, newest first.
func (f *FileStorage) ListBackups(ctx context.Context) ([]service.Backup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(f.fs, filepath.Join(f.dir, backupsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []service.Backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		stamp, reason, _ := strings.Cut(id, "-")
		createdAt, err := time.Parse(backupIDLayout, stamp)
		if err != nil {
			continue
		}
		backups = append(backups, service.Backup{
			ID:        id,
			Reason:    reason,
			CreatedAt: createdAt,
			Size:      int(entry.Size()),
		})
	}

	slices.SortFunc(backups, func(a, b service.Backup) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// GetBackup returns the export document of a backup.
func (f *FileStorage) GetBackup(ctx context.Context, id string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: %q", ErrBackupNotFound, id)
	}

	data, err := afero.ReadFile(f.fs, f.backupPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrBackupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

func (f *FileStorage) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0600); err != nil {
		return err
	}
	if err := f.fs.Rename(tmp, path); err != nil {
		_ = f.fs.Remove(tmp)
		return err
	}
	return nil
}

func (f *FileStorage) keyPath(key string) string {
	if key == service.KeyCurrency {
		return filepath.Join(f.dir, key+".txt")
	}
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStorage) backupPath(id string) string {
	return filepath.Join(f.dir, backupsDir, id+".json")
}

// sanitizeReason keeps backup file names portable.
func sanitizeReason(reason string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(reason) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
