package storage

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Open creates the storage for driver at path and prepares it for use.
func Open(ctx context.Context, driver, path, defaultCurrency string) (service.Storage, error) {
	switch driver {
	case DriverSQLite, "":
		store, err := NewSQLiteStorage(path, defaultCurrency)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	case DriverFile:
		return NewFileStorage(afero.NewOsFs(), path, defaultCurrency)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
