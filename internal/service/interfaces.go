// Package service defines the interfaces shared between the ledger and its adapters.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Persister durably stores a ledger snapshot.
//
// Load must not fail on a missing or undecodable key: it returns that key's
// default instead. An error from Load means the medium itself is unusable.
type Persister interface {
	Save(ctx context.Context, snap model.Snapshot) error
	Load(ctx context.Context) (model.Snapshot, error)
}

// Backup describes a stored copy of an exported ledger.
type Backup struct {
	CreatedAt time.Time
	ID        string
	Reason    string
	Size      int
}

// Backuper keeps export documents taken before destructive operations.
type Backuper interface {
	SaveBackup(ctx context.Context, reason string, document []byte) (Backup, error)
	ListBackups(ctx context.Context) ([]Backup, error)
	GetBackup(ctx context.Context, id string) ([]byte, error)
}

// Storage is a persistence adapter as opened by the application.
type Storage interface {
	Persister
	Backuper
	Close() error
}

// Storage keys shared by every persistence adapter.
const (
	KeyTransactions = "finance_transactions"
	KeyRecurring    = "finance_recurring"
	KeyCurrency     = "finance_currency"
)

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
