// Package ledger owns the in-memory transaction and recurring payment
// collections, the selected-month cursor, and every statistic derived from them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/the-budget-must-balance/internal/exchange"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Store errors.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRecurring   = errors.New("invalid recurring payment")
	ErrEmptyCurrency      = errors.New("currency cannot be empty")
	ErrPersist            = errors.New("failed to persist ledger")
	ErrDuplicateID        = errors.New("duplicate id")
)

// Store is the single source of truth for ledger data.
// All methods are safe for concurrent use; queries never observe a
// half-applied mutation.
type Store struct {
	persister    service.Persister
	logger       *slog.Logger
	clock        func() time.Time
	loc          *time.Location
	currency     string
	transactions []model.Transaction
	recurring    []model.RecurringPayment
	listeners    []listener
	month        model.Month
	nextListener int
	mu           sync.RWMutex
	listenersMu  sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for the initial cursor and
// relative dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLocation sets the time zone in which calendar months and days are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithDefaultCurrency sets the currency used when nothing is persisted.
func WithDefaultCurrency(currency string) Option {
	return func(s *Store) { s.currency = currency }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open creates a Store and loads its persisted state. A failing load never
// prevents startup: the Store starts empty and the failure is logged.
func Open(ctx context.Context, persister service.Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		logger:    slog.Default(),
		clock:     time.Now,
		loc:       time.Local,
		currency:  model.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.month = model.MonthOf(s.clock().In(s.loc))

	snap, err := persister.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load ledger, starting empty", "error", err)
		snap = model.EmptySnapshot(s.currency)
	}
	s.replace(snap)

	s.logger.Debug("Loaded ledger",
		"transactions", len(s.transactions),
		"recurring", len(s.recurring),
		"currency", s.currency)
	return s
}

// replace swaps in a snapshot. Callers hold the write lock or own s exclusively.
func (s *Store) replace(snap model.Snapshot) {
	s.transactions = slices.Clone(snap.Transactions)
	s.recurring = slices.Clone(snap.RecurringPayments)
	if snap.Currency != "" {
		s.currency = snap.Currency
	}
}

// snapshotLocked copies the current state. Callers hold a lock.
func (s *Store) snapshotLocked() model.Snapshot {
	return model.Snapshot{
		Transactions:      slices.Clone(s.transactions),
		RecurringPayments: slices.Clone(s.recurring),
		Currency:          s.currency,
	}
}

// persistLocked writes the current state. Callers hold the write lock.
func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error("Failed to persist ledger", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// mutate applies fn under the write lock, persists if fn reports a change,
// and notifies listeners once the lock is released.
func (s *Store) mutate(ctx context.Context, fn func() (*Event, error)) error {
	s.mu.Lock()
	event, err := fn()
	if err != nil || event == nil {
		s.mu.Unlock()
		return err
	}
	persistErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(*event)
	return persistErr
}

// Save persists the current state again, e.g. after a persistence error.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

// AddTransaction appends a transaction. An empty ID is filled in; an ID
// already in the ledger is rejected with ErrDuplicateID.
func (s *Store) AddTransaction(ctx context.Context, t model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	return s.mutate(ctx, func() (*Event, error) {
		if slices.ContainsFunc(s.transactions, func(existing model.Transaction) bool { return existing.ID == t.ID }) {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidTransaction, ErrDuplicateID, t.ID)
		}
		s.transactions = append(s.transactions, t)
		return &Event{Kind: EventTransactions, IDs: []string{t.ID}}, nil
	})
}

// AddTransactions appends many transactions in one persist cycle. Records
// whose ID is already present are skipped; the number added is returned.
func (s *Store) AddTransactions(ctx context.Context, ts []model.Transaction) (int, error) {
	ts = slices.Clone(ts)
	for i := range ts {
		if ts[i].ID == "" {
			ts[i].ID = uuid.NewString()
		}
		if err := ts[i].Validate(); err != nil {
			return 0, fmt.Errorf("%w: record %d: %w", ErrInvalidTransaction, i, err)
		}
	}

	added := 0
	err := s.mutate(ctx, func() (*Event, error) {
		seen := make(map[string]bool, len(s.transactions)+len(ts))
		for _, t := range s.transactions {
			seen[t.ID] = true
		}
		var ids []string
		for _, t := range ts {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			s.transactions = append(s.transactions, t)
			ids = append(ids, t.ID)
		}
		added = len(ids)
		if added == 0 {
			return nil, nil
		}
		return &Event{Kind: EventTransactions, IDs: ids}, nil
	})
	return added, err
}

// UpdateTransaction replaces the transaction with the same ID.
// It does nothing when no such transaction exists.
func (s *Store) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	return s.mutate(ctx, func() (*Event, error) {
		i := slices.IndexFunc(s.transactions, func(existing model.Transaction) bool { return existing.ID == t.ID })
		if i < 0 {
			return nil, nil
		}
		s.transactions[i] = t
		return &Event{Kind: EventTransactions, IDs: []string{t.ID}}, nil
	})
}

// DeleteTransaction removes the transaction with the given ID, if present.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.DeleteTransactions(ctx, []string{id})
}

// DeleteTransactions removes every transaction whose ID is listed.
func (s *Store) DeleteTransactions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	return s.mutate(ctx, func() (*Event, error) {
		var removed []string
		s.transactions = slices.DeleteFunc(s.transactions, func(t model.Transaction) bool {
			if doomed[t.ID] {
				removed = append(removed, t.ID)
				return true
			}
			return false
		})
		if len(removed) == 0 {
			return nil, nil
		}
		return &Event{Kind: EventTransactions, IDs: removed}, nil
	})
}

// AddRecurring appends a recurring payment. An empty ID is filled in; an ID
// already in the ledger is rejected with ErrDuplicateID.
func (s *Store) AddRecurring(ctx context.Context, p model.RecurringPayment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecurring, err)
	}

	return s.mutate(ctx, func() (*Event, error) {
		if s.recurringIndex(p.ID) >= 0 {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRecurring, ErrDuplicateID, p.ID)
		}
		s.recurring = append(s.recurring, p)
		return &Event{Kind: EventRecurring, IDs: []string{p.ID}}, nil
	})
}

// UpdateRecurring replaces the recurring payment with the same ID.
// It does nothing when no such payment exists.
func (s *Store) UpdateRecurring(ctx context.Context, p model.RecurringPayment) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecurring, err)
	}

	return s.mutate(ctx, func() (*Event, error) {
		i := s.recurringIndex(p.ID)
		if i < 0 {
			return nil, nil
		}
		s.recurring[i] = p
		return &Event{Kind: EventRecurring, IDs: []string{p.ID}}, nil
	})
}

// DeleteRecurring removes the recurring payment with the given ID, if present.
func (s *Store) DeleteRecurring(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (*Event, error) {
		i := s.recurringIndex(id)
		if i < 0 {
			return nil, nil
		}
		s.recurring = slices.Delete(s.recurring, i, i+1)
		return &Event{Kind: EventRecurring, IDs: []string{id}}, nil
	})
}

// ToggleRecurring flips IsActive on the payment with the given ID, if present.
func (s *Store) ToggleRecurring(ctx context.Context, id string) error {
	return s.mutate(ctx, func() (*Event, error) {
		i := s.recurringIndex(id)
		if i < 0 {
			return nil, nil
		}
		s.recurring[i].IsActive = !s.recurring[i].IsActive
		return &Event{Kind: EventRecurring, IDs: []string{id}}, nil
	})
}

func (s *Store) recurringIndex(id string) int {
	return slices.IndexFunc(s.recurring, func(p model.RecurringPayment) bool { return p.ID == id })
}

// SetCurrency updates the currency preference.
func (s *Store) SetCurrency(ctx context.Context, currency string) error {
	if currency == "" {
		return ErrEmptyCurrency
	}
	return s.mutate(ctx, func() (*Event, error) {
		s.currency = currency
		return &Event{Kind: EventCurrency}, nil
	})
}

// ClearAll removes every transaction and recurring payment.
// The currency preference is kept.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.mutate(ctx, func() (*Event, error) {
		s.transactions = []model.Transaction{}
		s.recurring = []model.RecurringPayment{}
		return &Event{Kind: EventReset}, nil
	})
}

// Export serializes the full ledger as a backup document.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()
	return exchange.Export(snap)
}

// Import replaces the whole ledger with the contents of a backup document.
// On a decode error the current state is left untouched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	snap, err := exchange.Import(data)
	if err != nil {
		return err
	}

	return s.mutate(ctx, func() (*Event, error) {
		s.replace(snap)
		return &Event{Kind: EventReset}, nil
	})
}

// SelectedMonth returns the month cursor.
func (s *Store) SelectedMonth() model.Month {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.month
}

// SetSelectedMonth moves the cursor to the month containing t.
func (s *Store) SetSelectedMonth(t time.Time) {
	s.SetMonth(model.MonthOf(t.In(s.loc)))
}

// SetMonth moves the cursor to m.
func (s *Store) SetMonth(m model.Month) {
	s.mu.Lock()
	s.month = m
	s.mu.Unlock()
	s.notify(Event{Kind: EventMonth})
}

// ChangeMonth moves the cursor by delta months; negative moves back.
func (s *Store) ChangeMonth(delta int) {
	s.mu.Lock()
	s.month = s.month.AddMonths(delta)
	s.mu.Unlock()
	s.notify(Event{Kind: EventMonth})
}

// Location returns the time zone used for calendar calculations.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the Store's location.
func (s *Store) Now() time.Time {
	return s.clock().In(s.loc)
}
