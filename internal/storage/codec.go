package storage

import (
	"log/slog"

	"github.com/Veraticus/the-budget-must-balance/internal/exchange"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// blob is one persisted key.
type blob struct {
	key   string
	value []byte
}

func encodeSnapshot(snap model.Snapshot) ([]blob, error) {
	txns, err := exchange.MarshalTransactions(snap.Transactions)
	if err != nil {
		return nil, err
	}
	recurring, err := exchange.MarshalRecurring(snap.RecurringPayments)
	if err != nil {
		return nil, err
	}
	return []blob{
		{key: service.KeyTransactions, value: txns},
		{key: service.KeyRecurring, value: recurring},
		{key: service.KeyCurrency, value: []byte(snap.Currency)},
	}, nil
}

// decodeSnapshot decodes each key on its own so one corrupt key does not
// take the others down with it.
func decodeSnapshot(blobs map[string][]byte, defaultCurrency string) model.Snapshot {
	snap := model.EmptySnapshot(defaultCurrency)

	if data, ok := blobs[service.KeyTransactions]; ok {
		txns, err := exchange.UnmarshalTransactions(data)
		if err != nil {
			slog.Warn("Discarding unreadable stored transactions", "key", service.KeyTransactions, "error", err)
		} else {
			snap.Transactions = txns
		}
	}

	if data, ok := blobs[service.KeyRecurring]; ok {
		recurring, err := exchange.UnmarshalRecurring(data)
		if err != nil {
			slog.Warn("Discarding unreadable stored recurring payments", "key", service.KeyRecurring, "error", err)
		} else {
			snap.RecurringPayments = recurring
		}
	}

	if data, ok := blobs[service.KeyCurrency]; ok && len(data) > 0 {
		snap.Currency = string(data)
	}

	return snap
}
