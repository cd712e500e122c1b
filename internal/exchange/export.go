package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// envelope is the backup document. Its keys are part of the file format.
type envelope struct {
	Transactions      *[]transactionRecord `json:"transactions"`
	RecurringPayments *[]recurringRecord   `json:"recurringPayments"`
	Currency          *string              `json:"currency"`
}

// Export serializes a full snapshot into the backup document.
func Export(snap model.Snapshot) ([]byte, error) {
	txns := make([]transactionRecord, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		txns = append(txns, newTransactionRecord(t))
	}
	recurring := make([]recurringRecord, 0, len(snap.RecurringPayments))
	for _, p := range snap.RecurringPayments {
		recurring = append(recurring, newRecurringRecord(p))
	}
	currency := snap.Currency

	data, err := json.MarshalIndent(envelope{
		Transactions:      &txns,
		RecurringPayments: &recurring,
		Currency:          &currency,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// Import parses a backup document. Any malformed input yields an error
// wrapping ErrDecode and no partial data.
func Import(data []byte) (model.Snapshot, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&env); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if dec.More() {
		return model.Snapshot{}, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}

	switch {
	case env.Transactions == nil:
		return model.Snapshot{}, fmt.Errorf("%w: missing \"transactions\"", ErrDecode)
	case env.RecurringPayments == nil:
		return model.Snapshot{}, fmt.Errorf("%w: missing \"recurringPayments\"", ErrDecode)
	case env.Currency == nil:
		return model.Snapshot{}, fmt.Errorf("%w: missing \"currency\"", ErrDecode)
	case strings.TrimSpace(*env.Currency) == "":
		return model.Snapshot{}, fmt.Errorf("%w: empty \"currency\"", ErrDecode)
	}

	txns, err := decodeTransactions(*env.Transactions)
	if err != nil {
		return model.Snapshot{}, err
	}
	recurring, err := decodeRecurring(*env.RecurringPayments)
	if err != nil {
		return model.Snapshot{}, err
	}
	if id, ok := duplicateID(txns, func(t model.Transaction) string { return t.ID }); ok {
		return model.Snapshot{}, fmt.Errorf("%w: duplicate transaction id %q", ErrDecode, id)
	}
	if id, ok := duplicateID(recurring, func(p model.RecurringPayment) string { return p.ID }); ok {
		return model.Snapshot{}, fmt.Errorf("%w: duplicate recurring payment id %q", ErrDecode, id)
	}

	return model.Snapshot{
		Transactions:      txns,
		RecurringPayments: recurring,
		Currency:          *env.Currency,
	}, nil
}

// duplicateID returns the first ID that occurs more than once.
func duplicateID[T any](records []T, id func(T) string) (string, bool) {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := id(r)
		if seen[key] {
			return key, true
		}
		seen[key] = true
	}
	return "", false
}
