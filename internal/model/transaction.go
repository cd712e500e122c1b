package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TypeIncome is money received.
	TypeIncome TransactionType = "income"
	// TypeExpense is money spent.
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType converts a raw string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome, TypeExpense:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single recorded income or expense.
// Amount is always positive; the sign is implied by Type.
type Transaction struct {
	Date     time.Time
	ID       string
	Type     TransactionType
	Category Category
	Note     string
	Amount   decimal.Decimal
}

// NewTransaction creates a transaction with a freshly generated ID.
func NewTransaction(txType TransactionType, amount decimal.Decimal, category Category, note string, date time.Time) Transaction {
	return Transaction{
		ID:       uuid.NewString(),
		Type:     txType,
		Amount:   amount,
		Category: category,
		Note:     note,
		Date:     date,
	}
}

// Validate checks the transaction invariants.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, t.Amount)
	}
	if !t.Category.ValidFor(t.Type) {
		return fmt.Errorf("%w: %q is not an %s category", ErrInvalidCategory, t.Category, t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	return nil
}

// Signed returns the amount with the sign implied by the type.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// SameAs reports whether both records share an identity.
func (t *Transaction) SameAs(other Transaction) bool {
	return t.ID == other.ID
}
