// Package exchange encodes ledger data as JSON for backups and storage blobs.
package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// ErrDecode is returned for any document that cannot be turned into ledger data.
var ErrDecode = errors.New("decode failed")

// DateLayout is the textual date format used on the wire.
const DateLayout = time.RFC3339Nano

// transactionRecord is the wire shape of a transaction. Pointer fields let
// the decoder tell a missing key from a zero value.
type transactionRecord struct {
	ID       *string      `json:"id"`
	Type     *string      `json:"type"`
	Amount   *json.Number `json:"amount"`
	Category *string      `json:"category"`
	Note     *string      `json:"note"`
	Date     *string      `json:"date"`
}

type recurringRecord struct {
	ID         *string      `json:"id"`
	Name       *string      `json:"name"`
	Amount     *json.Number `json:"amount"`
	Category   *string      `json:"category"`
	DayOfMonth *int         `json:"dayOfMonth"`
	IsActive   *bool        `json:"isActive"`
}

func newTransactionRecord(t model.Transaction) transactionRecord {
	typ := string(t.Type)
	amount := json.Number(t.Amount.String())
	category := string(t.Category)
	date := t.Date.Format(DateLayout)
	return transactionRecord{
		ID:       &t.ID,
		Type:     &typ,
		Amount:   &amount,
		Category: &category,
		Note:     &t.Note,
		Date:     &date,
	}
}

func (r transactionRecord) toModel() (model.Transaction, error) {
	if r.ID == nil || r.Type == nil || r.Amount == nil || r.Category == nil || r.Note == nil || r.Date == nil {
		return model.Transaction{}, fmt.Errorf("%w: transaction is missing a field", ErrDecode)
	}

	txType, err := model.ParseTransactionType(*r.Type)
	if err != nil {
		return model.Transaction{}, err
	}
	category, err := model.ParseCategory(*r.Category)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: amount %q", model.ErrInvalidAmount, r.Amount.String())
	}
	date, err := time.Parse(DateLayout, *r.Date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("date %q: %w", *r.Date, err)
	}

	t := model.Transaction{
		ID:       *r.ID,
		Type:     txType,
		Amount:   amount,
		Category: category,
		Note:     *r.Note,
		Date:     date,
	}
	if err := t.Validate(); err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

func newRecurringRecord(p model.RecurringPayment) recurringRecord {
	amount := json.Number(p.Amount.String())
	category := string(p.Category)
	return recurringRecord{
		ID:         &p.ID,
		Name:       &p.Name,
		Amount:     &amount,
		Category:   &category,
		DayOfMonth: &p.DayOfMonth,
		IsActive:   &p.IsActive,
	}
}

func (r recurringRecord) toModel() (model.RecurringPayment, error) {
	if r.ID == nil || r.Name == nil || r.Amount == nil || r.Category == nil || r.DayOfMonth == nil || r.IsActive == nil {
		return model.RecurringPayment{}, fmt.Errorf("%w: recurring payment is missing a field", ErrDecode)
	}

	category, err := model.ParseCategory(*r.Category)
	if err != nil {
		return model.RecurringPayment{}, err
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return model.RecurringPayment{}, fmt.Errorf("%w: amount %q", model.ErrInvalidAmount, r.Amount.String())
	}

	p := model.RecurringPayment{
		ID:         *r.ID,
		Name:       *r.Name,
		Amount:     amount,
		Category:   category,
		DayOfMonth: *r.DayOfMonth,
		IsActive:   *r.IsActive,
	}
	if err := p.Validate(); err != nil {
		return model.RecurringPayment{}, err
	}
	return p, nil
}

// MarshalTransactions encodes transactions as a JSON array.
func MarshalTransactions(ts []model.Transaction) ([]byte, error) {
	records := make([]transactionRecord, 0, len(ts))
	for _, t := range ts {
		records = append(records, newTransactionRecord(t))
	}
	return json.Marshal(records)
}

// UnmarshalTransactions decodes a JSON array of transactions.
func UnmarshalTransactions(data []byte) ([]model.Transaction, error) {
	var records []transactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return decodeTransactions(records)
}

// MarshalRecurring encodes recurring payments as a JSON array.
func MarshalRecurring(ps []model.RecurringPayment) ([]byte, error) {
	records := make([]recurringRecord, 0, len(ps))
	for _, p := range ps {
		records = append(records, newRecurringRecord(p))
	}
	return json.Marshal(records)
}

// UnmarshalRecurring decodes a JSON array of recurring payments.
func UnmarshalRecurring(data []byte) ([]model.RecurringPayment, error) {
	var records []recurringRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return decodeRecurring(records)
}

func decodeTransactions(records []transactionRecord) ([]model.Transaction, error) {
	out := make([]model.Transaction, 0, len(records))
	for i, r := range records {
		t, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: transaction at index %d: %w", ErrDecode, i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeRecurring(records []recurringRecord) ([]model.RecurringPayment, error) {
	out := make([]model.RecurringPayment, 0, len(records))
	for i, r := range records {
		p, err := r.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: recurring payment at index %d: %w", ErrDecode, i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
