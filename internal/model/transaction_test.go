package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	date := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	valid := NewTransaction(TypeExpense, decimal.NewFromInt(500), CategoryFood, "lunch", date)

	tests := []struct {
		mutate  func(*Transaction)
		wantErr error
		name    string
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "missing id", mutate: func(t *Transaction) { t.ID = "" }, wantErr: ErrMissingField},
		{name: "unknown type", mutate: func(t *Transaction) { t.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "zero amount", mutate: func(t *Transaction) { t.Amount = decimal.Zero }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(t *Transaction) { t.Amount = decimal.NewFromInt(-3) }, wantErr: ErrInvalidAmount},
		{name: "income category on expense", mutate: func(t *Transaction) { t.Category = CategorySalary }, wantErr: ErrInvalidCategory},
		{name: "zero date", mutate: func(t *Transaction) { t.Date = time.Time{} }, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid
			tt.mutate(&txn)
			err := txn.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransaction_Identity(t *testing.T) {
	date := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	a := NewTransaction(TypeIncome, decimal.NewFromInt(10), CategoryGift, "", date)
	b := NewTransaction(TypeIncome, decimal.NewFromInt(10), CategoryGift, "", date)

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.SameAs(b))

	edited := a
	edited.Note = "from grandma"
	assert.True(t, a.SameAs(edited))
}

func TestTransaction_Signed(t *testing.T) {
	income := Transaction{Type: TypeIncome, Amount: decimal.NewFromInt(20)}
	expense := Transaction{Type: TypeExpense, Amount: decimal.NewFromInt(20)}
	assert.Equal(t, "20", income.Signed().String())
	assert.Equal(t, "-20", expense.Signed().String())
}

func TestParseTransactionType(t *testing.T) {
	got, err := ParseTransactionType("income")
	assert.NoError(t, err)
	assert.Equal(t, TypeIncome, got)

	_, err = ParseTransactionType("INCOME")
	assert.ErrorIs(t, err, ErrInvalidType)
}
