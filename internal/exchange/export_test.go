package exchange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func sampleSnapshot() model.Snapshot {
	moscow := time.FixedZone("MSK", 3*60*60)
	return model.Snapshot{
		Transactions: []model.Transaction{
			{
				ID:       "8d1f6b5e-3a44-4c1b-9c0e-1f2a3b4c5d6e",
				Type:     model.TypeExpense,
				Amount:   decimal.RequireFromString("500.25"),
				Category: model.CategoryFood,
				Note:     "market",
				Date:     time.Date(2024, 3, 15, 18, 30, 5, 123456789, moscow),
			},
			{
				ID:       "0b8e2b1c-7d6a-4e55-8f00-aa11bb22cc33",
				Type:     model.TypeIncome,
				Amount:   decimal.NewFromInt(2000),
				Category: model.CategorySalary,
				Note:     "",
				Date:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			},
		},
		RecurringPayments: []model.RecurringPayment{
			{
				ID:         "5f0c1d2e-3f40-4a5b-8c6d-7e8f90a1b2c3",
				Name:       "Gym",
				Amount:     decimal.RequireFromString("1499.99"),
				Category:   model.CategoryHealth,
				DayOfMonth: 31,
				IsActive:   false,
			},
		},
		Currency: "€",
	}
}

func assertSnapshotsEqual(t *testing.T, want, got model.Snapshot) {
	t.Helper()
	assert.Equal(t, want.Currency, got.Currency)

	require.Len(t, got.Transactions, len(want.Transactions))
	for i, w := range want.Transactions {
		g := got.Transactions[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Type, g.Type)
		assert.True(t, w.Amount.Equal(g.Amount), "amount %s != %s", w.Amount, g.Amount)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Note, g.Note)
		assert.True(t, w.Date.Equal(g.Date), "date %v != %v", w.Date, g.Date)
	}

	require.Len(t, got.RecurringPayments, len(want.RecurringPayments))
	for i, w := range want.RecurringPayments {
		g := got.RecurringPayments[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Name, g.Name)
		assert.True(t, w.Amount.Equal(g.Amount))
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.DayOfMonth, g.DayOfMonth)
		assert.Equal(t, w.IsActive, g.IsActive)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := Export(snap)
	require.NoError(t, err)

	got, err := Import(data)
	require.NoError(t, err)
	assertSnapshotsEqual(t, snap, got)
}

func TestExport_EmptySnapshot(t *testing.T) {
	data, err := Export(model.EmptySnapshot(""))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["transactions"])
	assert.Equal(t, []any{}, raw["recurringPayments"])
	assert.Equal(t, model.DefaultCurrency, raw["currency"])
}

func TestExport_WireFormat(t *testing.T) {
	data, err := Export(sampleSnapshot())
	require.NoError(t, err)

	var raw struct {
		Transactions      []map[string]json.RawMessage `json:"transactions"`
		RecurringPayments []map[string]json.RawMessage `json:"recurringPayments"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	first := raw.Transactions[0]
	assert.JSONEq(t, `500.25`, string(first["amount"]), "amount must be a JSON number")
	assert.JSONEq(t, `"expense"`, string(first["type"]))
	assert.JSONEq(t, `"food"`, string(first["category"]))
	assert.JSONEq(t, `"2024-03-15T18:30:05.123456789+03:00"`, string(first["date"]))
	// Whole-second dates carry no fraction, so plain ISO 8601 readers accept them.
	assert.JSONEq(t, `"2024-03-01T09:00:00Z"`, string(raw.Transactions[1]["date"]))

	rec := raw.RecurringPayments[0]
	assert.JSONEq(t, `31`, string(rec["dayOfMonth"]))
	assert.JSONEq(t, `false`, string(rec["isActive"]))
}

func TestImport_AcceptsSecondPrecisionDates(t *testing.T) {
	doc := `{
		"transactions": [
			{"id": "a", "type": "expense", "amount": 500, "category": "food", "note": "", "date": "2024-03-15T10:00:00Z"}
		],
		"recurringPayments": [],
		"currency": "$"
	}`

	snap, err := Import([]byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 1)
	assert.True(t, snap.Transactions[0].Date.Equal(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "$", snap.Currency)
}

func TestImport_Errors(t *testing.T) {
	validTxn := `{"id": "a", "type": "expense", "amount": 5, "category": "food", "note": "", "date": "2024-03-15T10:00:00Z"}`

	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `this is not json`},
		{name: "empty", doc: ``},
		{name: "array instead of object", doc: `[]`},
		{name: "missing currency", doc: `{"transactions": [], "recurringPayments": []}`},
		{name: "empty currency", doc: `{"transactions": [], "recurringPayments": [], "currency": ""}`},
		{name: "blank currency", doc: `{"transactions": [], "recurringPayments": [], "currency": "  "}`},
		{name: "duplicate transaction id", doc: `{"transactions": [` + validTxn + `, ` + validTxn + `], "recurringPayments": [], "currency": "$"}`},
		{name: "duplicate recurring id", doc: `{"transactions": [], "recurringPayments": [{"id": "r", "name": "Rent", "amount": 100, "category": "housing", "dayOfMonth": 1, "isActive": true}, {"id": "r", "name": "Gym", "amount": 30, "category": "health", "dayOfMonth": 5, "isActive": false}], "currency": "$"}`},
		{name: "missing transactions", doc: `{"recurringPayments": [], "currency": "$"}`},
		{name: "missing recurring", doc: `{"transactions": [], "currency": "$"}`},
		{name: "trailing garbage", doc: `{"transactions": [], "recurringPayments": [], "currency": "$"} {}`},
		{name: "unknown type", doc: `{"transactions": [{"id": "a", "type": "transfer", "amount": 5, "category": "food", "note": "", "date": "2024-03-15T10:00:00Z"}], "recurringPayments": [], "currency": "$"}`},
		{name: "unknown category", doc: `{"transactions": [{"id": "a", "type": "expense", "amount": 5, "category": "yachts", "note": "", "date": "2024-03-15T10:00:00Z"}], "recurringPayments": [], "currency": "$"}`},
		{name: "bad date", doc: `{"transactions": [{"id": "a", "type": "expense", "amount": 5, "category": "food", "note": "", "date": "15.03.2024"}], "recurringPayments": [], "currency": "$"}`},
		{name: "missing note", doc: `{"transactions": [{"id": "a", "type": "expense", "amount": 5, "category": "food", "date": "2024-03-15T10:00:00Z"}], "recurringPayments": [], "currency": "$"}`},
		{name: "negative amount", doc: `{"transactions": [{"id": "a", "type": "expense", "amount": -5, "category": "food", "note": "", "date": "2024-03-15T10:00:00Z"}], "recurringPayments": [], "currency": "$"}`},
		{name: "amount is text", doc: `{"transactions": [{"id": "a", "type": "expense", "amount": "five", "category": "food", "note": "", "date": "2024-03-15T10:00:00Z"}], "recurringPayments": [], "currency": "$"}`},
		{name: "recurring day out of range", doc: `{"transactions": [` + validTxn + `], "recurringPayments": [{"id": "r", "name": "Rent", "amount": 100, "category": "housing", "dayOfMonth": 40, "isActive": true}], "currency": "$"}`},
		{name: "recurring missing isActive", doc: `{"transactions": [], "recurringPayments": [{"id": "r", "name": "Rent", "amount": 100, "category": "housing", "dayOfMonth": 4}], "currency": "$"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Import([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrDecode)
			assert.Empty(t, snap.Transactions)
			assert.Empty(t, snap.RecurringPayments)
		})
	}
}

func TestImport_IgnoresUnknownKeys(t *testing.T) {
	doc := `{"version": 2, "transactions": [], "recurringPayments": [], "currency": "£"}`
	snap, err := Import([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "£", snap.Currency)
}
