package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

var march15 = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// newTestApp builds an app over in-memory file storage with the clock
// fixed at 15 March 2024, noon UTC.
func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()

	st, err := storage.NewFileStorage(afero.NewMemMapFs(), "/data", model.DefaultCurrency)
	require.NoError(t, err)

	store := ledger.Open(context.Background(), st,
		ledger.WithClock(func() time.Time { return march15 }),
		ledger.WithLocation(time.UTC))

	out := &bytes.Buffer{}
	return &app{
		storage:   st,
		store:     store,
		formatter: cli.NewFormatter(language.English, store.Currency()),
		out:       out,
		cfg: &config.Config{
			Storage: config.StorageConfig{Driver: "file", Path: "/data"},
			Ledger:  config.LedgerConfig{Currency: model.DefaultCurrency, Timezone: "UTC"},
			Display: config.DisplayConfig{Locale: "en", Theme: "default"},
			Logging: config.LoggingConfig{Level: "info", Format: "console"},
		},
	}, out
}

func seedTransaction(t *testing.T, a *app, txType model.TransactionType, amount int64, category model.Category, note string, date time.Time) model.Transaction {
	t.Helper()
	txn := model.NewTransaction(txType, decimal.NewFromInt(amount), category, note, date)
	require.NoError(t, a.store.AddTransaction(context.Background(), txn))
	return txn
}
