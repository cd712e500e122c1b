package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestRunCurrency(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, runCurrency(ctx, a, ""))
	assert.Contains(t, out.String(), "Current currency: ₽")
	assert.Contains(t, out.String(), "Euro")

	out.Reset()
	require.NoError(t, runCurrency(ctx, a, "€"))
	assert.Equal(t, "€", a.store.Currency())
	assert.Contains(t, out.String(), "Currency set to €")
	assert.NotContains(t, out.String(), "not one of the common currencies")

	seedTransaction(t, a, model.TypeExpense, 5, model.CategoryFood, "", march15)
	assert.Equal(t, "5 €", a.formatter.Amount(a.store.MonthlyExpense()), "formatter follows the new currency")

	out.Reset()
	require.NoError(t, runCurrency(ctx, a, "CHF"))
	assert.Equal(t, "CHF", a.store.Currency())
	assert.Contains(t, out.String(), "not one of the common currencies")
}

func TestExportRestoreRoundTrip(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	seedTransaction(t, a, model.TypeExpense, 500, model.CategoryFood, "shop", march15)
	seedTransaction(t, a, model.TypeIncome, 2000, model.CategorySalary, "pay", march15)
	require.NoError(t, runRecurringAdd(ctx, a, recurringOptions{name: "Rent", amount: "900", category: "housing", day: "1"}))
	require.NoError(t, a.store.SetCurrency(ctx, "$"))

	var doc bytes.Buffer
	require.NoError(t, runExport(a, &doc))
	assert.True(t, strings.HasSuffix(doc.String(), "\n"))

	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, doc.Bytes(), 0600))

	b, out := newTestApp(t)
	seedTransaction(t, b, model.TypeExpense, 1, model.CategoryOther, "to be replaced", march15)

	require.NoError(t, runRestore(ctx, b, restoreOptions{file: path}))
	assert.Contains(t, out.String(), "Restored 2 transactions and 1 recurring payments")
	assert.Len(t, b.store.Transactions(), 2)
	assert.Len(t, b.store.RecurringPayments(), 1)
	assert.Equal(t, "$", b.store.Currency())

	backups, err := b.storage.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "restore", backups[0].Reason)

	t.Run("restore from stored backup undoes the restore", func(t *testing.T) {
		require.NoError(t, runRestore(ctx, b, restoreOptions{backupID: backups[0].ID}))
		txns := b.store.Transactions()
		require.Len(t, txns, 1)
		assert.Equal(t, "to be replaced", txns[0].Note)
	})
}

func TestRunRestoreRejectsGarbage(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	seedTransaction(t, a, model.TypeExpense, 500, model.CategoryFood, "", march15)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	err := runRestore(ctx, a, restoreOptions{file: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing was changed")
	assert.Len(t, a.store.Transactions(), 1)

	err = runRestore(ctx, a, restoreOptions{backupID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `No backup "missing"`)
}

func TestRunClear(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		yes         bool
		wantCleared bool
	}{
		{name: "confirmed", input: "y\n", wantCleared: true},
		{name: "yes flag", yes: true, wantCleared: true},
		{name: "declined", input: "n\n"},
		{name: "no input", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := newTestApp(t)
			ctx := context.Background()
			seedTransaction(t, a, model.TypeExpense, 500, model.CategoryFood, "", march15)
			require.NoError(t, a.store.SetCurrency(ctx, "€"))

			err := runClear(ctx, a, clearOptions{in: strings.NewReader(tt.input), yes: tt.yes})
			require.NoError(t, err)

			backups, err := a.storage.ListBackups(ctx)
			require.NoError(t, err)

			if tt.wantCleared {
				assert.Empty(t, a.store.Transactions())
				assert.Equal(t, "€", a.store.Currency(), "currency survives a clear")
				assert.Contains(t, out.String(), "Ledger cleared")
				require.Len(t, backups, 1)
				assert.Equal(t, "clear", backups[0].Reason)
			} else {
				assert.Len(t, a.store.Transactions(), 1)
				assert.Contains(t, out.String(), "Nothing deleted.")
				assert.Empty(t, backups)
			}
		})
	}
}

func TestRunBackups(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, runBackups(ctx, a))
	assert.Contains(t, out.String(), "No backups yet.")

	require.NoError(t, a.backup(ctx, "manual"))
	out.Reset()
	require.NoError(t, runBackups(ctx, a))
	assert.Contains(t, out.String(), "manual")
}

func TestRestoreExampleShowsRealBackupIDs(t *testing.T) {
	fileID := regexp.MustCompile(`^\d{8}T\d{6}\.\d{9}Z-[a-z0-9_]+$`)
	sqliteID := regexp.MustCompile(`^\d+$`)

	var ids []string
	for _, m := range regexp.MustCompile(`--backup (\S+)`).FindAllStringSubmatch(restoreCmd().Example, -1) {
		ids = append(ids, m[1])
	}
	require.Len(t, ids, 2)
	assert.Regexp(t, sqliteID, ids[0])
	assert.Regexp(t, fileID, ids[1])

	a, _ := newTestApp(t)
	b, err := a.storage.SaveBackup(context.Background(), "clear", []byte("{}"))
	require.NoError(t, err)
	assert.Regexp(t, fileID, b.ID, "file storage IDs have the shape shown in the example")
}
