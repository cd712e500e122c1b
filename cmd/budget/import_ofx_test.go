package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240314120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240305120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024030501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024031001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>DIRECTDEP
<DTPOSTED>20240301120000[0:GMT]
<TRNAMT>3200.00
<FITID>2024030101
<NAME>ACME CORP
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>3049.50
<DTASOF>20240314120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(statementOFX), 0600))
	return path
}

func TestRunImportOFX(t *testing.T) {
	a, out := newTestApp(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := writeStatement(t, dir, "march.ofx")

	require.NoError(t, runImportOFX(ctx, a, importOptions{patterns: []string{path}, quiet: true}))
	assert.Contains(t, out.String(), "Imported 3 transactions from 1 files")

	assert.Len(t, a.store.Transactions(), 3)
	assert.True(t, decimal.NewFromInt(3200).Equal(a.store.MonthlyIncome()))
	assert.True(t, decimal.RequireFromString("150.50").Equal(a.store.MonthlyExpense()))

	incomes := a.store.IncomeByCategory()
	require.Len(t, incomes, 1)
	assert.Equal(t, model.CategorySalary, incomes[0].Category)

	t.Run("reimport skips known transactions", func(t *testing.T) {
		out.Reset()
		require.NoError(t, runImportOFX(ctx, a, importOptions{patterns: []string{filepath.Join(dir, "*.ofx")}, quiet: true}))
		assert.Contains(t, out.String(), "Imported 0 transactions")
		assert.Contains(t, out.String(), "Skipped 3 already imported")
		assert.Len(t, a.store.Transactions(), 3)
	})
}

func TestRunImportOFXDryRun(t *testing.T) {
	a, out := newTestApp(t)
	dir := t.TempDir()
	writeStatement(t, dir, "a.ofx")
	writeStatement(t, dir, "b.qfx")

	opts := importOptions{patterns: []string{filepath.Join(dir, "*.ofx"), filepath.Join(dir, "*.qfx")}, dryRun: true}
	require.NoError(t, runImportOFX(context.Background(), a, opts))

	assert.Contains(t, out.String(), "Found 6 transactions in 2 files")
	assert.Empty(t, a.store.Transactions())
}

func TestRunImportOFXCanceled(t *testing.T) {
	a, out := newTestApp(t)
	path := writeStatement(t, t.TempDir(), "march.ofx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runImportOFX(ctx, a, importOptions{patterns: []string{path}, quiet: true})
	require.Error(t, err)
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "Import interrupted")
	assert.Contains(t, out.String(), "import interrupted!")
	assert.Empty(t, a.store.Transactions())
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	b := writeStatement(t, dir, "b.ofx")
	a := writeStatement(t, dir, "a.ofx")

	paths, err := expandPaths([]string{filepath.Join(dir, "*.ofx"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, paths)

	_, err = expandPaths([]string{filepath.Join(dir, "*.csv")})
	require.ErrorIs(t, err, common.ErrNotFound)
}
