package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestTransactionsBlob_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := MarshalTransactions(snap.Transactions)
	require.NoError(t, err)

	got, err := UnmarshalTransactions(data)
	require.NoError(t, err)
	snap.RecurringPayments = nil
	assertSnapshotsEqual(t, snap, snapshotOf(got, nil, snap.Currency))
}

func TestRecurringBlob_RoundTrip(t *testing.T) {
	snap := sampleSnapshot()

	data, err := MarshalRecurring(snap.RecurringPayments)
	require.NoError(t, err)

	got, err := UnmarshalRecurring(data)
	require.NoError(t, err)
	snap.Transactions = nil
	assertSnapshotsEqual(t, snap, snapshotOf(nil, got, snap.Currency))
}

func TestBlobs_EmptyAndCorrupt(t *testing.T) {
	data, err := MarshalTransactions(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = UnmarshalTransactions([]byte(`[{"id":`))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = UnmarshalRecurring([]byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func snapshotOf(ts []model.Transaction, ps []model.RecurringPayment, currency string) model.Snapshot {
	return model.Snapshot{Transactions: ts, RecurringPayments: ps, Currency: currency}
}
