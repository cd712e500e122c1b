package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestGroupByDay(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	ts := []model.Transaction{
		expense("old", "1", model.CategoryFood, time.Date(2024, time.March, 2, 8, 0, 0, 0, time.UTC)),
		expense("today-early", "1", model.CategoryFood, time.Date(2024, time.March, 15, 7, 0, 0, 0, time.UTC)),
		expense("yesterday", "1", model.CategoryFood, time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC)),
		expense("today-late", "1", model.CategoryFood, time.Date(2024, time.March, 15, 8, 30, 0, 0, time.UTC)),
	}

	groups := GroupByDay(ts, now)
	require.Len(t, groups, 3)

	assert.Equal(t, "2024-03-15", groups[0].Key)
	assert.Equal(t, "Today", groups[0].Label)
	require.Len(t, groups[0].Transactions, 2)
	assert.Equal(t, "today-late", groups[0].Transactions[0].ID)
	assert.Equal(t, "today-early", groups[0].Transactions[1].ID)

	assert.Equal(t, "Yesterday", groups[1].Label)
	assert.Equal(t, "2024-03-14", groups[1].Key)

	assert.Equal(t, "2 March", groups[2].Label)
	assert.Equal(t, "2024-03-02", groups[2].Key)
}

func TestGroupByDay_UsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, tokyo)

	// 20:00 UTC on the 14th is already the 15th in Tokyo.
	ts := []model.Transaction{
		expense("a", "1", model.CategoryFood, time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDay(ts, now)
	require.Len(t, groups, 1)
	assert.Equal(t, "2024-03-15", groups[0].Key)
	assert.Equal(t, "Today", groups[0].Label)
}

func TestGroupByDay_YesterdayAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.UTC)
	ts := []model.Transaction{
		expense("a", "1", model.CategoryFood, time.Date(2024, time.February, 29, 22, 0, 0, 0, time.UTC)),
	}

	groups := GroupByDay(ts, now)
	require.Len(t, groups, 1)
	assert.Equal(t, "Yesterday", groups[0].Label)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, time.Now()))
}
