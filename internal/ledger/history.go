package ledger

import (
	"slices"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

const dayKeyLayout = "2006-01-02"

// DayGroup collects the transactions recorded on one calendar day.
type DayGroup struct {
	Key          string
	Label        string
	Transactions []model.Transaction
}

// GroupByDay groups transactions by calendar day in now's location.
// Groups are ordered newest first, as are the transactions within each group.
func GroupByDay(ts []model.Transaction, now time.Time) []DayGroup {
	loc := now.Location()
	index := make(map[string]int)
	var groups []DayGroup

	// Newest-first instants yield newest-first days, so groups need no sort.
	sorted := slices.Clone(ts)
	sortNewestFirst(sorted)

	for _, t := range sorted {
		local := t.Date.In(loc)
		key := local.Format(dayKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key, Label: dayLabel(local, now)})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}

	return groups
}

func dayLabel(day, now time.Time) string {
	today := now.Format(dayKeyLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dayKeyLayout)
	switch day.Format(dayKeyLayout) {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	default:
		return day.Format("2 January")
	}
}
