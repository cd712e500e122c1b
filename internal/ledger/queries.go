package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

const (
	recentLimit     = 5
	topExpenseLimit = 5
)

// spikeFactor marks a day as a spending spike relative to the daily average.
var spikeFactor = decimal.RequireFromString("1.5")

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category model.Category
	Amount   decimal.Decimal
}

// DailyTotal is the summed amount for one day of the month.
type DailyTotal struct {
	Amount decimal.Decimal
	Day    int
}

// UpcomingPayment pairs an active recurring payment with its next due date.
type UpcomingPayment struct {
	Due     time.Time
	Payment model.RecurringPayment
}

// Filter narrows the current month's transactions for history views.
type Filter struct {
	// Label returns the display name searched alongside the tag. Optional.
	Label func(model.Category) string
	// Type restricts results to one transaction type when set.
	Type *model.TransactionType
	// Query matches case-insensitively against note and category.
	Query string
}

// Transactions returns a copy of every transaction, in insertion order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// RecurringPayments returns a copy of every recurring payment.
func (s *Store) RecurringPayments() []model.RecurringPayment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recurring)
}

// Transaction returns the transaction with the given ID.
func (s *Store) Transaction(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.transactions, func(t model.Transaction) bool { return t.ID == id })
	if i < 0 {
		return model.Transaction{}, false
	}
	return s.transactions[i], true
}

// Recurring returns the recurring payment with the given ID.
func (s *Store) Recurring(id string) (model.RecurringPayment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.recurringIndex(id)
	if i < 0 {
		return model.RecurringPayment{}, false
	}
	return s.recurring[i], true
}

// Currency returns the selected currency.
func (s *Store) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// CurrentMonthTransactions returns the selected month's transactions,
// newest first.
func (s *Store) CurrentMonthTransactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentMonthLocked()
}

func (s *Store) currentMonthLocked() []model.Transaction {
	var out []model.Transaction
	for _, t := range s.transactions {
		if s.month.Contains(t.Date, s.loc) {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out
}

// MonthlyIncome sums the selected month's income.
func (s *Store) MonthlyIncome() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumOf(s.currentMonthLocked(), model.TypeIncome)
}

// MonthlyExpense sums the selected month's expenses.
func (s *Store) MonthlyExpense() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumOf(s.currentMonthLocked(), model.TypeExpense)
}

// MonthlyBalance is the selected month's income minus expenses.
func (s *Store) MonthlyBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	month := s.currentMonthLocked()
	return sumOf(month, model.TypeIncome).Sub(sumOf(month, model.TypeExpense))
}

// TotalBalance is income minus expenses over every transaction.
func (s *Store) TotalBalance() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sumOf(s.transactions, model.TypeIncome).Sub(sumOf(s.transactions, model.TypeExpense))
}

// TotalRecurring sums the active recurring payments.
func (s *Store) TotalRecurring() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range s.recurring {
		if p.IsActive {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ActiveRecurringCount counts the active recurring payments.
func (s *Store) ActiveRecurringCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.recurring {
		if p.IsActive {
			n++
		}
	}
	return n
}

// ExpensesByCategory totals the selected month's expenses per category,
// largest first. Categories without expenses are omitted.
func (s *Store) ExpensesByCategory() []CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byCategory(s.currentMonthLocked(), model.TypeExpense)
}

// IncomeByCategory totals the selected month's income per category,
// largest first. Categories without income are omitted.
func (s *Store) IncomeByCategory() []CategoryTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return byCategory(s.currentMonthLocked(), model.TypeIncome)
}

// CategoryShare returns total as a percentage of the monthly expense.
func (s *Store) CategoryShare(total CategoryTotal) decimal.Decimal {
	expense := s.MonthlyExpense()
	if expense.IsZero() {
		return decimal.Zero
	}
	return total.Amount.Div(expense).Mul(decimal.NewFromInt(100))
}

// DailyExpenses returns one entry per day of the selected month, in day
// order, with the expenses dated on that day.
func (s *Store) DailyExpenses() []DailyTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dailyLocked()
}

func (s *Store) dailyLocked() []DailyTotal {
	days := make([]DailyTotal, s.month.Days())
	for i := range days {
		days[i] = DailyTotal{Day: i + 1, Amount: decimal.Zero}
	}
	for _, t := range s.currentMonthLocked() {
		if t.Type != model.TypeExpense {
			continue
		}
		day := t.Date.In(s.loc).Day()
		days[day-1].Amount = days[day-1].Amount.Add(t.Amount)
	}
	return days
}

// AverageDailyExpense is the monthly expense spread over every day of the month.
func (s *Store) AverageDailyExpense() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return averageOf(s.dailyLocked())
}

// SpendingSpikes returns the days whose expenses exceed one and a half
// times the daily average.
func (s *Store) SpendingSpikes() []DailyTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := s.dailyLocked()
	threshold := averageOf(days).Mul(spikeFactor)
	var spikes []DailyTotal
	for _, d := range days {
		if d.Amount.GreaterThan(threshold) {
			spikes = append(spikes, d)
		}
	}
	return spikes
}

// RecentTransactions returns the five newest transactions of the month.
func (s *Store) RecentTransactions() []model.Transaction {
	month := s.CurrentMonthTransactions()
	if len(month) > recentLimit {
		month = month[:recentLimit]
	}
	return month
}

// TopExpenses returns the month's five largest expenses, largest first.
func (s *Store) TopExpenses() []model.Transaction {
	var expenses []model.Transaction
	for _, t := range s.CurrentMonthTransactions() {
		if t.Type == model.TypeExpense {
			expenses = append(expenses, t)
		}
	}
	slices.SortStableFunc(expenses, func(a, b model.Transaction) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(expenses) > topExpenseLimit {
		expenses = expenses[:topExpenseLimit]
	}
	return expenses
}

// UpcomingRecurring lists active recurring payments by next due date.
func (s *Store) UpcomingRecurring() []UpcomingPayment {
	now := s.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []UpcomingPayment
	for _, p := range s.recurring {
		if !p.IsActive {
			continue
		}
		out = append(out, UpcomingPayment{Payment: p, Due: p.NextDueDate(now)})
	}
	slices.SortStableFunc(out, func(a, b UpcomingPayment) int {
		if c := a.Due.Compare(b.Due); c != 0 {
			return c
		}
		return cmp.Compare(a.Payment.Name, b.Payment.Name)
	})
	return out
}

// History returns the month's transactions narrowed by f, newest first.
func (s *Store) History(f Filter) []model.Transaction {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []model.Transaction
	for _, t := range s.CurrentMonthTransactions() {
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if query != "" && !matchesQuery(t, query, f.Label) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesQuery(t model.Transaction, query string, label func(model.Category) string) bool {
	if strings.Contains(strings.ToLower(t.Note), query) {
		return true
	}
	if strings.Contains(string(t.Category), query) {
		return true
	}
	return label != nil && strings.Contains(strings.ToLower(label(t.Category)), query)
}

func sumOf(ts []model.Transaction, txType model.TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if t.Type == txType {
			total = total.Add(t.Amount)
		}
	}
	return total
}

func byCategory(ts []model.Transaction, txType model.TransactionType) []CategoryTotal {
	sums := make(map[model.Category]decimal.Decimal)
	for _, t := range ts {
		if t.Type != txType {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for c, amount := range sums {
		out = append(out, CategoryTotal{Category: c, Amount: amount})
	}
	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Rank(), b.Category.Rank())
	})
	return out
}

func averageOf(days []DailyTotal) decimal.Decimal {
	if len(days) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(days))))
}

// sortNewestFirst orders by date descending, then by ID for stability.
func sortNewestFirst(ts []model.Transaction) {
	slices.SortFunc(ts, func(a, b model.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
