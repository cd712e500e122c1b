package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
)

const historyLimit = 20

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.view {
	case ViewDaily:
		body = m.renderDaily()
	case ViewHistory:
		body = m.renderHistory()
	default:
		body = m.renderOverview()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		body,
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	month := m.store.SelectedMonth().Start(m.store.Location())
	title := m.theme.Title.Render(fmt.Sprintf("%s %s", cli.WalletIcon, month.Format("January 2006")))

	tabs := make([]string, 0, viewCount)
	for v := ViewOverview; v < viewCount; v++ {
		style := m.theme.Tab
		if v == m.view {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(v.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderOverview() string {
	f := m.formatter

	balance := m.store.MonthlyBalance()
	balanceStyle := m.theme.Income
	if balance.IsNegative() {
		balanceStyle = m.theme.Expense
	}

	summary := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render("Balance"),
		balanceStyle.Bold(true).Render(f.Amount(balance)),
		"",
		m.theme.Income.Render("↓ "+f.Amount(m.store.MonthlyIncome())),
		m.theme.Expense.Render("↑ "+f.Amount(m.store.MonthlyExpense())),
		"",
		m.theme.Muted.Render("All time: "+f.Amount(m.store.TotalBalance())),
		m.theme.Muted.Render(fmt.Sprintf("%s Recurring: %s (%d active)",
			cli.RepeatIcon, f.Amount(m.store.TotalRecurring()), m.store.ActiveRecurringCount())),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(summary),
		"  ",
		m.theme.RoundedBox.Render(m.renderCategories()),
	)
}

func (m Model) renderCategories() string {
	totals := m.store.ExpensesByCategory()
	if len(totals) == 0 {
		return m.theme.Muted.Render("No expenses this month")
	}

	lines := []string{m.theme.Subtitle.Render("Expenses by category")}
	for _, total := range totals {
		share := m.store.CategoryShare(total)
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			cli.FormatCategory(total.Category),
			m.bar.ViewAs(share.Div(decimal.NewFromInt(100)).InexactFloat64()),
			m.formatter.Percent(share),
			m.theme.Muted.Render(m.formatter.Amount(total.Amount)),
		))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDaily() string {
	days := m.store.DailyExpenses()

	peak := decimal.Zero
	for _, d := range days {
		peak = decimal.Max(peak, d.Amount)
	}

	spikes := make(map[int]bool)
	for _, d := range m.store.SpendingSpikes() {
		spikes[d.Day] = true
	}

	lines := []string{
		m.theme.Subtitle.Render("Average per day: " + m.formatter.Amount(m.store.AverageDailyExpense())),
	}
	for _, d := range days {
		width := 0
		if peak.IsPositive() {
			width = int(d.Amount.Div(peak).Mul(decimal.NewFromInt(int64(m.bar.Width))).IntPart())
		}
		bar := m.theme.Bar.Render(strings.Repeat("█", width))
		label := fmt.Sprintf("%2d ", d.Day)
		amount := m.formatter.Amount(d.Amount)
		if spikes[d.Day] {
			amount = m.theme.Spike.Render(amount + " " + cli.SpikeIcon)
		} else {
			amount = m.theme.Muted.Render(amount)
		}
		lines = append(lines, label+bar+" "+amount)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory() string {
	txns := m.store.CurrentMonthTransactions()
	if len(txns) == 0 {
		return m.theme.Muted.Render("No transactions this month")
	}
	if len(txns) > historyLimit {
		txns = txns[:historyLimit]
	}

	var lines []string
	for _, group := range ledger.GroupByDay(txns, m.store.Now()) {
		lines = append(lines, m.theme.Bold.Render(group.Label))
		for _, t := range group.Transactions {
			lines = append(lines, fmt.Sprintf("  %s  %s  %s",
				cli.FormatCategory(t.Category),
				m.formatter.Styled(t),
				m.theme.Muted.Render(t.Note),
			))
		}
	}
	return strings.Join(lines, "\n")
}
