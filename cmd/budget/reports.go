package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
)

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balances, categories and highlights for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runSummary(a, month)
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default: current)")
	return cmd
}

func runSummary(a *app, month string) error {
	if err := a.selectMonth(month); err != nil {
		return err
	}
	s, f := a.store, a.formatter

	start := s.SelectedMonth().Start(s.Location())
	a.println(cli.FormatTitle(start.Format("January 2006")))

	a.println(cli.RenderBox("Balance", cli.RenderTable([][]string{
		{"Income", cli.IncomeStyle.Render(f.Amount(s.MonthlyIncome()))},
		{"Expenses", cli.ExpenseStyle.Render(f.Amount(s.MonthlyExpense()))},
		{"Month", f.Balance(s.MonthlyBalance())},
		{"All time", f.Balance(s.TotalBalance())},
	})))

	if totals := s.ExpensesByCategory(); len(totals) > 0 {
		a.println()
		a.println(cli.SectionStyle.Render(cli.ChartIcon + " Expenses by category"))
		rows := make([][]string, 0, len(totals))
		for _, total := range totals {
			rows = append(rows, []string{
				cli.FormatCategory(total.Category),
				f.Amount(total.Amount),
				cli.SubtleStyle.Render(f.Percent(s.CategoryShare(total))),
			})
		}
		a.println(cli.RenderTable(rows))
	}

	if totals := s.IncomeByCategory(); len(totals) > 0 {
		a.println()
		a.println(cli.SectionStyle.Render("Income by category"))
		rows := make([][]string, 0, len(totals))
		for _, total := range totals {
			rows = append(rows, []string{cli.FormatCategory(total.Category), f.Amount(total.Amount)})
		}
		a.println(cli.RenderTable(rows))
	}

	if top := s.TopExpenses(); len(top) > 0 {
		a.println()
		a.println(cli.SectionStyle.Render("Top expenses"))
		rows := make([][]string, 0, len(top))
		for _, t := range top {
			rows = append(rows, []string{t.Date.In(s.Location()).Format("2 Jan"), cli.FormatCategory(t.Category), f.Styled(t), t.Note})
		}
		a.println(cli.RenderTable(rows))
	}

	if recent := s.RecentTransactions(); len(recent) > 0 {
		a.println()
		a.println(cli.SectionStyle.Render("Recent"))
		rows := make([][]string, 0, len(recent))
		for _, t := range recent {
			rows = append(rows, []string{t.Date.In(s.Location()).Format("2 Jan"), cli.FormatCategory(t.Category), f.Styled(t), t.Note})
		}
		a.println(cli.RenderTable(rows))
	}

	if n := s.ActiveRecurringCount(); n > 0 {
		a.println()
		a.println(cli.SectionStyle.Render(fmt.Sprintf("%s Recurring: %s per month (%d active)",
			cli.RepeatIcon, f.Amount(s.TotalRecurring()), n)))
	}

	if s.MonthlyIncome().IsZero() && s.MonthlyExpense().IsZero() {
		a.println()
		a.println(cli.FormatInfo("No transactions this month. Add one with 'budget add'."))
	}
	return nil
}

func dailyCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show expenses per day with the average and spikes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runDaily(a, month)
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month as YYYY-MM (default: current)")
	return cmd
}

func runDaily(a *app, month string) error {
	if err := a.selectMonth(month); err != nil {
		return err
	}
	s, f := a.store, a.formatter

	start := s.SelectedMonth().Start(s.Location())
	a.println(cli.FormatTitle("Daily expenses, " + start.Format("January 2006")))

	spikes := make(map[int]bool)
	for _, d := range s.SpendingSpikes() {
		spikes[d.Day] = true
	}

	rows := make([][]string, 0, start.AddDate(0, 1, -1).Day())
	for _, d := range s.DailyExpenses() {
		if d.Amount.IsZero() {
			continue
		}
		amount := f.Amount(d.Amount)
		if spikes[d.Day] {
			amount = cli.WarningStyle.Render(amount + " " + cli.SpikeIcon)
		}
		rows = append(rows, []string{start.AddDate(0, 0, d.Day-1).Format("Mon 2 Jan"), amount})
	}

	if len(rows) == 0 {
		a.println(cli.SubtleStyle.Render("No expenses this month."))
		return nil
	}

	a.println(cli.RenderTable(rows))
	a.println()
	a.printf("Average per day: %s\n", f.Amount(s.AverageDailyExpense()))
	if n := len(spikes); n > 0 {
		a.printf("%s %d day(s) above 1.5× the average\n", cli.SpikeIcon, n)
	}
	return nil
}
