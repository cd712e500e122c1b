package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories transactions can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := &app{out: cmd.OutOrStdout()}
			runCategories(a)
			return nil
		},
	}
}

func runCategories(a *app) {
	rows := [][]string{{
		cli.SectionStyle.Render("Category"),
		cli.SectionStyle.Render("Tag"),
		cli.SectionStyle.Render("Expense"),
		cli.SectionStyle.Render("Income"),
	}}
	for _, c := range model.Categories() {
		rows = append(rows, []string{
			cli.FormatCategory(c),
			string(c),
			mark(c.IsExpense()),
			mark(c.IsIncome()),
		})
	}
	a.println(cli.RenderTable(rows))
}

func mark(ok bool) string {
	if ok {
		return cli.SuccessStyle.Render(cli.SuccessIcon)
	}
	return ""
}
