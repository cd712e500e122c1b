package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

type addOptions struct {
	txType   string
	amount   string
	category string
	note     string
	date     string
}

func addCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <expense|income> <amount> <category>",
		Short: "Record an expense or income",
		Example: `  budget add expense 500 food --note "Weekly shop"
  budget add income 2000 salary --date 2024-03-01
  budget add expense 12,50 restaurants`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.txType, opts.amount, opts.category = args[0], args[1], args[2]

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runAdd(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.note, "note", "n", "", "free-text note")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "date as YYYY-MM-DD (default: now)")

	return cmd
}

func runAdd(ctx context.Context, a *app, opts addOptions) error {
	txType, err := model.ParseTransactionType(strings.ToLower(opts.txType))
	if err != nil {
		return common.NewUserError("Type must be expense or income", err)
	}
	amount, err := model.ParseAmount(opts.amount)
	if err != nil {
		return common.NewUserError("Amount must be a positive number", err)
	}
	category, err := parseCategory(opts.category)
	if err != nil {
		return err
	}
	if !category.ValidFor(txType) {
		return common.NewUserError(fmt.Sprintf("%s is not an %s category", cli.CategoryLabel(category), txType), model.ErrInvalidCategory)
	}
	date, err := parseDate(opts.date, a.store.Now())
	if err != nil {
		return err
	}

	t := model.NewTransaction(txType, amount, category, strings.TrimSpace(opts.note), date)
	if err := a.store.AddTransaction(ctx, t); err != nil {
		return err
	}

	a.println(cli.FormatSuccess(fmt.Sprintf("Added %s %s %s (%s)",
		strings.ToLower(cli.TypeLabel(txType)),
		a.formatter.Signed(t),
		cli.CategoryLabel(category),
		shortID(t.ID))))
	return nil
}

type editOptions struct {
	id       string
	txType   string
	amount   string
	category string
	note     *string
	date     string
}

func editCmd() *cobra.Command {
	var opts editOptions
	var note string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a recorded transaction",
		Long:  `Change any field of a transaction. The ID may be abbreviated to a unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.id = args[0]
			if cmd.Flags().Changed("note") {
				opts.note = &note
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runEdit(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.txType, "type", "", "expense or income")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&opts.category, "category", "", "new category")
	cmd.Flags().StringVar(&note, "note", "", "new note (empty clears it)")
	cmd.Flags().StringVar(&opts.date, "date", "", "new date as YYYY-MM-DD")

	return cmd
}

func runEdit(ctx context.Context, a *app, opts editOptions) error {
	t, err := a.findTransaction(opts.id)
	if err != nil {
		return err
	}

	if opts.txType != "" {
		if t.Type, err = model.ParseTransactionType(strings.ToLower(opts.txType)); err != nil {
			return common.NewUserError("Type must be expense or income", err)
		}
	}
	if opts.amount != "" {
		if t.Amount, err = model.ParseAmount(opts.amount); err != nil {
			return common.NewUserError("Amount must be a positive number", err)
		}
	}
	if opts.category != "" {
		if t.Category, err = parseCategory(opts.category); err != nil {
			return err
		}
	}
	if opts.note != nil {
		t.Note = strings.TrimSpace(*opts.note)
	}
	if opts.date != "" {
		if t.Date, err = parseDate(opts.date, a.store.Now()); err != nil {
			return err
		}
	}

	if err := a.store.UpdateTransaction(ctx, t); err != nil {
		if errors.Is(err, ledger.ErrInvalidTransaction) {
			return common.NewUserError("The edited transaction is not valid", err)
		}
		return err
	}

	a.println(cli.FormatSuccess(fmt.Sprintf("Updated %s", shortID(t.ID))))
	return nil
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete transactions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runDelete(cmd.Context(), a, args)
		},
	}
}

func runDelete(ctx context.Context, a *app, refs []string) error {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		t, err := a.findTransaction(ref)
		if err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}

	if err := a.store.DeleteTransactions(ctx, ids); err != nil {
		return err
	}

	a.println(cli.FormatSuccess(fmt.Sprintf("Deleted %d transaction(s)", len(ids))))
	return nil
}

type listOptions struct {
	month  string
	txType string
	search string
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "history"},
		Short:   "Show a month's transactions grouped by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runList(a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.month, "month", "m", "", "month as YYYY-MM (default: current)")
	cmd.Flags().StringVarP(&opts.txType, "type", "t", "", "only expense or income")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "match note or category")

	return cmd
}

func runList(a *app, opts listOptions) error {
	if err := a.selectMonth(opts.month); err != nil {
		return err
	}

	filter := ledger.Filter{Query: opts.search, Label: cli.CategoryLabel}
	if opts.txType != "" {
		txType, err := model.ParseTransactionType(strings.ToLower(opts.txType))
		if err != nil {
			return common.NewUserError("Type must be expense or income", err)
		}
		filter.Type = &txType
	}

	month := a.store.SelectedMonth().Start(a.store.Location())
	a.println(cli.FormatTitle(month.Format("January 2006")))

	txns := a.store.History(filter)
	if len(txns) == 0 {
		a.println(cli.SubtleStyle.Render("No transactions found."))
		return nil
	}

	for _, group := range ledger.GroupByDay(txns, a.store.Now()) {
		a.println(cli.BoldStyle.Render(group.Label))
		rows := make([][]string, 0, len(group.Transactions))
		for _, t := range group.Transactions {
			rows = append(rows, []string{
				"  " + cli.SubtleStyle.Render(shortID(t.ID)),
				cli.FormatCategory(t.Category),
				a.formatter.Styled(t),
				t.Note,
			})
		}
		a.println(cli.RenderTable(rows))
	}
	return nil
}
