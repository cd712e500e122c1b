package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recurring",
		Aliases: []string{"rec"},
		Short:   "Manage monthly recurring payments",
		Long: `List, add, edit, pause and delete payments that repeat every month,
such as rent or subscriptions. Paused payments are kept but not counted.`,
		Example: `  budget recurring add Rent 900 housing 1
  budget recurring toggle Rent
  budget recurring list`,
	}

	cmd.AddCommand(recurringListCmd())
	cmd.AddCommand(recurringAddCmd())
	cmd.AddCommand(recurringEditCmd())
	cmd.AddCommand(recurringToggleCmd())
	cmd.AddCommand(recurringDeleteCmd())

	return cmd
}

func recurringListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring payments and when they are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecurringList(a)
		},
	}
}

func runRecurringList(a *app) error {
	payments := a.store.RecurringPayments()
	if len(payments) == 0 {
		a.println(cli.InfoStyle.Render("No recurring payments. Use 'budget recurring add' to create one."))
		return nil
	}

	a.println(cli.FormatTitle("Recurring payments"))

	due := make(map[string]string)
	for _, u := range a.store.UpcomingRecurring() {
		due[u.Payment.ID] = u.Due.Format("2 Jan")
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		status := cli.SuccessStyle.Render("active")
		next := due[p.ID]
		if !p.IsActive {
			status = cli.SubtleStyle.Render("paused")
			next = "-"
		}
		rows = append(rows, []string{
			cli.SubtleStyle.Render(shortID(p.ID)),
			p.Name,
			cli.FormatCategory(p.Category),
			a.formatter.Amount(p.Amount),
			fmt.Sprintf("day %d", p.DayOfMonth),
			next,
			status,
		})
	}
	a.println(cli.RenderTable(rows))
	a.println()
	a.printf("Total per month: %s (%d active)\n", a.formatter.Amount(a.store.TotalRecurring()), a.store.ActiveRecurringCount())
	return nil
}

type recurringOptions struct {
	ref      string
	name     string
	amount   string
	category string
	day      string
	paused   bool
}

func recurringAddCmd() *cobra.Command {
	var opts recurringOptions

	cmd := &cobra.Command{
		Use:   "add <name> <amount> <category> <day-of-month>",
		Short: "Add a recurring payment",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.name, opts.amount, opts.category, opts.day = args[0], args[1], args[2], args[3]

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecurringAdd(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.paused, "paused", false, "create the payment paused")
	return cmd
}

func runRecurringAdd(ctx context.Context, a *app, opts recurringOptions) error {
	amount, err := model.ParseAmount(opts.amount)
	if err != nil {
		return common.NewUserError("Amount must be a positive number", err)
	}
	category, err := parseCategory(opts.category)
	if err != nil {
		return err
	}
	if !category.IsExpense() {
		return common.NewUserError(fmt.Sprintf("%s is not an expense category", cli.CategoryLabel(category)), model.ErrInvalidCategory)
	}
	day, err := parseDay(opts.day)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(opts.name)
	if name == "" {
		return common.NewUserError("Name cannot be empty", model.ErrMissingField)
	}

	p := model.NewRecurringPayment(name, amount, category, day)
	p.IsActive = !opts.paused
	if err := a.store.AddRecurring(ctx, p); err != nil {
		return err
	}

	a.println(cli.FormatSuccess(fmt.Sprintf("Added %s: %s on day %d (%s)",
		p.Name, a.formatter.Amount(p.Amount), p.DayOfMonth, shortID(p.ID))))
	return nil
}

func recurringEditCmd() *cobra.Command {
	var opts recurringOptions

	cmd := &cobra.Command{
		Use:   "edit <id|name>",
		Short: "Change a recurring payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ref = args[0]

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecurringEdit(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.amount, "amount", "", "new amount")
	cmd.Flags().StringVar(&opts.category, "category", "", "new category")
	cmd.Flags().StringVar(&opts.day, "day", "", "new day of month (1-31)")

	return cmd
}

func runRecurringEdit(ctx context.Context, a *app, opts recurringOptions) error {
	p, err := a.findRecurring(opts.ref)
	if err != nil {
		return err
	}

	if name := strings.TrimSpace(opts.name); name != "" {
		p.Name = name
	}
	if opts.amount != "" {
		if p.Amount, err = model.ParseAmount(opts.amount); err != nil {
			return common.NewUserError("Amount must be a positive number", err)
		}
	}
	if opts.category != "" {
		if p.Category, err = parseCategory(opts.category); err != nil {
			return err
		}
	}
	if opts.day != "" {
		if p.DayOfMonth, err = parseDay(opts.day); err != nil {
			return err
		}
	}

	if err := a.store.UpdateRecurring(ctx, p); err != nil {
		return err
	}

	a.println(cli.FormatSuccess("Updated " + p.Name))
	return nil
}

func recurringToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id|name>",
		Short: "Pause or resume a recurring payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecurringToggle(cmd.Context(), a, args[0])
		},
	}
}

func runRecurringToggle(ctx context.Context, a *app, ref string) error {
	p, err := a.findRecurring(ref)
	if err != nil {
		return err
	}
	if err := a.store.ToggleRecurring(ctx, p.ID); err != nil {
		return err
	}

	state := "paused"
	if !p.IsActive {
		state = "resumed"
	}
	a.println(cli.FormatSuccess(fmt.Sprintf("%s %s", p.Name, state)))
	return nil
}

func recurringDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id|name>",
		Aliases: []string{"rm"},
		Short:   "Delete a recurring payment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRecurringDelete(cmd.Context(), a, args[0])
		},
	}
}

func runRecurringDelete(ctx context.Context, a *app, ref string) error {
	p, err := a.findRecurring(ref)
	if err != nil {
		return err
	}
	if err := a.store.DeleteRecurring(ctx, p.ID); err != nil {
		return err
	}
	a.println(cli.FormatSuccess("Deleted " + p.Name))
	return nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || day < 1 || day > 31 {
		return 0, common.NewUserError("Day of month must be between 1 and 31", model.ErrInvalidDay)
	}
	return day, nil
}
