package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/exchange"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency [symbol]",
		Short: "Show or change the display currency",
		Long: `Without arguments, print the current currency and the common choices.
With a symbol, make it the currency used for every amount. Amounts are not converted.`,
		Example: `  budget currency
  budget currency €`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			symbol := ""
			if len(args) == 1 {
				symbol = args[0]
			}
			return runCurrency(cmd.Context(), a, symbol)
		},
	}
	return cmd
}

func runCurrency(ctx context.Context, a *app, symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		current := a.store.Currency()
		a.printf("Current currency: %s\n\n", cli.BoldStyle.Render(current))
		for _, c := range model.SupportedCurrencies {
			marker := "  "
			if c.Symbol == current {
				marker = cli.SuccessStyle.Render(cli.SuccessIcon + " ")
			}
			a.printf("%s%s  %s\n", marker, c.Symbol, c.Name)
		}
		return nil
	}

	if !model.IsSupportedCurrency(symbol) {
		a.println(cli.FormatWarning(fmt.Sprintf("%s is not one of the common currencies; using it anyway", symbol)))
	}
	if err := a.store.SetCurrency(ctx, symbol); err != nil {
		return err
	}
	a.refreshFormatter()
	a.println(cli.FormatSuccess("Currency set to " + symbol))
	return nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the whole ledger as a JSON document",
		Long: `Write every transaction, recurring payment and the currency setting
as a JSON backup document. The document can be read back with 'budget restore'.`,
		Example: `  budget export > ledger.json
  budget export ~/ledger-2024-03.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				return runExport(a, a.out)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			if err := runExport(a, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s",
				len(a.store.Transactions()), args[0])))
			return nil
		},
	}
	return cmd
}

func runExport(a *app, w io.Writer) error {
	doc, err := a.store.Export()
	if err != nil {
		return fmt.Errorf("failed to export ledger: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

type restoreOptions struct {
	file     string
	backupID string
}

func restoreCmd() *cobra.Command {
	var opts restoreOptions

	cmd := &cobra.Command{
		Use:   "restore [file]",
		Short: "Replace the ledger with an exported document",
		Long: `Replace every transaction, recurring payment and the currency with the
contents of an export document or a stored backup. The current ledger is
backed up first, so a restore can itself be undone.`,
		Example: `  budget restore ledger.json
  budget restore --backup 3                                   # sqlite storage
  budget restore --backup 20240315T101500.000000000Z-clear    # file storage`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			if (opts.file == "") == (opts.backupID == "") {
				return common.NewUserError("Give either a file or --backup", nil)
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runRestore(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.backupID, "backup", "", "restore a stored backup by ID (see 'budget backups')")
	return cmd
}

func runRestore(ctx context.Context, a *app, opts restoreOptions) error {
	var (
		doc []byte
		err error
	)
	if opts.backupID != "" {
		doc, err = a.storage.GetBackup(ctx, opts.backupID)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("No backup %q", opts.backupID), err)
		}
	} else {
		doc, err = os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
	}

	if err := a.backup(ctx, "restore"); err != nil {
		return err
	}

	if err := a.store.Import(ctx, doc); err != nil {
		if errors.Is(err, exchange.ErrDecode) {
			return common.NewUserError("That file is not a ledger export; nothing was changed", err)
		}
		return err
	}
	a.refreshFormatter()

	a.println(cli.FormatSuccess(fmt.Sprintf("Restored %d transactions and %d recurring payments",
		len(a.store.Transactions()), len(a.store.RecurringPayments()))))
	return nil
}

func backupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backups taken before destructive changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runBackups(cmd.Context(), a)
		},
	}
}

func runBackups(ctx context.Context, a *app) error {
	backups, err := a.storage.ListBackups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		a.println(cli.InfoStyle.Render("No backups yet."))
		return nil
	}

	rows := make([][]string, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, []string{
			b.ID,
			b.CreatedAt.In(a.store.Location()).Format("2006-01-02 15:04"),
			b.Reason,
			fmt.Sprintf("%d B", b.Size),
		})
	}
	a.println(cli.FormatTitle("Backups"))
	a.println(cli.RenderTable(rows))
	return nil
}

type clearOptions struct {
	in  io.Reader
	yes bool
}

func clearCmd() *cobra.Command {
	var opts clearOptions

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all transactions and recurring payments",
		Long: `Remove every transaction and recurring payment. The currency setting is kept.
A backup is saved first; see 'budget backups' and 'budget restore --backup'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts.in = cmd.InOrStdin()
			return runClear(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClear(ctx context.Context, a *app, opts clearOptions) error {
	if !opts.yes {
		p := cli.NewPrompter(opts.in, a.out)
		ok, err := p.Confirm(ctx, fmt.Sprintf("Delete %d transactions and %d recurring payments?",
			len(a.store.Transactions()), len(a.store.RecurringPayments())))
		if err != nil {
			return err
		}
		if !ok {
			a.println(cli.InfoStyle.Render("Nothing deleted."))
			return nil
		}
	}

	if err := a.backup(ctx, "clear"); err != nil {
		return err
	}
	if err := a.store.ClearAll(ctx); err != nil {
		return err
	}
	a.println(cli.FormatSuccess("Ledger cleared"))
	return nil
}
