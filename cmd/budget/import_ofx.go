package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
)

type importOptions struct {
	patterns []string
	dryRun   bool
	quiet    bool
}

func importOFXCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import-ofx <file|glob>...",
		Short: "Import transactions from OFX/QFX bank statements",
		Long: `Read bank or credit card statements exported as OFX/QFX and add their
transactions to the ledger. Credits become income and debits become expenses.

Importing the same statement twice is safe: every bank transaction gets a
stable ID derived from its account and bank reference, and known IDs are skipped.`,
		Example: `  budget import-ofx ~/Downloads/statement.qfx
  budget import-ofx "~/Downloads/*.ofx" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.patterns = args

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return runImportOFX(cmd.Context(), a, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and preview without saving")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not show a progress bar")
	return cmd
}

// expandPaths resolves globs and drops duplicates, keeping first-seen order.
func expandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		expanded, err := config.ExpandPath(pattern)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Cannot expand %q", pattern), err)
		}
		matches, err := filepath.Glob(expanded)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Invalid pattern %q", pattern), err)
		}
		if len(matches) == 0 {
			return nil, common.NewUserError(fmt.Sprintf("No files match %q", pattern), common.ErrNotFound)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

func runImportOFX(ctx context.Context, a *app, opts importOptions) error {
	paths, err := expandPaths(opts.patterns)
	if err != nil {
		return err
	}

	interrupt := cli.NewInterruptHandler(a.out, "import")
	stop := interrupt.Watch(ctx)

	var (
		bar *progressbar.ProgressBar
		mu  sync.Mutex
	)
	if !opts.quiet {
		bar = newImportProgressBar(a, len(paths))
	}
	onParsed := func(path string, count int) {
		slog.Debug("Parsed statement", "file", path, "transactions", count)
		if bar == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	parser := ofx.NewParser()
	txns, err := parser.ParseFiles(ctx, paths, onParsed)
	stop()
	if interrupt.WasInterrupted() {
		return common.NewUserError("Import interrupted; nothing was saved", context.Cause(ctx))
	}
	if err != nil {
		return fmt.Errorf("failed to parse statements: %w", err)
	}

	if opts.dryRun {
		a.println(cli.FormatInfo(fmt.Sprintf("Found %d transactions in %d files (dry run, nothing saved)", len(txns), len(paths))))
		return nil
	}

	added, err := a.store.AddTransactions(ctx, txns)
	if err != nil {
		return err
	}

	a.println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %d files", added, len(paths))))
	if skipped := len(txns) - added; skipped > 0 {
		a.println(cli.SubtleStyle.Render(fmt.Sprintf("Skipped %d already imported", skipped)))
	}
	return nil
}

func newImportProgressBar(a *app, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(a.out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reading statements...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			a.println()
		}),
	)
}
