package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-budget-must-balance/internal/cli"
	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/config"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
	"github.com/Veraticus/the-budget-must-balance/internal/storage"
)

// envKeyReplacer maps "storage.path" to BUDGET_STORAGE_PATH.
var envKeyReplacer = strings.NewReplacer(".", "_")

// dateLayout is how dates are entered and shown on the command line.
const dateLayout = "2006-01-02"

// app bundles what every command needs.
type app struct {
	storage   service.Storage
	store     *ledger.Store
	formatter *cli.Formatter
	out       io.Writer
	cfg       *config.Config
}

// openApp opens storage and loads the ledger as configured.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfg := appConfig
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", common.ErrMissingConfig)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	tag, err := cfg.Language()
	if err != nil {
		return nil, err
	}

	st, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, cfg.Ledger.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	store := ledger.Open(ctx, st,
		ledger.WithLocation(loc),
		ledger.WithDefaultCurrency(cfg.Ledger.Currency),
		ledger.WithLogger(slog.Default()))

	return &app{
		storage:   st,
		store:     store,
		formatter: cli.NewFormatter(tag, store.Currency()),
		out:       cmd.OutOrStdout(),
		cfg:       cfg,
	}, nil
}

// Close releases the storage.
func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
}

// refreshFormatter picks up a currency change.
func (a *app) refreshFormatter() {
	tag, err := a.cfg.Language()
	if err != nil {
		return
	}
	a.formatter = cli.NewFormatter(tag, a.store.Currency())
}

func (a *app) println(args ...any) {
	if _, err := fmt.Fprintln(a.out, args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

func (a *app) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(a.out, format, args...); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

// backup stores an export of the current ledger before a destructive change.
func (a *app) backup(ctx context.Context, reason string) error {
	doc, err := a.store.Export()
	if err != nil {
		return fmt.Errorf("failed to export ledger for backup: %w", err)
	}
	b, err := a.storage.SaveBackup(ctx, reason, doc)
	if err != nil {
		return fmt.Errorf("failed to save backup: %w", err)
	}
	slog.Info("Saved backup", "id", b.ID, "reason", reason, "bytes", b.Size)
	return nil
}

// selectMonth moves the cursor to the month given as "2006-01", if any.
func (a *app) selectMonth(month string) error {
	if month == "" {
		return nil
	}
	m, err := model.ParseMonth(month)
	if err != nil {
		return common.NewUserError("Month must look like 2024-03", err)
	}
	a.store.SetMonth(m)
	return nil
}

// findTransaction resolves a full ID or a unique ID prefix.
func (a *app) findTransaction(idOrPrefix string) (model.Transaction, error) {
	if t, ok := a.store.Transaction(idOrPrefix); ok {
		return t, nil
	}
	var matches []model.Transaction
	for _, t := range a.store.Transactions() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Transaction{}, common.NewUserError(fmt.Sprintf("No transaction with ID %q", idOrPrefix), common.ErrNotFound)
	default:
		return model.Transaction{}, common.NewUserError(fmt.Sprintf("ID prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches)), nil)
	}
}

// findRecurring resolves a full ID, a unique ID prefix or an exact name.
func (a *app) findRecurring(ref string) (model.RecurringPayment, error) {
	if p, ok := a.store.Recurring(ref); ok {
		return p, nil
	}
	var matches []model.RecurringPayment
	for _, p := range a.store.RecurringPayments() {
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.RecurringPayment{}, common.NewUserError(fmt.Sprintf("No recurring payment %q", ref), common.ErrNotFound)
	default:
		return model.RecurringPayment{}, common.NewUserError(fmt.Sprintf("%q matches %d recurring payments", ref, len(matches)), nil)
	}
}

// parseDate reads a "2006-01-02" date at noon in loc; empty means now.
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, common.NewUserError("Date must look like 2024-03-15", err)
	}
	return d.Add(12 * time.Hour), nil
}

// parseCategory accepts a category tag or its display label.
func parseCategory(s string) (model.Category, error) {
	s = strings.TrimSpace(s)
	if c, err := model.ParseCategory(strings.ToLower(s)); err == nil {
		return c, nil
	}
	for _, c := range model.Categories() {
		if strings.EqualFold(cli.CategoryLabel(c), s) {
			return c, nil
		}
	}
	return "", common.NewUserError(fmt.Sprintf("Unknown category %q (see 'budget categories')", s), model.ErrInvalidCategory)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
