package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringPayment is an expense expected every month on a fixed day.
// Inactive payments stay in the collection but are excluded from totals.
type RecurringPayment struct {
	ID         string
	Name       string
	Category   Category
	Amount     decimal.Decimal
	DayOfMonth int
	IsActive   bool
}

// NewRecurringPayment creates an active recurring payment with a fresh ID.
func NewRecurringPayment(name string, amount decimal.Decimal, category Category, dayOfMonth int) RecurringPayment {
	return RecurringPayment{
		ID:         uuid.NewString(),
		Name:       name,
		Amount:     amount,
		Category:   category,
		DayOfMonth: dayOfMonth,
		IsActive:   true,
	}
}

// Validate checks the recurring payment invariants.
func (p *RecurringPayment) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, p.Amount)
	}
	if !p.Category.IsExpense() {
		return fmt.Errorf("%w: %q is not an expense category", ErrInvalidCategory, p.Category)
	}
	if p.DayOfMonth < 1 || p.DayOfMonth > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidDay, p.DayOfMonth)
	}
	return nil
}

// NextDueDate returns the first billing date on or after from's calendar day.
// A DayOfMonth past the end of a shorter month bills on its last day.
func (p *RecurringPayment) NextDueDate(from time.Time) time.Time {
	month := MonthOf(from)
	due := month.clampedDate(p.DayOfMonth, from.Location())
	if due.Day() < from.Day() {
		due = month.AddMonths(1).clampedDate(p.DayOfMonth, from.Location())
	}
	return due
}
