package cli

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// Formatter renders money in the user's locale and currency.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter creates a Formatter for the given locale and currency symbol.
func NewFormatter(tag language.Tag, currency string) *Formatter {
	return &Formatter{
		printer:  message.NewPrinter(tag),
		currency: currency,
	}
}

// Amount renders d with locale digit grouping, at most two decimals,
// followed by the currency symbol. Negative values keep their sign.
func (f *Formatter) Amount(d decimal.Decimal) string {
	prefix := ""
	if d.IsNegative() {
		prefix = "-"
	}
	return prefix + f.number(d.Abs()) + " " + f.currency
}

// Signed renders a transaction amount with "+" for income and "-" for expenses.
func (f *Formatter) Signed(t model.Transaction) string {
	prefix := "-"
	if t.Type == model.TypeIncome {
		prefix = "+"
	}
	return prefix + f.number(t.Amount) + " " + f.currency
}

// Styled renders a transaction amount colored by its type.
func (f *Formatter) Styled(t model.Transaction) string {
	if t.Type == model.TypeIncome {
		return IncomeStyle.Render(f.Signed(t))
	}
	return ExpenseStyle.Render(f.Signed(t))
}

// Balance renders d green when non-negative and red otherwise.
func (f *Formatter) Balance(d decimal.Decimal) string {
	if d.IsNegative() {
		return ExpenseStyle.Render(f.Amount(d))
	}
	return IncomeStyle.Render(f.Amount(d))
}

// Percent renders d as a whole percentage.
func (f *Formatter) Percent(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(0).InexactFloat64(), number.MaxFractionDigits(0))) + "%"
}

func (f *Formatter) number(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}
