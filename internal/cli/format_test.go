package cli

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

func TestFormatter_Amount(t *testing.T) {
	f := NewFormatter(language.English, "$")

	tests := []struct {
		in   string
		want string
	}{
		{"0", "0 $"},
		{"1500", "1,500 $"},
		{"12.25", "12.25 $"},
		{"12.5", "12.5 $"},
		{"1234567.891", "1,234,567.89 $"},
		{"-250", "-250 $"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Amount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_Signed(t *testing.T) {
	f := NewFormatter(language.English, "₽")
	date := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	in := model.NewTransaction(model.TypeIncome, decimal.NewFromInt(2000), model.CategorySalary, "", date)
	out := model.NewTransaction(model.TypeExpense, decimal.NewFromInt(500), model.CategoryFood, "", date)

	assert.Equal(t, "+2,000 ₽", f.Signed(in))
	assert.Equal(t, "-500 ₽", f.Signed(out))
}

func TestFormatter_Percent(t *testing.T) {
	f := NewFormatter(language.English, "$")
	assert.Equal(t, "33%", f.Percent(decimal.RequireFromString("33.3333")))
	assert.Equal(t, "100%", f.Percent(decimal.NewFromInt(100)))
}

func TestDisplay_CoversEveryCategory(t *testing.T) {
	for _, c := range model.Categories() {
		d := Display(c)
		assert.NotEmpty(t, d.Label, c)
		assert.NotEmpty(t, d.Emoji, c)
		assert.NotEqual(t, string(c), d.Label, "category %s should have a display label", c)
	}
}

func TestDisplay_UnknownCategory(t *testing.T) {
	d := Display(model.Category("lottery"))
	assert.Equal(t, "lottery", d.Label)
	assert.Equal(t, "Groceries", CategoryLabel(model.CategoryGroceries))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([][]string{
		{"a", "long value"},
		{"longer", "b"},
	})
	assert.Contains(t, out, "long value")
	assert.Contains(t, out, "longer")
	assert.Empty(t, RenderTable(nil))
}
