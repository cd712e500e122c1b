package model

import "fmt"

// Category is a fixed tag describing what a transaction was for.
type Category string

// Expense categories.
const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryClothing      Category = "clothing"
	CategorySubscriptions Category = "subscriptions"
	CategoryUtilities     Category = "utilities"
	CategoryRestaurants   Category = "restaurants"
	CategoryGroceries     Category = "groceries"
	CategoryBeauty        Category = "beauty"
)

// Income categories.
const (
	CategorySalary     Category = "salary"
	CategoryFreelance  Category = "freelance"
	CategoryInvestment Category = "investment"
)

// Categories valid for both income and expense.
const (
	CategoryGift  Category = "gift"
	CategoryOther Category = "other"
)

// allCategories is the canonical declaration order, used for stable sorting.
var allCategories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryHousing,
	CategoryEntertainment,
	CategoryHealth,
	CategoryEducation,
	CategoryClothing,
	CategorySubscriptions,
	CategoryUtilities,
	CategoryRestaurants,
	CategoryGroceries,
	CategoryBeauty,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryGift,
	CategoryOther,
}

// Categories returns every known category in canonical order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ExpenseCategories returns the categories selectable for expenses.
func ExpenseCategories() []Category {
	var out []Category
	for _, c := range allCategories {
		if c.IsExpense() {
			out = append(out, c)
		}
	}
	return out
}

// IncomeCategories returns the categories selectable for income.
func IncomeCategories() []Category {
	return []Category{CategorySalary, CategoryFreelance, CategoryInvestment, CategoryGift, CategoryOther}
}

// CategoriesFor returns the categories selectable for the given type.
func CategoriesFor(t TransactionType) []Category {
	if t == TypeIncome {
		return IncomeCategories()
	}
	return ExpenseCategories()
}

// ParseCategory converts a raw tag into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Known() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Known reports whether c is part of the fixed category set.
func (c Category) Known() bool {
	return c.Rank() >= 0
}

// Rank returns the position of c in the canonical order, or -1.
func (c Category) Rank() int {
	for i, known := range allCategories {
		if known == c {
			return i
		}
	}
	return -1
}

// IsExpense reports whether c may be used for expenses.
func (c Category) IsExpense() bool {
	switch c {
	case CategorySalary, CategoryFreelance, CategoryInvestment:
		return false
	default:
		return c.Known()
	}
}

// IsIncome reports whether c may be used for income.
func (c Category) IsIncome() bool {
	switch c {
	case CategorySalary, CategoryFreelance, CategoryInvestment, CategoryGift, CategoryOther:
		return true
	default:
		return false
	}
}

// ValidFor reports whether c is selectable for the given transaction type.
func (c Category) ValidFor(t TransactionType) bool {
	switch t {
	case TypeIncome:
		return c.IsIncome()
	case TypeExpense:
		return c.IsExpense()
	default:
		return false
	}
}
