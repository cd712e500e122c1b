package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
)

// CategoryDisplay holds the presentation attributes of a category.
type CategoryDisplay struct {
	Label string
	Emoji string
	Color lipgloss.Color
}

var categoryDisplays = map[model.Category]CategoryDisplay{
	model.CategoryFood:          {Label: "Food", Emoji: "🛒", Color: lipgloss.Color("#FF9500")},
	model.CategoryTransport:     {Label: "Transport", Emoji: "🚗", Color: lipgloss.Color("#007AFF")},
	model.CategoryHousing:       {Label: "Housing", Emoji: "🏠", Color: lipgloss.Color("#AF52DE")},
	model.CategoryEntertainment: {Label: "Entertainment", Emoji: "🎬", Color: lipgloss.Color("#FF2D55")},
	model.CategoryHealth:        {Label: "Health", Emoji: "💊", Color: lipgloss.Color("#FF3B30")},
	model.CategoryEducation:     {Label: "Education", Emoji: "📚", Color: lipgloss.Color("#5856D6")},
	model.CategoryClothing:      {Label: "Clothing", Emoji: "👕", Color: lipgloss.Color("#30B0C7")},
	model.CategorySubscriptions: {Label: "Subscriptions", Emoji: "📱", Color: lipgloss.Color("#32ADE6")},
	model.CategoryUtilities:     {Label: "Utilities", Emoji: "💡", Color: lipgloss.Color("#FFCC00")},
	model.CategoryRestaurants:   {Label: "Restaurants", Emoji: "🍽️", Color: lipgloss.Color("#E68033")},
	model.CategoryGroceries:     {Label: "Groceries", Emoji: "🥑", Color: lipgloss.Color("#34C759")},
	model.CategoryBeauty:        {Label: "Beauty", Emoji: "💅", Color: lipgloss.Color("#F26699")},
	model.CategorySalary:        {Label: "Salary", Emoji: "💰", Color: lipgloss.Color("#34C759")},
	model.CategoryFreelance:     {Label: "Freelance", Emoji: "💻", Color: lipgloss.Color("#00C7BE")},
	model.CategoryInvestment:    {Label: "Investment", Emoji: "📈", Color: lipgloss.Color("#3380E6")},
	model.CategoryGift:          {Label: "Gifts", Emoji: "🎁", Color: lipgloss.Color("#AF52DE")},
	model.CategoryOther:         {Label: "Other", Emoji: "📦", Color: lipgloss.Color("#8E8E93")},
}

// Display returns the presentation attributes for c. Unknown categories
// fall back to their raw tag.
func Display(c model.Category) CategoryDisplay {
	if d, ok := categoryDisplays[c]; ok {
		return d
	}
	return CategoryDisplay{Label: string(c), Emoji: "❔", Color: SubtleColor}
}

// CategoryLabel returns the human-readable name of c.
func CategoryLabel(c model.Category) string {
	return Display(c).Label
}

// FormatCategory renders c as a colored "emoji label" pair.
func FormatCategory(c model.Category) string {
	d := Display(c)
	return lipgloss.NewStyle().Foreground(d.Color).Render(fmt.Sprintf("%s %s", d.Emoji, d.Label))
}

// TypeLabel returns the human-readable name of a transaction type.
func TypeLabel(t model.TransactionType) string {
	if t == model.TypeIncome {
		return "Income"
	}
	return "Expense"
}
