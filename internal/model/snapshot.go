package model

// DefaultCurrency is used until the user picks one.
const DefaultCurrency = "₽"

// Currency is a selectable currency symbol.
type Currency struct {
	Symbol string
	Name   string
}

// SupportedCurrencies lists the currencies offered for selection.
var SupportedCurrencies = []Currency{
	{Symbol: "₽", Name: "Ruble"},
	{Symbol: "$", Name: "Dollar"},
	{Symbol: "€", Name: "Euro"},
	{Symbol: "₸", Name: "Tenge"},
	{Symbol: "₴", Name: "Hryvnia"},
	{Symbol: "£", Name: "Pound"},
	{Symbol: "¥", Name: "Yen"},
}

// IsSupportedCurrency reports whether symbol is in SupportedCurrencies.
func IsSupportedCurrency(symbol string) bool {
	for _, c := range SupportedCurrencies {
		if c.Symbol == symbol {
			return true
		}
	}
	return false
}

// Snapshot is the full persisted state of a ledger.
type Snapshot struct {
	Currency          string
	Transactions      []Transaction
	RecurringPayments []RecurringPayment
}

// EmptySnapshot returns a snapshot with no records and the given currency.
func EmptySnapshot(currency string) Snapshot {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Snapshot{
		Transactions:      []Transaction{},
		RecurringPayments: []RecurringPayment{},
		Currency:          currency,
	}
}
