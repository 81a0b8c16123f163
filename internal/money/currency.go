package money

import "errors"

// ErrInvalidCurrency is returned when a currency code is not in the registry.
var ErrInvalidCurrency = errors.New("invalid currency")

// Currency describes an ISO-like currency: its code, the number of minor-unit
// digits (exponent), and a display symbol.
type Currency struct {
	Code     string `json:"code"`
	Exponent int    `json:"exponent"`
	Symbol   string `json:"symbol"`
}

// registry is the static currency dictionary. Amounts are always stored as
// integer counts of the minor unit, so the exponent here is the single source
// of truth for how a stored amount maps to a display amount.
var registry = map[string]Currency{
	"USD": {Code: "USD", Exponent: 2, Symbol: "$"},
	"EUR": {Code: "EUR", Exponent: 2, Symbol: "€"},
	"GBP": {Code: "GBP", Exponent: 2, Symbol: "£"},
	"CAD": {Code: "CAD", Exponent: 2, Symbol: "CA$"},
	"AUD": {Code: "AUD", Exponent: 2, Symbol: "A$"},
	"NGN": {Code: "NGN", Exponent: 2, Symbol: "₦"},
	"KES": {Code: "KES", Exponent: 2, Symbol: "KSh"},
	"INR": {Code: "INR", Exponent: 2, Symbol: "₹"},
	"IDR": {Code: "IDR", Exponent: 2, Symbol: "Rp"},
	"JPY": {Code: "JPY", Exponent: 0, Symbol: "¥"},
	"XAF": {Code: "XAF", Exponent: 0, Symbol: "FCFA"},
	"KWD": {Code: "KWD", Exponent: 3, Symbol: "KD"},
}

// CurrencyByCode looks up a currency in the registry.
func CurrencyByCode(code string) (Currency, error) {
	cur, ok := registry[code]
	if !ok {
		return Currency{}, ErrInvalidCurrency
	}
	return cur, nil
}

// IsSupported reports whether the code exists in the registry.
func IsSupported(code string) bool {
	_, ok := registry[code]
	return ok
}
