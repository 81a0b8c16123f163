// Package money implements an immutable monetary value stored as an integer
// count of a currency's minor unit (e.g. cents). Every operation returns a
// new value; nothing mutates in place.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount covers non-positive amounts where a positive one is
	// required, division by zero and empty allocation ratios.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrCurrencyMismatch is returned when two operands carry different
	// currencies. Amounts are never silently coerced.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// RoundingMode selects how fractional minor units are resolved after scalar
// multiplication.
type RoundingMode int

const (
	RoundHalfUp RoundingMode = iota
	RoundHalfDown
	RoundHalfEven
	RoundCeiling
	RoundFloor
)

// Money is an amount in minor units bound to a currency.
type Money struct {
	amount   int64
	currency Currency
}

// New builds a Money value, validating the currency code against the
// registry. The amount may be negative; callers enforce sign rules.
func New(amount int64, code string) (Money, error) {
	cur, err := CurrencyByCode(code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: cur}, nil
}

// MustNew is New for statically known currency codes; it panics on error.
func MustNew(amount int64, code string) Money {
	m, err := New(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns a zero amount in the given currency.
func Zero(code string) (Money, error) {
	return New(0, code)
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 { return m.amount }

// Currency returns the currency descriptor.
func (m Money) Currency() Currency { return m.currency }

// CurrencyCode returns the ISO-like code.
func (m Money) CurrencyCode() string { return m.currency.Code }

func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsPositive() bool { return m.amount > 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }

// SameCurrency reports whether both values share a currency.
func (m Money) SameCurrency(other Money) bool {
	return m.currency.Code == other.currency.Code
}

// Equal reports value and currency equality.
func (m Money) Equal(other Money) bool {
	return m.SameCurrency(other) && m.amount == other.amount
}

// Add returns m + other. The currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns m - other. The currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Negate returns the value with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.amount < 0 {
		return m.Negate()
	}
	return m
}

// Multiply scales the amount by a decimal factor and rounds the result back
// to whole minor units using the given mode.
func (m Money) Multiply(factor decimal.Decimal, mode RoundingMode) Money {
	product := decimal.NewFromInt(m.amount).Mul(factor)
	return Money{amount: roundToUnit(product, mode), currency: m.currency}
}

// Divide splits the amount by n, truncating toward zero. n must be non-zero.
func (m Money) Divide(n int64) (Money, error) {
	if n == 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: m.amount / n, currency: m.currency}, nil
}

// Mod returns the remainder of dividing the amount by n.
func (m Money) Mod(n int64) (Money, error) {
	if n == 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{amount: m.amount % n, currency: m.currency}, nil
}

// Allocate splits the amount proportionally to the given positive integer
// ratios using the largest-remainder method: each part takes its floor
// share, then the leftover minor units go one-by-one to the parts with the
// largest fractional remainder. The parts always sum to the original amount.
func (m Money) Allocate(ratios ...int) ([]Money, error) {
	if len(ratios) == 0 {
		return nil, ErrInvalidAmount
	}
	var total int64
	for _, r := range ratios {
		if r <= 0 {
			return nil, ErrInvalidAmount
		}
		total += int64(r)
	}

	abs := m.amount
	negative := abs < 0
	if negative {
		abs = -abs
	}

	shares := make([]int64, len(ratios))
	remainders := make([]int64, len(ratios))
	var distributed int64
	for i, r := range ratios {
		shares[i] = abs * int64(r) / total
		remainders[i] = abs * int64(r) % total
		distributed += shares[i]
	}

	// Leftover is strictly less than len(ratios), so each part receives at
	// most one extra unit. Ties go to the earliest part for determinism.
	for leftover := abs - distributed; leftover > 0; leftover-- {
		best := 0
		for i := 1; i < len(remainders); i++ {
			if remainders[i] > remainders[best] {
				best = i
			}
		}
		shares[best]++
		remainders[best] = -1
	}

	parts := make([]Money, len(shares))
	for i, share := range shares {
		if negative {
			share = -share
		}
		parts[i] = Money{amount: share, currency: m.currency}
	}
	return parts, nil
}

// String renders the amount with its symbol and minor-unit digits,
// e.g. "$100.00" for 10000 USD minor units.
func (m Money) String() string {
	d := decimal.New(m.amount, -int32(m.currency.Exponent))
	return m.currency.Symbol + d.StringFixed(int32(m.currency.Exponent))
}

func roundToUnit(d decimal.Decimal, mode RoundingMode) int64 {
	switch mode {
	case RoundHalfDown:
		truncated := d.Truncate(0)
		frac := d.Sub(truncated).Abs()
		if frac.GreaterThan(decimal.New(5, -1)) {
			if d.IsNegative() {
				truncated = truncated.Sub(decimal.NewFromInt(1))
			} else {
				truncated = truncated.Add(decimal.NewFromInt(1))
			}
		}
		return truncated.IntPart()
	case RoundHalfEven:
		return d.RoundBank(0).IntPart()
	case RoundCeiling:
		return d.Ceil().IntPart()
	case RoundFloor:
		return d.Floor().IntPart()
	default: // RoundHalfUp
		return d.Round(0).IntPart()
	}
}
