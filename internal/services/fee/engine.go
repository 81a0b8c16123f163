// Package fee evaluates configured fee rules against a transaction type,
// amount and currency. Calculation is pure: rules are read-only and the
// engine never touches the ledger.
package fee

import (
	"fmt"

	"centime/internal/models"
	"centime/internal/money"

	"github.com/shopspring/decimal"
)

// RuleSource resolves the active rule for a (transaction type, currency)
// scope. A (nil, nil) return means no rule: zero fee.
type RuleSource interface {
	ActiveRule(transactionType, currency string) (*models.FeeRule, error)
}

// DebitFeePolicy fixes how a debit's fee interacts with the applied net
// amount. The insufficient-funds check always judges the requested principal
// only, regardless of policy.
type DebitFeePolicy int

const (
	// DebitFeePrincipal applies exactly -amount to the balance and records
	// the fee informationally on the transaction row. This is the default.
	DebitFeePrincipal DebitFeePolicy = iota

	// DebitFeeGross applies -(amount + fee) to the balance.
	DebitFeeGross
)

// Config holds engine settings.
type Config struct {
	DebitPolicy DebitFeePolicy
}

// Assessment is the outcome of a fee calculation: the fee owed and the
// signed net amount to apply to the wallet balance.
type Assessment struct {
	Fee       money.Money
	NetAmount int64
}

// Engine computes fees from a rule source.
type Engine struct {
	rules  RuleSource
	config Config
}

func NewEngine(rules RuleSource, config Config) *Engine {
	if rules == nil {
		panic("rule source is required")
	}
	return &Engine{rules: rules, config: config}
}

var oneHundred = decimal.NewFromInt(100)

// Assess computes the fee and net amount for a positive principal. Credit
// direction nets amount - fee; debit direction nets -amount (or
// -(amount + fee) under DebitFeeGross).
func (e *Engine) Assess(transactionType string, amount money.Money) (Assessment, error) {
	if !amount.IsPositive() {
		return Assessment{}, money.ErrInvalidAmount
	}

	rule, err := e.rules.ActiveRule(transactionType, amount.CurrencyCode())
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to resolve fee rule: %w", err)
	}

	feeAmount, err := rawFee(rule, amount)
	if err != nil {
		return Assessment{}, err
	}
	feeAmount = clamp(rule, feeAmount)

	feeMoney, err := money.New(feeAmount, amount.CurrencyCode())
	if err != nil {
		return Assessment{}, err
	}

	net := amount.Amount() - feeAmount
	if !models.CreditDirection(transactionType) {
		net = -amount.Amount()
		if e.config.DebitPolicy == DebitFeeGross {
			net = -(amount.Amount() + feeAmount)
		}
	}

	return Assessment{Fee: feeMoney, NetAmount: net}, nil
}

func rawFee(rule *models.FeeRule, amount money.Money) (int64, error) {
	if rule == nil {
		return 0, nil
	}

	switch rule.Kind {
	case models.FeeKindFixed:
		return rule.FixedAmount, nil
	case models.FeeKindPercentage:
		return percentOf(amount, rule.Percent), nil
	case models.FeeKindTiered:
		return rule.FixedAmount + percentOf(amount, rule.Percent), nil
	default:
		return 0, fmt.Errorf("unknown fee kind %q", rule.Kind)
	}
}

// percentOf computes amount * percent / 100, rounded half-up to the
// currency's minor unit.
func percentOf(amount money.Money, percent decimal.Decimal) int64 {
	return amount.Multiply(percent.Div(oneHundred), money.RoundHalfUp).Amount()
}

func clamp(rule *models.FeeRule, feeAmount int64) int64 {
	if rule == nil {
		return feeAmount
	}
	if rule.MinFee != nil && feeAmount < *rule.MinFee {
		feeAmount = *rule.MinFee
	}
	if rule.MaxFee != nil && feeAmount > *rule.MaxFee {
		feeAmount = *rule.MaxFee
	}
	return feeAmount
}
