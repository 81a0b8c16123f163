package fee

import (
	"testing"

	"centime/internal/models"
	"centime/internal/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func percentRule(txType, currency, percent string, minFee, maxFee *int64) models.FeeRule {
	return models.FeeRule{
		TransactionType: txType,
		Currency:        currency,
		Kind:            models.FeeKindPercentage,
		Percent:         decimal.RequireFromString(percent),
		MinFee:          minFee,
		MaxFee:          maxFee,
		Active:          true,
	}
}

func TestAssessNoRule(t *testing.T) {
	engine := NewEngine(NewStaticRules(nil), Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(10000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Fee.Amount())
	assert.Equal(t, int64(10000), got.NetAmount)
}

func TestAssessFixed(t *testing.T) {
	rules := NewStaticRules([]models.FeeRule{{
		TransactionType: models.TransactionTypeCredit,
		Currency:        "USD",
		Kind:            models.FeeKindFixed,
		FixedAmount:     50,
		Active:          true,
	}})
	engine := NewEngine(rules, Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(1000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Fee.Amount())
	assert.Equal(t, int64(950), got.NetAmount)
}

func TestAssessPercentageWithMinClamp(t *testing.T) {
	// 2.9% on CREDIT/USD with a 100 minor-unit floor: crediting $10.00
	// computes a raw fee of 29 which the floor lifts to 100.
	rules := NewStaticRules([]models.FeeRule{
		percentRule(models.TransactionTypeCredit, "USD", "2.9", int64Ptr(100), nil),
	})
	engine := NewEngine(rules, Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(1000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Fee.Amount())
	assert.Equal(t, int64(900), got.NetAmount)
}

func TestAssessPercentageRoundsHalfUp(t *testing.T) {
	// 2.5% of 101 = 2.525, rounded half-up to 3.
	rules := NewStaticRules([]models.FeeRule{
		percentRule(models.TransactionTypeCredit, "USD", "2.5", nil, nil),
	})
	engine := NewEngine(rules, Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(101, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Fee.Amount())
}

func TestAssessMaxClamp(t *testing.T) {
	rules := NewStaticRules([]models.FeeRule{
		percentRule(models.TransactionTypeCredit, "USD", "10", nil, int64Ptr(500)),
	})
	engine := NewEngine(rules, Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(100000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Fee.Amount())
	assert.Equal(t, int64(99500), got.NetAmount)
}

func TestAssessTiered(t *testing.T) {
	rules := NewStaticRules([]models.FeeRule{{
		TransactionType: models.TransactionTypeTransferOut,
		Currency:        "USD",
		Kind:            models.FeeKindTiered,
		FixedAmount:     30,
		Percent:         decimal.RequireFromString("1"),
		Active:          true,
	}})
	engine := NewEngine(rules, Config{})

	got, err := engine.Assess(models.TransactionTypeTransferOut, money.MustNew(10000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(130), got.Fee.Amount()) // 30 fixed + 1% of 10000
	// Debit direction under the default policy: net effect is the principal.
	assert.Equal(t, int64(-10000), got.NetAmount)
}

func TestAssessDebitPolicies(t *testing.T) {
	rules := NewStaticRules([]models.FeeRule{{
		TransactionType: models.TransactionTypeDebit,
		Currency:        "USD",
		Kind:            models.FeeKindFixed,
		FixedAmount:     25,
		Active:          true,
	}})

	principal := NewEngine(rules, Config{DebitPolicy: DebitFeePrincipal})
	got, err := principal.Assess(models.TransactionTypeDebit, money.MustNew(1000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Fee.Amount())
	assert.Equal(t, int64(-1000), got.NetAmount)

	gross := NewEngine(rules, Config{DebitPolicy: DebitFeeGross})
	got, err = gross.Assess(models.TransactionTypeDebit, money.MustNew(1000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(-1025), got.NetAmount)
}

func TestAssessInactiveRuleIgnored(t *testing.T) {
	rule := percentRule(models.TransactionTypeCredit, "USD", "2.9", nil, nil)
	rule.Active = false
	engine := NewEngine(NewStaticRules([]models.FeeRule{rule}), Config{})

	got, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(1000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Fee.Amount())
}

func TestAssessRejectsNonPositive(t *testing.T) {
	engine := NewEngine(NewStaticRules(nil), Config{})

	_, err := engine.Assess(models.TransactionTypeCredit, money.MustNew(0, "USD"))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)

	_, err = engine.Assess(models.TransactionTypeCredit, money.MustNew(-5, "USD"))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}
