package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee rule kinds. A rule is scoped to one (transaction type, currency) pair;
// absence of a rule means zero fee.
const (
	FeeKindFixed      = "FIXED"
	FeeKindPercentage = "PERCENTAGE"
	FeeKindTiered     = "TIERED"
)

// FeeRule configures the fee charged for one transaction type in one
// currency. FixedAmount and MinFee/MaxFee are minor units; Percent is a
// percentage of the principal (2.9 means 2.9%).
type FeeRule struct {
	ID              uint            `gorm:"primarykey"`
	TransactionType string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_fee_rules_scope"`
	Currency        string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_fee_rules_scope"`
	Kind            string          `gorm:"type:varchar(16);not null"`
	FixedAmount     int64           `gorm:"not null;default:0"`
	Percent         decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	MinFee          *int64
	MaxFee          *int64
	Active          bool `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
