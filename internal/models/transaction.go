package models

import (
	"time"

	"gorm.io/datatypes"
)

// Transaction types. Amount is always positive; the type implies the sign of
// the applied net amount.
const (
	TransactionTypeCredit      = "CREDIT"
	TransactionTypeDebit       = "DEBIT"
	TransactionTypeTransferIn  = "TRANSFER_IN"
	TransactionTypeTransferOut = "TRANSFER_OUT"
	TransactionTypeRefund      = "REFUND"
)

// Transaction statuses. There is no pending state: a transaction is applied
// or rejected synchronously. REVERSED marks an applied transaction that a
// later REFUND row offset; its ledger effect stands.
const (
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusReversed  = "REVERSED"
)

// CreditDirection reports whether the type increases the wallet balance.
func CreditDirection(transactionType string) bool {
	switch transactionType {
	case TransactionTypeCredit, TransactionTypeTransferIn:
		return true
	default:
		return false
	}
}

// Transaction is one immutable ledger row. Only Status may change after the
// row is written, and only COMPLETED -> REVERSED.
type Transaction struct {
	ID                  uint   `gorm:"primarykey"`
	WalletID            uint   `gorm:"not null;index:idx_transactions_wallet"`
	Type                string `gorm:"type:varchar(16);not null"`
	Amount              int64  `gorm:"not null"`
	Fee                 int64  `gorm:"not null;default:0"`
	NetAmount           int64  `gorm:"not null"`
	Currency            string `gorm:"type:varchar(3);not null"`
	BalanceBefore       int64  `gorm:"not null"`
	BalanceAfter        int64  `gorm:"not null"`
	ReferenceID         string `gorm:"type:varchar(128);uniqueIndex;not null"`
	ParentTransactionID *uint  `gorm:"index"`
	Status              string `gorm:"type:varchar(16);not null;default:'COMPLETED'"`
	Description         string
	Metadata            datatypes.JSONMap `gorm:"type:jsonb"`
	ProcessorName       string            `gorm:"type:varchar(32)"`
	ProcessorTxID       string            `gorm:"type:varchar(128)"`
	Signature           string            `gorm:"type:varchar(64)"`
	CreatedAt           time.Time         `gorm:"index:idx_transactions_wallet"`
}
