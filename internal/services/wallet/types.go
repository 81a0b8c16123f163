package wallet

import "centime/internal/models"

// Config holds balance manager settings.
type Config struct {
	// DefaultCurrency is used when an owner lookup omits the currency.
	DefaultCurrency string
}

// OwnerRef identifies a wallet by its polymorphic owner and currency. A
// wallet is provisioned on first access; the pair is not unique-constrained.
type OwnerRef struct {
	OwnerID   string
	OwnerType string
	Currency  string
}

// ProcessorInfo carries optional, informational gateway fields.
type ProcessorInfo struct {
	Name          string
	TransactionID string
}

// CreditParams configures a credit operation. ReferenceID is the idempotency
// key; when empty one is generated, and it must not contain ':' (reserved
// for derived references). Currency defaults to the wallet currency and must
// match it when set.
type CreditParams struct {
	WalletID    uint
	Amount      int64
	Currency    string
	ReferenceID string
	Description string
	Metadata    map[string]interface{}
	Processor   *ProcessorInfo
}

// DebitParams configures a debit operation.
type DebitParams struct {
	WalletID    uint
	Amount      int64
	Currency    string
	ReferenceID string
	Description string
	Metadata    map[string]interface{}
}

// TransferParams configures an atomic two-leg transfer. ReferenceID is the
// base reference for the pair; the legs derive "<ref>:out" and "<ref>:in",
// so the base itself must not contain ':'.
type TransferParams struct {
	FromWalletID uint
	ToWalletID   uint
	Amount       int64
	ReferenceID  string
	Description  string
	Metadata     map[string]interface{}
}

// TransferResult holds both legs of a completed transfer. The legs share a
// transfer_id metadata entry.
type TransferResult struct {
	Outgoing *models.Transaction
	Incoming *models.Transaction
}

// RefundParams configures a refund of the transaction identified by
// ReferenceID.
type RefundParams struct {
	ReferenceID string
	Description string
	Metadata    map[string]interface{}
}
