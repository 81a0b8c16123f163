package wallet

import (
	"context"

	"centime/internal/models"
	"centime/internal/money"
)

// Service is the balance manager: the only path through which wallet
// balances change. Every mutating operation runs as one atomic unit against
// the ledger store and either fully commits or leaves no trace.
type Service interface {
	GetOrCreateWallet(ctx context.Context, owner OwnerRef) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	GetBalance(ctx context.Context, walletID uint) (money.Money, error)

	Credit(ctx context.Context, params CreditParams) (*models.Transaction, error)
	Debit(ctx context.Context, params DebitParams) (*models.Transaction, error)
	Transfer(ctx context.Context, params TransferParams) (*TransferResult, error)
	Refund(ctx context.Context, params RefundParams) (*models.Transaction, error)
}

// Cache is the optional wallet read cache.
type Cache interface {
	GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, walletID uint) error
}
