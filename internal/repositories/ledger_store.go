// Package repositories provides the data access layer. The ledger store
// contract below is everything the balance manager needs from persistence:
// atomic read-modify-write on wallet rows, a uniqueness constraint on
// transaction references, and ordered range queries over the ledger.
package repositories

import (
	"context"
	"time"

	"centime/internal/models"
)

// TransactionFilter narrows ledger queries. Zero-valued fields are ignored.
// Limit == 0 means no limit.
type TransactionFilter struct {
	WalletID uint
	Type     string
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// LedgerStore is implemented by the Postgres store and by the in-memory
// store used in tests. Methods called inside ExecuteInTransaction operate on
// the transactional view; LockWallet holds the row lock until the enclosing
// unit commits or rolls back.
type LedgerStore interface {
	CreateWallet(wallet *models.Wallet) error
	GetWallet(id uint) (*models.Wallet, error)
	GetWalletByOwner(ownerID, ownerType, currency string) (*models.Wallet, error)
	LockWallet(id uint) (*models.Wallet, error)
	UpdateWalletBalance(id uint, balance int64) error

	CreateTransaction(txn *models.Transaction) error
	GetTransactionByReference(referenceID string) (*models.Transaction, error)
	MarkTransactionReversed(id uint) error
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	SumAppliedNet(ctx context.Context, walletID uint) (int64, error)

	ExecuteInTransaction(fn func(LedgerStore) error) error
}
