// Package ledger exposes read-only queries over the transaction history.
// Results come back in creation order ascending so replays are
// deterministic.
package ledger

import (
	"context"
	"time"

	"centime/internal/models"
	"centime/internal/repositories"
)

// Query limits.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Query narrows a ledger listing. WalletID is required; the rest are
// optional filters.
type Query struct {
	WalletID uint
	Type     string
	Status   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Service answers ledger queries.
type Service struct {
	store repositories.LedgerStore
}

func NewService(store repositories.LedgerStore) *Service {
	if store == nil {
		panic("store is required")
	}
	return &Service{store: store}
}

// List returns the wallet's transactions matching the query, ordered by
// creation time ascending.
func (s *Service) List(ctx context.Context, q Query) ([]models.Transaction, error) {
	if q.WalletID == 0 {
		return nil, repositories.ErrWalletNotFound
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return s.store.ListTransactions(ctx, repositories.TransactionFilter{
		WalletID: q.WalletID,
		Type:     q.Type,
		Status:   q.Status,
		From:     q.From,
		To:       q.To,
		Limit:    limit,
		Offset:   q.Offset,
	})
}

// ByReference fetches a single transaction by its idempotency key.
func (s *Service) ByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	return s.store.GetTransactionByReference(referenceID)
}
