package ledger

import (
	"context"
	"testing"
	"time"

	"centime/internal/models"
	"centime/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) (*Service, *repositories.MemoryStore, *models.Wallet) {
	t.Helper()
	store := repositories.NewMemoryStore()
	wallet := &models.Wallet{OwnerID: "u-1", OwnerType: models.OwnerTypeUser, Currency: "USD"}
	require.NoError(t, store.CreateWallet(wallet))

	rows := []struct {
		refID  string
		txType string
		status string
		net    int64
	}{
		{"T1", models.TransactionTypeCredit, models.TransactionStatusCompleted, 1000},
		{"T2", models.TransactionTypeDebit, models.TransactionStatusCompleted, -300},
		{"T3", models.TransactionTypeCredit, models.TransactionStatusReversed, 500},
		{"T4", models.TransactionTypeRefund, models.TransactionStatusCompleted, -500},
		{"T5", models.TransactionTypeTransferOut, models.TransactionStatusCompleted, -100},
	}
	for _, row := range rows {
		require.NoError(t, store.CreateTransaction(&models.Transaction{
			WalletID:    wallet.ID,
			Type:        row.txType,
			Amount:      row.net,
			NetAmount:   row.net,
			Currency:    "USD",
			ReferenceID: row.refID,
			Status:      row.status,
		}))
	}
	return NewService(store), store, wallet
}

func references(txns []models.Transaction) []string {
	refs := make([]string, len(txns))
	for i, txn := range txns {
		refs[i] = txn.ReferenceID
	}
	return refs
}

func TestListOrdering(t *testing.T) {
	svc, _, wallet := seedStore(t)

	txns, err := svc.List(context.Background(), Query{WalletID: wallet.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3", "T4", "T5"}, references(txns),
		"replay order must be creation time ascending")
}

func TestListFilterByType(t *testing.T) {
	svc, _, wallet := seedStore(t)

	txns, err := svc.List(context.Background(), Query{
		WalletID: wallet.ID,
		Type:     models.TransactionTypeCredit,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T3"}, references(txns))
}

func TestListFilterByStatus(t *testing.T) {
	svc, _, wallet := seedStore(t)

	txns, err := svc.List(context.Background(), Query{
		WalletID: wallet.ID,
		Status:   models.TransactionStatusReversed,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"T3"}, references(txns))
}

func TestListLimitOffset(t *testing.T) {
	svc, _, wallet := seedStore(t)
	ctx := context.Background()

	page, err := svc.List(ctx, Query{WalletID: wallet.ID, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, references(page))

	page, err = svc.List(ctx, Query{WalletID: wallet.ID, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"T3", "T4"}, references(page))

	page, err = svc.List(ctx, Query{WalletID: wallet.ID, Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListDateRange(t *testing.T) {
	svc, _, wallet := seedStore(t)

	future := time.Now().Add(time.Hour)
	txns, err := svc.List(context.Background(), Query{WalletID: wallet.ID, From: &future})
	require.NoError(t, err)
	assert.Empty(t, txns)

	past := time.Now().Add(-time.Hour)
	txns, err = svc.List(context.Background(), Query{WalletID: wallet.ID, From: &past})
	require.NoError(t, err)
	assert.Len(t, txns, 5)
}

func TestListRequiresWallet(t *testing.T) {
	svc, _, _ := seedStore(t)

	_, err := svc.List(context.Background(), Query{})
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestByReference(t *testing.T) {
	svc, _, _ := seedStore(t)
	ctx := context.Background()

	txn, err := svc.ByReference(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionTypeDebit, txn.Type)

	_, err = svc.ByReference(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}
