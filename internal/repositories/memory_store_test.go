package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"centime/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRollbackOnError(t *testing.T) {
	store := NewMemoryStore()
	wallet := &models.Wallet{OwnerID: "u-1", OwnerType: models.OwnerTypeUser, Currency: "USD"}
	require.NoError(t, store.CreateWallet(wallet))

	boom := errors.New("boom")
	err := store.ExecuteInTransaction(func(stx LedgerStore) error {
		if err := stx.CreateTransaction(&models.Transaction{
			WalletID:    wallet.ID,
			Type:        models.TransactionTypeCredit,
			Amount:      100,
			NetAmount:   100,
			Currency:    "USD",
			ReferenceID: "rolled-back",
			Status:      models.TransactionStatusCompleted,
		}); err != nil {
			return err
		}
		if err := stx.UpdateWalletBalance(wallet.ID, 100); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetTransactionByReference("rolled-back")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
	w, err := store.GetWallet(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

// Transactional writers and plain readers must be safe to run concurrently;
// the race detector fails this test if any store method touches state outside
// the mutex.
func TestMemoryStoreConcurrentReadersAndWriters(t *testing.T) {
	store := NewMemoryStore()
	wallet := &models.Wallet{OwnerID: "u-1", OwnerType: models.OwnerTypeUser, Currency: "USD"}
	require.NoError(t, store.CreateWallet(wallet))

	const writers = 8
	const postingsPerWriter = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(writer int) {
			defer wg.Done()
			for j := 0; j < postingsPerWriter; j++ {
				err := store.ExecuteInTransaction(func(stx LedgerStore) error {
					w, err := stx.LockWallet(wallet.ID)
					if err != nil {
						return err
					}
					txn := &models.Transaction{
						WalletID:    w.ID,
						Type:        models.TransactionTypeCredit,
						Amount:      1,
						NetAmount:   1,
						Currency:    "USD",
						ReferenceID: uniqueRef(writer, j),
						Status:      models.TransactionStatusCompleted,
					}
					if err := stx.CreateTransaction(txn); err != nil {
						return err
					}
					return stx.UpdateWalletBalance(w.ID, w.Balance+1)
				})
				assert.NoError(t, err)
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := store.GetWallet(wallet.ID); err != nil {
					assert.ErrorIs(t, err, ErrWalletNotFound)
				}
				_, err := store.SumAppliedNet(context.Background(), wallet.ID)
				assert.NoError(t, err)
				_, err = store.ListTransactions(context.Background(), TransactionFilter{WalletID: wallet.ID})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	w, err := store.GetWallet(wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(writers*postingsPerWriter), w.Balance)

	total, err := store.SumAppliedNet(context.Background(), wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Balance, total)
}

func uniqueRef(writer, seq int) string {
	return fmt.Sprintf("writer-%d-%d", writer, seq)
}
