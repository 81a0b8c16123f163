package reconcile

import (
	"context"
	"testing"

	"centime/internal/models"
	"centime/internal/repositories"
	"centime/internal/services/fee"
	"centime/internal/services/wallet"
	"centime/internal/sign"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (wallet.Service, *repositories.MemoryStore, *sign.Signer) {
	t.Helper()
	store := repositories.NewMemoryStore()
	engine := fee.NewEngine(fee.NewStaticRules(nil), fee.Config{})
	signer, err := sign.New([]byte("test-signing-key"))
	require.NoError(t, err)
	svc := wallet.NewService(store, engine, signer, nil, wallet.Config{}, nil)
	return svc, store, signer
}

func seedWallet(t *testing.T, svc wallet.Service) *models.Wallet {
	t.Helper()
	w, err := svc.GetOrCreateWallet(context.Background(), wallet.OwnerRef{
		OwnerID:   "u-1",
		OwnerType: models.OwnerTypeUser,
		Currency:  "USD",
	})
	require.NoError(t, err)
	return w
}

func TestReconcileBalancedWallet(t *testing.T) {
	svc, store, signer := newFixture(t)
	w := seedWallet(t, svc)
	ctx := context.Background()

	_, err := svc.Credit(ctx, wallet.CreditParams{WalletID: w.ID, Amount: 10000})
	require.NoError(t, err)
	_, err = svc.Debit(ctx, wallet.DebitParams{WalletID: w.ID, Amount: 2500})
	require.NoError(t, err)

	report, err := NewService(store, signer).Reconcile(ctx, w.ID)
	require.NoError(t, err)

	assert.True(t, report.Balanced)
	assert.False(t, report.Repaired)
	assert.Equal(t, int64(7500), report.CachedBalance)
	assert.Equal(t, int64(7500), report.ComputedBalance)
	assert.Empty(t, report.TamperedRefs)
}

func TestReconcileRepairsDrift(t *testing.T) {
	svc, store, signer := newFixture(t)
	w := seedWallet(t, svc)
	ctx := context.Background()

	_, err := svc.Credit(ctx, wallet.CreditParams{WalletID: w.ID, Amount: 10000})
	require.NoError(t, err)

	// Corrupt the denormalized cache behind the balance manager's back.
	require.NoError(t, store.UpdateWalletBalance(w.ID, 4242))

	report, err := NewService(store, signer).Reconcile(ctx, w.ID)
	require.NoError(t, err)

	assert.False(t, report.Balanced)
	assert.True(t, report.Repaired)
	assert.Equal(t, int64(4242), report.CachedBalance)
	assert.Equal(t, int64(10000), report.ComputedBalance)

	repaired, err := store.GetWallet(w.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), repaired.Balance)

	// A second pass finds nothing to do.
	report, err = NewService(store, signer).Reconcile(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
	assert.False(t, report.Repaired)
}

func TestReconcileCountsReversedRows(t *testing.T) {
	svc, store, signer := newFixture(t)
	w := seedWallet(t, svc)
	ctx := context.Background()

	_, err := svc.Credit(ctx, wallet.CreditParams{WalletID: w.ID, Amount: 10000, ReferenceID: "R9"})
	require.NoError(t, err)
	_, err = svc.Refund(ctx, wallet.RefundParams{ReferenceID: "R9"})
	require.NoError(t, err)

	// The REVERSED credit and its REFUND offset to zero; the replay must
	// agree with the cached balance.
	report, err := NewService(store, signer).Reconcile(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
	assert.Equal(t, int64(0), report.ComputedBalance)
}

func TestReconcileFlagsBadSignatures(t *testing.T) {
	svc, store, _ := newFixture(t)
	w := seedWallet(t, svc)
	ctx := context.Background()

	_, err := svc.Credit(ctx, wallet.CreditParams{WalletID: w.ID, Amount: 500, ReferenceID: "S1"})
	require.NoError(t, err)

	// Auditing with a different key treats every row as tampered.
	otherSigner, err := sign.New([]byte("some-other-key"))
	require.NoError(t, err)

	report, err := NewService(store, otherSigner).Reconcile(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, report.TamperedRefs)
	assert.True(t, report.Balanced, "signature drift does not touch balances")
}

func TestReconcileUnknownWallet(t *testing.T) {
	_, store, signer := newFixture(t)

	_, err := NewService(store, signer).Reconcile(context.Background(), 99)
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}
