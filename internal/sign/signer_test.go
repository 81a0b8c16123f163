package sign

import (
	"testing"

	"centime/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	signer, err := New([]byte("test-signing-key"))
	require.NoError(t, err)

	txn := &models.Transaction{
		WalletID:      1,
		Type:          models.TransactionTypeCredit,
		Amount:        10000,
		NetAmount:     10000,
		Currency:      "USD",
		BalanceBefore: 0,
		BalanceAfter:  10000,
		ReferenceID:   "R1",
	}

	sig, err := signer.Sign(txn)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	txn.Signature = sig
	assert.True(t, signer.Verify(txn))
}

func TestVerifyDetectsTampering(t *testing.T) {
	signer, err := New([]byte("test-signing-key"))
	require.NoError(t, err)

	txn := &models.Transaction{
		WalletID:    1,
		Type:        models.TransactionTypeCredit,
		Amount:      10000,
		NetAmount:   10000,
		Currency:    "USD",
		ReferenceID: "R1",
	}
	txn.Signature, err = signer.Sign(txn)
	require.NoError(t, err)

	txn.NetAmount = 20000
	assert.False(t, signer.Verify(txn))
}

func TestVerifySurvivesStatusChange(t *testing.T) {
	signer, err := New([]byte("test-signing-key"))
	require.NoError(t, err)

	txn := &models.Transaction{
		WalletID:    2,
		Type:        models.TransactionTypeCredit,
		Amount:      500,
		NetAmount:   500,
		Currency:    "USD",
		ReferenceID: "R2",
		Status:      models.TransactionStatusCompleted,
	}
	txn.Signature, err = signer.Sign(txn)
	require.NoError(t, err)

	txn.Status = models.TransactionStatusReversed
	assert.True(t, signer.Verify(txn))
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = New(make([]byte, 65))
	assert.ErrorIs(t, err, ErrInvalidKey)
}
