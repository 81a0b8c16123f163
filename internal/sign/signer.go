// Package sign produces keyed signatures over ledger rows so tampering with
// stored transactions is detectable during reconciliation audits.
package sign

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"centime/internal/models"

	"golang.org/x/crypto/blake2b"
)

// ErrInvalidKey is returned for an empty or oversized signing key.
var ErrInvalidKey = errors.New("invalid signing key")

// Signer computes keyed BLAKE2b-256 MACs over the immutable economic fields
// of a transaction. Status is excluded: COMPLETED -> REVERSED is the one
// permitted mutation and must not break the signature.
type Signer struct {
	key []byte
}

func New(key []byte) (*Signer, error) {
	if len(key) == 0 || len(key) > 64 {
		return nil, ErrInvalidKey
	}
	return &Signer{key: key}, nil
}

// Sign returns the hex signature for the transaction's immutable fields.
func (s *Signer) Sign(txn *models.Transaction) (string, error) {
	mac, err := blake2b.New256(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to init mac: %w", err)
	}
	mac.Write(payload(txn))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether the stored signature matches the row's fields.
func (s *Signer) Verify(txn *models.Transaction) bool {
	expected, err := s.Sign(txn)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(txn.Signature)) == 1
}

func payload(txn *models.Transaction) []byte {
	return []byte(fmt.Sprintf("%d|%s|%d|%d|%d|%s|%d|%d|%s",
		txn.WalletID,
		txn.Type,
		txn.Amount,
		txn.Fee,
		txn.NetAmount,
		txn.Currency,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.ReferenceID,
	))
}
