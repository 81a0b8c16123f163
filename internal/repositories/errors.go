package repositories

import "errors"

var (
	// ErrWalletNotFound is returned when no wallet exists for the lookup key.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTransactionNotFound is returned when no transaction matches the
	// reference or id.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransaction is returned when a transaction with the same
	// reference_id already exists. The unique index enforces this even under
	// simultaneous retries.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrUnavailable wraps transient store failures. Callers may retry with
	// the same reference_id; idempotency makes the retry safe.
	ErrUnavailable = errors.New("store unavailable")
)
