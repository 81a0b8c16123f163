package wallet

import (
	"errors"

	"centime/internal/money"
	"centime/internal/repositories"
)

// Service errors. Money and store error kinds are re-exported so callers can
// match everything through this package.
var (
	ErrInvalidAmount        = money.ErrInvalidAmount
	ErrCurrencyMismatch     = money.ErrCurrencyMismatch
	ErrInvalidCurrency      = money.ErrInvalidCurrency
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDuplicateTransaction = repositories.ErrDuplicateTransaction
	ErrTransactionNotFound  = repositories.ErrTransactionNotFound
	ErrWalletNotFound       = repositories.ErrWalletNotFound
	ErrAlreadyReversed      = errors.New("transaction already reversed")
	ErrInvalidOperation     = errors.New("invalid operation")
	ErrUnavailable          = repositories.ErrUnavailable
)

// knownErrors are surfaced to callers as-is; anything else coming out of an
// atomic unit is treated as a transient store failure.
var knownErrors = []error{
	ErrInvalidAmount,
	ErrCurrencyMismatch,
	ErrInvalidCurrency,
	ErrInsufficientFunds,
	ErrDuplicateTransaction,
	ErrTransactionNotFound,
	ErrWalletNotFound,
	ErrAlreadyReversed,
	ErrInvalidOperation,
}

func classify(err error) error {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return errors.Join(ErrUnavailable, err)
}
