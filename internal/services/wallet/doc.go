/*
Package wallet implements the balance manager: the single write path for
wallet balances.

Every mutating operation (credit, debit, both legs of a transfer, refund)
runs inside one atomic unit against the ledger store. The unit locks the
wallet rows involved, writes a signed transaction row with balance
snapshots, and updates the cached balance, or commits nothing at all.
Duplicate submissions are rejected through the reference_id idempotency key,
enforced by a unique index so simultaneous retries cannot both land.

Usage:

	svc := wallet.NewService(store, feeEngine, signer, cache, wallet.Config{}, nil)

	w, err := svc.GetOrCreateWallet(ctx, wallet.OwnerRef{
	    OwnerID:   "u-42",
	    OwnerType: models.OwnerTypeUser,
	    Currency:  "USD",
	})

	txn, err := svc.Credit(ctx, wallet.CreditParams{
	    WalletID:    w.ID,
	    Amount:      10000,
	    ReferenceID: "order-1881",
	})

Error handling:

The operations return sentinel error kinds: ErrInvalidAmount,
ErrCurrencyMismatch, ErrInsufficientFunds, ErrDuplicateTransaction,
ErrTransactionNotFound, ErrAlreadyReversed and ErrUnavailable. Any of the
first six implies zero effect on stored data; ErrUnavailable wraps transient
store failures and the caller may retry with the same reference id.

Debit fee policy:

The insufficient-funds check judges the requested principal only, and under
the default policy a debit's net effect is exactly -amount with the fee
recorded informationally on the row. Deployments that want the fee taken
from the balance configure fee.DebitFeeGross on the fee engine.
*/
package wallet
