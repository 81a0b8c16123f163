// Package reconcile recomputes cached wallet balances from the ledger and
// repairs divergence. The ledger itself is never mutated here; only the
// denormalized balance on the wallet row.
package reconcile

import (
	"context"

	"centime/internal/repositories"
	"centime/internal/sign"
)

// Report describes one reconciliation pass over a wallet.
type Report struct {
	WalletID        uint     `json:"wallet_id"`
	CachedBalance   int64    `json:"cached_balance"`
	ComputedBalance int64    `json:"computed_balance"`
	Balanced        bool     `json:"balanced"`
	Repaired        bool     `json:"repaired"`
	TamperedRefs    []string `json:"tampered_refs,omitempty"`
}

// Service audits and repairs wallet balances.
type Service struct {
	store  repositories.LedgerStore
	signer *sign.Signer
}

// NewService builds the reconciler. The signer is optional; without it the
// signature audit is skipped.
func NewService(store repositories.LedgerStore, signer *sign.Signer) *Service {
	if store == nil {
		panic("store is required")
	}
	return &Service{store: store, signer: signer}
}

// Reconcile replays the wallet's ledger, compares the applied net sum to the
// cached balance and overwrites the cache when they diverge. It runs under
// the wallet lock so it cannot race a concurrent credit or debit. The report
// says whether the wallet was already balanced and lists any rows whose
// signature no longer matches their fields.
func (s *Service) Reconcile(ctx context.Context, walletID uint) (Report, error) {
	report := Report{WalletID: walletID}

	err := s.store.ExecuteInTransaction(func(stx repositories.LedgerStore) error {
		wallet, err := stx.LockWallet(walletID)
		if err != nil {
			return err
		}

		computed, err := stx.SumAppliedNet(ctx, walletID)
		if err != nil {
			return err
		}

		report.CachedBalance = wallet.Balance
		report.ComputedBalance = computed
		report.Balanced = wallet.Balance == computed

		if s.signer != nil {
			txns, err := stx.ListTransactions(ctx, repositories.TransactionFilter{WalletID: walletID})
			if err != nil {
				return err
			}
			for i := range txns {
				if !s.signer.Verify(&txns[i]) {
					report.TamperedRefs = append(report.TamperedRefs, txns[i].ReferenceID)
				}
			}
		}

		if !report.Balanced {
			if err := stx.UpdateWalletBalance(walletID, computed); err != nil {
				return err
			}
			report.Repaired = true
		}
		return nil
	})
	if err != nil {
		return Report{WalletID: walletID}, err
	}
	return report, nil
}
