package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"centime/internal/models"
	"centime/internal/money"
	"centime/internal/repositories"
	"centime/internal/services/fee"
	"centime/internal/sign"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type service struct {
	store   repositories.LedgerStore
	fees    *fee.Engine
	signer  *sign.Signer
	cache   Cache
	config  Config
	metrics MetricsCollector
}

// NewService creates the balance manager. The cache is optional; metrics
// defaults to a no-op collector.
func NewService(
	store repositories.LedgerStore,
	fees *fee.Engine,
	signer *sign.Signer,
	cache Cache,
	config Config,
	metrics MetricsCollector,
) Service {
	if store == nil {
		panic("store is required")
	}
	if fees == nil {
		panic("fee engine is required")
	}
	if signer == nil {
		panic("signer is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "USD"
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		fees:    fees,
		signer:  signer,
		cache:   cache,
		config:  config,
		metrics: metrics,
	}
}

// GetOrCreateWallet looks a wallet up by owner and currency and provisions
// an empty one on first access.
func (s *service) GetOrCreateWallet(ctx context.Context, owner OwnerRef) (*models.Wallet, error) {
	if owner.OwnerID == "" || owner.OwnerType == "" {
		return nil, fmt.Errorf("%w: owner reference is incomplete", ErrInvalidOperation)
	}
	currency := owner.Currency
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	if !money.IsSupported(currency) {
		return nil, ErrInvalidCurrency
	}

	existing, err := s.store.GetWalletByOwner(owner.OwnerID, owner.OwnerType, currency)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, classify(err)
	}

	created := &models.Wallet{
		OwnerID:   owner.OwnerID,
		OwnerType: owner.OwnerType,
		Currency:  currency,
	}
	if err := s.store.CreateWallet(created); err != nil {
		return nil, classify(err)
	}
	if s.cache != nil {
		_ = s.cache.SetWallet(ctx, created)
	}
	return created, nil
}

func (s *service) GetWallet(ctx context.Context, walletID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetWallet(ctx, walletID); err == nil {
			return cached, nil
		}
	}

	wallet, err := s.store.GetWallet(walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, classify(err)
	}

	if s.cache != nil {
		_ = s.cache.SetWallet(ctx, wallet)
	}
	return wallet, nil
}

func (s *service) GetBalance(ctx context.Context, walletID uint) (money.Money, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return money.Money{}, err
	}
	return money.New(wallet.Balance, wallet.Currency)
}

// validateReference rejects caller-supplied reference ids containing the
// reserved separator. Derived rows (transfer legs, refunds) extend a
// reference with a ":"-suffixed tag, so allowing ":" in caller references
// would let them collide with rows the service derives later.
func validateReference(referenceID string) error {
	if strings.Contains(referenceID, ":") {
		return fmt.Errorf("%w: reference_id must not contain ':'", ErrInvalidOperation)
	}
	return nil
}

func (s *service) Credit(ctx context.Context, params CreditParams) (*models.Transaction, error) {
	if err := validateReference(params.ReferenceID); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(func(stx repositories.LedgerStore) error {
		var err error
		txn, err = s.applyLeg(stx, legInput{
			walletID:    params.WalletID,
			txType:      models.TransactionTypeCredit,
			amount:      params.Amount,
			currency:    params.Currency,
			referenceID: params.ReferenceID,
			description: params.Description,
			metadata:    params.Metadata,
			processor:   params.Processor,
		})
		return err
	})
	if err != nil {
		err = classify(err)
		s.metrics.RecordError("credit", err.Error())
		return nil, err
	}

	s.finish(ctx, txn)
	return txn, nil
}

func (s *service) Debit(ctx context.Context, params DebitParams) (*models.Transaction, error) {
	if err := validateReference(params.ReferenceID); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(func(stx repositories.LedgerStore) error {
		var err error
		txn, err = s.applyLeg(stx, legInput{
			walletID:    params.WalletID,
			txType:      models.TransactionTypeDebit,
			amount:      params.Amount,
			currency:    params.Currency,
			referenceID: params.ReferenceID,
			description: params.Description,
			metadata:    params.Metadata,
		})
		return err
	})
	if err != nil {
		err = classify(err)
		s.metrics.RecordError("debit", err.Error())
		return nil, err
	}

	s.finish(ctx, txn)
	return txn, nil
}

// Transfer moves funds between two wallets as one atomic unit. Both rows are
// locked in ascending id order before either leg runs, so two concurrent
// opposite-direction transfers cannot deadlock. If either leg fails, neither
// is applied.
func (s *service) Transfer(ctx context.Context, params TransferParams) (*TransferResult, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if params.FromWalletID == 0 || params.ToWalletID == 0 {
		return nil, fmt.Errorf("%w: both wallet ids are required", ErrInvalidOperation)
	}
	if params.FromWalletID == params.ToWalletID {
		return nil, fmt.Errorf("%w: cannot transfer to the same wallet", ErrInvalidOperation)
	}
	if err := validateReference(params.ReferenceID); err != nil {
		return nil, err
	}

	baseRef := params.ReferenceID
	if baseRef == "" {
		baseRef = uuid.NewString()
	}
	transferID := uuid.NewString()

	result := &TransferResult{}
	err := s.store.ExecuteInTransaction(func(stx repositories.LedgerStore) error {
		first, second := params.FromWalletID, params.ToWalletID
		if second < first {
			first, second = second, first
		}
		if _, err := stx.LockWallet(first); err != nil {
			return err
		}
		if _, err := stx.LockWallet(second); err != nil {
			return err
		}

		from, err := stx.GetWallet(params.FromWalletID)
		if err != nil {
			return err
		}

		outgoing, err := s.applyLeg(stx, legInput{
			walletID:    params.FromWalletID,
			txType:      models.TransactionTypeTransferOut,
			amount:      params.Amount,
			currency:    from.Currency,
			referenceID: baseRef + ":out",
			description: params.Description,
			metadata:    transferMeta(params.Metadata, transferID, params.ToWalletID),
		})
		if err != nil {
			return err
		}

		// The incoming leg carries the source currency; a destination wallet
		// in another currency fails the whole unit.
		incoming, err := s.applyLeg(stx, legInput{
			walletID:    params.ToWalletID,
			txType:      models.TransactionTypeTransferIn,
			amount:      params.Amount,
			currency:    from.Currency,
			referenceID: baseRef + ":in",
			description: params.Description,
			metadata:    transferMeta(params.Metadata, transferID, params.FromWalletID),
		})
		if err != nil {
			return err
		}

		result.Outgoing = outgoing
		result.Incoming = incoming
		return nil
	})
	if err != nil {
		err = classify(err)
		s.metrics.RecordError("transfer", err.Error())
		return nil, err
	}

	s.finish(ctx, result.Outgoing, result.Incoming)
	return result, nil
}

// Refund reverses the transaction identified by reference: a REFUND row with
// the opposite net amount is written, and the original's status moves to
// REVERSED. A second refund of the same reference is rejected.
func (s *service) Refund(ctx context.Context, params RefundParams) (*models.Transaction, error) {
	if params.ReferenceID == "" {
		return nil, ErrTransactionNotFound
	}

	var refund *models.Transaction
	err := s.store.ExecuteInTransaction(func(stx repositories.LedgerStore) error {
		original, err := stx.GetTransactionByReference(params.ReferenceID)
		if err != nil {
			return err
		}

		wallet, err := stx.LockWallet(original.WalletID)
		if err != nil {
			return err
		}

		// Re-read under the lock; a concurrent refund may have won the race.
		original, err = stx.GetTransactionByReference(params.ReferenceID)
		if err != nil {
			return err
		}
		switch original.Status {
		case models.TransactionStatusCompleted:
		case models.TransactionStatusReversed:
			return ErrAlreadyReversed
		default:
			return ErrTransactionNotFound
		}

		description := params.Description
		if description == "" {
			description = "Refund of " + original.ReferenceID
		}
		meta := map[string]interface{}{"refunded_reference": original.ReferenceID}
		for k, v := range params.Metadata {
			meta[k] = v
		}

		parentID := original.ID
		refund = &models.Transaction{
			WalletID:            wallet.ID,
			Type:                models.TransactionTypeRefund,
			Amount:              original.Amount,
			NetAmount:           -original.NetAmount,
			Currency:            original.Currency,
			BalanceBefore:       wallet.Balance,
			BalanceAfter:        wallet.Balance - original.NetAmount,
			ReferenceID:         original.ReferenceID + ":refund",
			ParentTransactionID: &parentID,
			Status:              models.TransactionStatusCompleted,
			Description:         description,
			Metadata:            datatypes.JSONMap(meta),
		}
		if refund.Signature, err = s.signer.Sign(refund); err != nil {
			return err
		}
		if err := stx.CreateTransaction(refund); err != nil {
			return err
		}
		if err := stx.UpdateWalletBalance(wallet.ID, refund.BalanceAfter); err != nil {
			return err
		}
		return stx.MarkTransactionReversed(original.ID)
	})
	if err != nil {
		err = classify(err)
		s.metrics.RecordError("refund", err.Error())
		return nil, err
	}

	s.finish(ctx, refund)
	return refund, nil
}

// legInput drives one ledger posting inside an open atomic unit.
type legInput struct {
	walletID    uint
	txType      string
	amount      int64
	currency    string
	referenceID string
	description string
	metadata    map[string]interface{}
	processor   *ProcessorInfo
}

// applyLeg performs the full read-modify-write for one posting: lock the
// wallet, validate, assess fees, write the signed transaction row and update
// the cached balance. It must only be called inside ExecuteInTransaction.
func (s *service) applyLeg(stx repositories.LedgerStore, in legInput) (*models.Transaction, error) {
	if in.amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wallet, err := stx.LockWallet(in.walletID)
	if err != nil {
		return nil, err
	}

	currency := in.currency
	if currency == "" {
		currency = wallet.Currency
	}
	if currency != wallet.Currency {
		return nil, ErrCurrencyMismatch
	}
	amount, err := money.New(in.amount, currency)
	if err != nil {
		return nil, err
	}

	// Pre-check the reference inside the unit; the unique index on
	// reference_id is the backstop against concurrent submissions.
	if in.referenceID == "" {
		in.referenceID = uuid.NewString()
	} else if _, err := stx.GetTransactionByReference(in.referenceID); err == nil {
		return nil, ErrDuplicateTransaction
	} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return nil, err
	}

	assessment, err := s.fees.Assess(in.txType, amount)
	if err != nil {
		return nil, err
	}

	// Availability is judged on the requested principal, not principal+fee.
	if !models.CreditDirection(in.txType) && wallet.Balance < in.amount {
		return nil, ErrInsufficientFunds
	}

	txn := &models.Transaction{
		WalletID:      wallet.ID,
		Type:          in.txType,
		Amount:        in.amount,
		Fee:           assessment.Fee.Amount(),
		NetAmount:     assessment.NetAmount,
		Currency:      currency,
		BalanceBefore: wallet.Balance,
		BalanceAfter:  wallet.Balance + assessment.NetAmount,
		ReferenceID:   in.referenceID,
		Status:        models.TransactionStatusCompleted,
		Description:   in.description,
		Metadata:      datatypes.JSONMap(in.metadata),
	}
	if in.processor != nil {
		txn.ProcessorName = in.processor.Name
		txn.ProcessorTxID = in.processor.TransactionID
	}
	if txn.Signature, err = s.signer.Sign(txn); err != nil {
		return nil, err
	}

	if err := stx.CreateTransaction(txn); err != nil {
		return nil, err
	}
	if err := stx.UpdateWalletBalance(wallet.ID, txn.BalanceAfter); err != nil {
		return nil, err
	}
	return txn, nil
}

// finish runs post-commit bookkeeping: cache invalidation and metrics.
func (s *service) finish(ctx context.Context, txns ...*models.Transaction) {
	for _, txn := range txns {
		if txn == nil {
			continue
		}
		if s.cache != nil {
			_ = s.cache.InvalidateWallet(ctx, txn.WalletID)
		}
		s.metrics.RecordTransaction(txn.Type, txn.Amount)
		s.metrics.RecordBalanceChange(txn.WalletID, txn.BalanceBefore, txn.BalanceAfter)
	}
}

func transferMeta(base map[string]interface{}, transferID string, counterpart uint) map[string]interface{} {
	meta := map[string]interface{}{
		"transfer_id":           transferID,
		"counterpart_wallet_id": counterpart,
	}
	for k, v := range base {
		meta[k] = v
	}
	return meta
}
