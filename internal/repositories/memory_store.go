package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"centime/internal/models"
)

// MemoryStore is an in-process LedgerStore used by tests and local
// development. A single mutex stands in for row locking: every exported
// method takes it, and ExecuteInTransaction holds it for the whole unit while
// handing fn a transactional view, snapshotting the state up front and
// restoring it if fn fails, so a failed unit leaves no partial writes.
type MemoryStore struct {
	mu sync.Mutex

	wallets      map[uint]*models.Wallet
	transactions []*models.Transaction
	byReference  map[string]*models.Transaction

	nextWalletID      uint
	nextTransactionID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets:           make(map[uint]*models.Wallet),
		byReference:       make(map[string]*models.Transaction),
		nextWalletID:      1,
		nextTransactionID: 1,
	}
}

func (s *MemoryStore) CreateWallet(wallet *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createWallet(wallet)
}

func (s *MemoryStore) GetWallet(id uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getWallet(id)
}

func (s *MemoryStore) GetWalletByOwner(ownerID, ownerType, currency string) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getWalletByOwner(ownerID, ownerType, currency)
}

// LockWallet outside a transaction is a plain read; the transaction mutex is
// the lock, mirroring how GormStore's FOR UPDATE only pins rows inside one.
func (s *MemoryStore) LockWallet(id uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getWallet(id)
}

func (s *MemoryStore) UpdateWalletBalance(id uint, balance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateWalletBalance(id, balance)
}

func (s *MemoryStore) CreateTransaction(txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createTransaction(txn)
}

func (s *MemoryStore) GetTransactionByReference(referenceID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getTransactionByReference(referenceID)
}

func (s *MemoryStore) MarkTransactionReversed(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markTransactionReversed(id)
}

func (s *MemoryStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listTransactions(filter)
}

func (s *MemoryStore) SumAppliedNet(_ context.Context, walletID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumAppliedNet(walletID), nil
}

// ExecuteInTransaction holds the store mutex for the whole unit and runs fn
// against a transactional view, so concurrent callers serialize the same way
// row locks serialize them on Postgres.
func (s *MemoryStore) ExecuteInTransaction(fn func(LedgerStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(&memoryTx{store: s}); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

// memoryTx is the transactional view handed to ExecuteInTransaction's fn.
// The store mutex is already held for the whole unit, so its methods touch
// state directly.
type memoryTx struct {
	store *MemoryStore
}

func (t *memoryTx) CreateWallet(wallet *models.Wallet) error {
	return t.store.createWallet(wallet)
}

func (t *memoryTx) GetWallet(id uint) (*models.Wallet, error) {
	return t.store.getWallet(id)
}

func (t *memoryTx) GetWalletByOwner(ownerID, ownerType, currency string) (*models.Wallet, error) {
	return t.store.getWalletByOwner(ownerID, ownerType, currency)
}

func (t *memoryTx) LockWallet(id uint) (*models.Wallet, error) {
	return t.store.getWallet(id)
}

func (t *memoryTx) UpdateWalletBalance(id uint, balance int64) error {
	return t.store.updateWalletBalance(id, balance)
}

func (t *memoryTx) CreateTransaction(txn *models.Transaction) error {
	return t.store.createTransaction(txn)
}

func (t *memoryTx) GetTransactionByReference(referenceID string) (*models.Transaction, error) {
	return t.store.getTransactionByReference(referenceID)
}

func (t *memoryTx) MarkTransactionReversed(id uint) error {
	return t.store.markTransactionReversed(id)
}

func (t *memoryTx) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	return t.store.listTransactions(filter)
}

func (t *memoryTx) SumAppliedNet(_ context.Context, walletID uint) (int64, error) {
	return t.store.sumAppliedNet(walletID), nil
}

// ExecuteInTransaction on the view joins the open unit.
func (t *memoryTx) ExecuteInTransaction(fn func(LedgerStore) error) error {
	return fn(t)
}

func (s *MemoryStore) createWallet(wallet *models.Wallet) error {
	wallet.ID = s.nextWalletID
	s.nextWalletID++
	wallet.Balance = 0
	now := time.Now().UTC()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	stored := *wallet
	s.wallets[wallet.ID] = &stored
	return nil
}

func (s *MemoryStore) getWallet(id uint) (*models.Wallet, error) {
	wallet, ok := s.wallets[id]
	if !ok {
		return nil, ErrWalletNotFound
	}
	copied := *wallet
	return &copied, nil
}

func (s *MemoryStore) getWalletByOwner(ownerID, ownerType, currency string) (*models.Wallet, error) {
	for _, wallet := range s.wallets {
		if wallet.OwnerID == ownerID && wallet.OwnerType == ownerType && wallet.Currency == currency {
			copied := *wallet
			return &copied, nil
		}
	}
	return nil, ErrWalletNotFound
}

func (s *MemoryStore) updateWalletBalance(id uint, balance int64) error {
	wallet, ok := s.wallets[id]
	if !ok {
		return ErrWalletNotFound
	}
	wallet.Balance = balance
	wallet.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) createTransaction(txn *models.Transaction) error {
	if _, exists := s.byReference[txn.ReferenceID]; exists {
		return ErrDuplicateTransaction
	}

	txn.ID = s.nextTransactionID
	s.nextTransactionID++
	txn.CreatedAt = time.Now().UTC()

	stored := *txn
	s.transactions = append(s.transactions, &stored)
	s.byReference[stored.ReferenceID] = &stored
	return nil
}

func (s *MemoryStore) getTransactionByReference(referenceID string) (*models.Transaction, error) {
	txn, ok := s.byReference[referenceID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (s *MemoryStore) markTransactionReversed(id uint) error {
	for _, txn := range s.transactions {
		if txn.ID == id {
			txn.Status = models.TransactionStatusReversed
			return nil
		}
	}
	return ErrTransactionNotFound
}

func (s *MemoryStore) listTransactions(filter TransactionFilter) ([]models.Transaction, error) {
	var matched []models.Transaction
	for _, txn := range s.transactions {
		if filter.WalletID != 0 && txn.WalletID != filter.WalletID {
			continue
		}
		if filter.Type != "" && txn.Type != filter.Type {
			continue
		}
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		if filter.From != nil && txn.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && txn.CreatedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, *txn)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) sumAppliedNet(walletID uint) int64 {
	var total int64
	for _, txn := range s.transactions {
		if txn.WalletID == walletID && txn.Status != models.TransactionStatusFailed {
			total += txn.NetAmount
		}
	}
	return total
}

type memorySnapshot struct {
	wallets           map[uint]*models.Wallet
	transactions      []*models.Transaction
	nextWalletID      uint
	nextTransactionID uint
}

func (s *MemoryStore) snapshot() memorySnapshot {
	wallets := make(map[uint]*models.Wallet, len(s.wallets))
	for id, wallet := range s.wallets {
		copied := *wallet
		wallets[id] = &copied
	}
	transactions := make([]*models.Transaction, len(s.transactions))
	for i, txn := range s.transactions {
		copied := *txn
		transactions[i] = &copied
	}
	return memorySnapshot{
		wallets:           wallets,
		transactions:      transactions,
		nextWalletID:      s.nextWalletID,
		nextTransactionID: s.nextTransactionID,
	}
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.wallets = snap.wallets
	s.transactions = snap.transactions
	s.nextWalletID = snap.nextWalletID
	s.nextTransactionID = snap.nextTransactionID
	s.byReference = make(map[string]*models.Transaction, len(snap.transactions))
	for _, txn := range snap.transactions {
		s.byReference[txn.ReferenceID] = txn
	}
}
