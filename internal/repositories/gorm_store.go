package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"centime/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Connect opens a Postgres connection with error translation enabled so
// unique-index violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string, pool PoolConfig) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	return db, nil
}

// Migrate creates or updates the schema for the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Wallet{},
		&models.Transaction{},
		&models.FeeRule{},
	)
}

// GormStore is the Postgres-backed LedgerStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateWallet(wallet *models.Wallet) error {
	if err := s.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (s *GormStore) GetWallet(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (s *GormStore) GetWalletByOwner(ownerID, ownerType, currency string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.
		Where("owner_id = ? AND owner_type = ? AND currency = ?", ownerID, ownerType, currency).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by owner: %w", err)
	}
	return &wallet, nil
}

// LockWallet reads the wallet row FOR UPDATE. Outside a transaction the lock
// is released immediately, so balance-mutating callers must run this inside
// ExecuteInTransaction.
func (s *GormStore) LockWallet(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (s *GormStore) UpdateWalletBalance(id uint, balance int64) error {
	result := s.db.Model(&models.Wallet{}).Where("id = ?", id).Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (s *GormStore) CreateTransaction(txn *models.Transaction) error {
	if err := s.db.Create(txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (s *GormStore) GetTransactionByReference(referenceID string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Where("reference_id = ?", referenceID).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (s *GormStore) MarkTransactionReversed(id uint) error {
	result := s.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", models.TransactionStatusReversed)
	if result.Error != nil {
		return fmt.Errorf("failed to mark transaction reversed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ListTransactions returns ledger rows in creation order ascending, with the
// id as a tiebreaker so replay order is stable.
func (s *GormStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.WalletID != 0 {
		query = query.Where("wallet_id = ?", filter.WalletID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	query = query.Order("created_at ASC, id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// SumAppliedNet totals net_amount over every applied row for the wallet.
// FAILED rows never touched the balance and are excluded; REVERSED rows did,
// and their offsetting REFUND row is summed alongside them.
func (s *GormStore) SumAppliedNet(ctx context.Context, walletID uint) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("wallet_id = ? AND status <> ?", walletID, models.TransactionStatusFailed).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

// ExecuteInTransaction runs fn against a transactional view of the store.
// Row locks taken by LockWallet inside fn are held until commit.
func (s *GormStore) ExecuteInTransaction(fn func(LedgerStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
