package models

import (
	"time"

	"gorm.io/gorm"
)

// Owner types a wallet may belong to. The owner reference is polymorphic:
// (OwnerID, OwnerType) points at whichever entity the surrounding system
// tracks, not a foreign key into one table.
const (
	OwnerTypeUser     = "user"
	OwnerTypeMerchant = "merchant"
	OwnerTypeSystem   = "system"
)

// Wallet holds a denormalized balance cache for one owner and currency.
// Balance is minor units and is mutated only through the balance manager;
// the ledger remains the source of truth.
type Wallet struct {
	ID        uint   `gorm:"primarykey"`
	OwnerID   string `gorm:"type:varchar(64);not null;index:idx_wallets_owner"`
	OwnerType string `gorm:"type:varchar(32);not null;index:idx_wallets_owner"`
	Currency  string `gorm:"type:varchar(3);not null;default:'USD';index:idx_wallets_owner"`
	Balance   int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// Wallets always start empty; funds arrive through ledger postings.
	w.Balance = 0
	return nil
}
