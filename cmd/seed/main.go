// Package main seeds the default fee rule configuration. Safe to run
// repeatedly; rules are upserted by scope.
package main

import (
	"log"

	"centime/internal/config"
	"centime/internal/models"
	"centime/internal/repositories"

	"github.com/shopspring/decimal"
)

func int64Ptr(v int64) *int64 { return &v }

func main() {
	config.LoadEnv()
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DatabaseDSN, repositories.PoolConfig{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("failed to close database connection: %v", err)
			}
		}
	}()

	rules := []models.FeeRule{
		{
			TransactionType: models.TransactionTypeCredit,
			Currency:        "USD",
			Kind:            models.FeeKindPercentage,
			Percent:         decimal.NewFromFloat(2.9),
			MinFee:          int64Ptr(30),
			Active:          true,
		},
		{
			TransactionType: models.TransactionTypeDebit,
			Currency:        "USD",
			Kind:            models.FeeKindFixed,
			FixedAmount:     25,
			Active:          true,
		},
		{
			TransactionType: models.TransactionTypeTransferOut,
			Currency:        "USD",
			Kind:            models.FeeKindTiered,
			FixedAmount:     10,
			Percent:         decimal.NewFromFloat(0.5),
			MaxFee:          int64Ptr(500),
			Active:          true,
		},
	}

	feeRules := repositories.NewFeeRuleRepository(db)
	for i := range rules {
		if err := feeRules.Upsert(&rules[i]); err != nil {
			log.Fatalf("failed to seed fee rule %s/%s: %v",
				rules[i].TransactionType, rules[i].Currency, err)
		}
		log.Printf("seeded fee rule %s/%s (%s)",
			rules[i].TransactionType, rules[i].Currency, rules[i].Kind)
	}

	log.Println("fee rules seeded")
}
