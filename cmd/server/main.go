// Package main is the entry point for the ledger API server. It wires the
// store, cache, fee engine, signer and services, then serves HTTP.
package main

import (
	"log"
	"time"

	"centime/internal/config"
	"centime/internal/gateway"
	"centime/internal/repositories"
	"centime/internal/repositories/cache"
	"centime/internal/routes"
	"centime/internal/services/fee"
	"centime/internal/services/ledger"
	"centime/internal/services/reconcile"
	"centime/internal/services/wallet"
	"centime/internal/sign"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	db, err := repositories.Connect(cfg.DatabaseDSN, repositories.PoolConfig{
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("failed to close database connection: %v", err)
		}
	}()
	log.Println("connected to database")

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("failed to close redis connection: %v", err)
		}
	}()
	walletCache := cache.NewWalletCache(redisClient, 5*time.Minute)

	signer, err := sign.New([]byte(cfg.SigningKey))
	if err != nil {
		log.Fatalf("invalid signing key: %v", err)
	}

	store := repositories.NewGormStore(db)
	feeRules := repositories.NewFeeRuleRepository(db)

	feePolicy := fee.DebitFeePrincipal
	if cfg.DebitFeeGross {
		feePolicy = fee.DebitFeeGross
	}
	feeEngine := fee.NewEngine(feeRules, fee.Config{DebitPolicy: feePolicy})

	walletService := wallet.NewService(store, feeEngine, signer, walletCache,
		wallet.Config{DefaultCurrency: cfg.DefaultCurrency}, nil)
	ledgerService := ledger.NewService(store)
	reconciler := reconcile.NewService(store, signer)

	var charger gateway.CardCharger
	if cfg.StripeSecretKey != "" {
		charger = gateway.NewStripeGateway(cfg.StripeSecretKey)
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/transactions", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Deps{
		Wallets:    walletService,
		Ledger:     ledgerService,
		Reconciler: reconciler,
		Charger:    charger,
		Cache:      walletCache,
		JWTSecret:  cfg.JWTSecret,
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
