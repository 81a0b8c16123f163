// Package routes wires handlers to HTTP paths. Construction of services
// happens in cmd/server; this package only maps the surface.
package routes

import (
	"centime/internal/gateway"
	"centime/internal/handlers"
	"centime/internal/middleware"
	"centime/internal/services/ledger"
	"centime/internal/services/reconcile"
	"centime/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
)

// Deps carries the constructed services the routes depend on.
type Deps struct {
	Wallets    wallet.Service
	Ledger     *ledger.Service
	Reconciler *reconcile.Service
	Charger    gateway.CardCharger
	Cache      handlers.Pinger
	JWTSecret  string
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	walletHandler := handlers.NewWalletHandler(deps.Wallets, deps.Charger)
	txnHandler := handlers.NewTransactionHandler(deps.Wallets, deps.Ledger, deps.Charger)
	adminHandler := handlers.NewAdminHandler(deps.Reconciler)
	healthHandler := handlers.NewHealthHandler(deps.Cache)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTSecret)
	protected := api.Use(authMiddleware.Handler)

	wallets := protected.Group("/wallets")
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Get("/:id/balance", walletHandler.GetBalance)
	wallets.Get("/:id/transactions", txnHandler.ListTransactions)
	wallets.Post("/topup", walletHandler.TopUpWallet)

	txns := protected.Group("/transactions")
	txns.Post("/credit", txnHandler.Credit)
	txns.Post("/debit", txnHandler.Debit)
	txns.Post("/transfer", txnHandler.Transfer)
	txns.Post("/refund", txnHandler.Refund)
	txns.Get("/:reference", txnHandler.GetByReference)

	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Post("/wallets/:id/reconcile", adminHandler.ReconcileWallet)
}
