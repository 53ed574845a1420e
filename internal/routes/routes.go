// Package routes defines the API routing configuration: route groups,
// their handlers, and the middleware each group requires.
package routes

import (
	"cryptopay/internal/handlers"
	"cryptopay/internal/middleware"
	"cryptopay/internal/repositories"
	"cryptopay/internal/services/auth"
	"cryptopay/internal/services/oracle"
	"cryptopay/internal/services/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies carries the constructed services. main builds them once
// so the withdrawal worker can share the same engine and gateway.
type Dependencies struct {
	DB              *gorm.DB
	Ledger          repositories.LedgerStore
	AuthService     auth.Service
	Engine          transfer.Service
	Oracle          oracle.Service
	DefaultCurrency string
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	walletHandler := handlers.NewWalletHandler(deps.Ledger, deps.Oracle, deps.DefaultCurrency)
	paymentHandler := handlers.NewPaymentHandler(deps.Engine)
	transactionHandler := handlers.NewTransactionHandler(deps.Engine, deps.Ledger)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService)

	app.Use(middleware.Metrics)

	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	// Public routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/prices", walletHandler.GetPrices)
	api.Get("/prices/:symbol", walletHandler.GetPrice)

	// Gateway callback, authenticated by signature rather than JWT
	api.Post("/payments/webhook", paymentHandler.Webhook)

	// Authenticated routes
	authenticated := api.Group("/", authMiddleware.Handler)

	wallet := authenticated.Group("/wallet")
	wallet.Get("/balances", walletHandler.GetBalances)

	payments := authenticated.Group("/payments")
	payments.Post("/deposit", paymentHandler.CreateDeposit)
	payments.Post("/deposit/confirm", paymentHandler.ConfirmDeposit)

	transactions := authenticated.Group("/transactions")
	transactions.Get("/", transactionHandler.List)
	transactions.Post("/withdraw", transactionHandler.Withdraw)
	transactions.Get("/withdraw/:reference/status", transactionHandler.WithdrawalStatus)
	transactions.Post("/send-crypto", transactionHandler.SendCrypto)

	adminHandler := handlers.NewAdminHandler(deps.Ledger)
	admin := authenticated.Group("/admin", authMiddleware.AdminOnly)
	admin.Get("/accounts", adminHandler.ListAccounts)
	admin.Get("/reconciliation", adminHandler.ListReconciliation)
}
