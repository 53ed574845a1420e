// Package main is the entry point for the wallet API server. It wires
// the database, cache, price oracle, payment gateway and transfer
// engine, then serves HTTP until interrupted.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptopay/internal/config"
	"cryptopay/internal/metrics"
	"cryptopay/internal/repositories"
	"cryptopay/internal/repositories/cache"
	"cryptopay/internal/routes"
	"cryptopay/internal/services/auth"
	"cryptopay/internal/services/gateway"
	"cryptopay/internal/services/oracle"
	"cryptopay/internal/services/transfer"
	"cryptopay/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
	}()
	ledger := repositories.NewPostgresLedger(db)

	// Redis is optional; the oracle degrades to its in-process cache.
	var cacheService *cache.Service
	if host := config.GetEnv("REDIS_HOST", ""); host != "" {
		client := cache.NewClient(&cache.Config{
			Host:     host,
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		cacheService = cache.NewService(client, config.GetDurationEnv("REDIS_DEFAULT_TTL", time.Minute))
		defer cacheService.Close()
	}

	sourceTimeout := config.GetDurationEnv("PRICE_SOURCE_TIMEOUT", 5*time.Second)
	priceOracle := oracle.NewService([]oracle.Source{
		oracle.NewBinanceSource(config.GetEnv("BINANCE_API_KEY", ""), sourceTimeout),
		oracle.NewCoinGeckoSource(sourceTimeout),
	}, cacheService, oracle.Config{
		CacheTTL:    config.GetDurationEnv("PRICE_CACHE_TTL", time.Minute),
		MinInterval: config.GetDurationEnv("PRICE_MIN_INTERVAL", 2*time.Second),
	})

	gw, err := gateway.New(gateway.Config{
		Kind:                gateway.Kind(config.GetEnv("GATEWAY_KIND", "simulated")),
		StripeAPIKey:        config.GetEnv("STRIPE_API_KEY", ""),
		StripeWebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
		WebhookSecret:       config.GetEnv("GATEWAY_WEBHOOK_SECRET", "dev-webhook-secret"),
		CompletionDelay:     config.GetDurationEnv("GATEWAY_COMPLETION_DELAY", 5*time.Second),
	})
	if err != nil {
		log.Fatalf("failed to initialize payment gateway: %v", err)
	}

	engine := transfer.NewService(ledger, priceOracle, gw, transfer.Config{
		DepositFeeRate:    decimal.NewFromFloat(config.GetFloatEnv("DEPOSIT_FEE_RATE", 0.02)),
		WithdrawalFeeRate: decimal.NewFromFloat(config.GetFloatEnv("WITHDRAWAL_FEE_RATE", 0.01)),
		DefaultCurrency:   config.GetEnv("DEFAULT_CURRENCY", "INR"),
		ExternalTimeout:   config.GetDurationEnv("EXTERNAL_TIMEOUT", 10*time.Second),
	}, metrics.NewCollector())

	authService := auth.NewService(ledger, auth.Config{
		JWTSecret: config.GetEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  config.GetDurationEnv("TOKEN_TTL", 24*time.Hour),
	})

	// Consume asynchronous payout completions when the gateway emits them.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if notifier, ok := gw.(gateway.CompletionNotifier); ok {
		go worker.NewCompletionWorker(notifier, engine).Run(workerCtx)
	}

	app := fiber.New(fiber.Config{
		AppName:      "cryptopay",
		ReadTimeout:  config.GetDurationEnv("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: config.GetDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/v1/auth", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("AUTH_RATE_LIMIT", 20),
		Expiration: time.Minute,
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:              db,
		Ledger:          ledger,
		AuthService:     authService,
		Engine:          engine,
		Oracle:          priceOracle,
		DefaultCurrency: config.GetEnv("DEFAULT_CURRENCY", "INR"),
	})

	go func() {
		addr := ":" + config.GetEnv("PORT", "8080")
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	stopWorker()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}
