// Package main provides the API server entry point for the finance
// dashboard service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/finance-dashboard/internal/api"
	"github.com/finance-dashboard/internal/auth"
	"github.com/finance-dashboard/internal/config"
	"github.com/finance-dashboard/internal/logging"
	"github.com/finance-dashboard/internal/market"
	"github.com/finance-dashboard/internal/service"
	"github.com/finance-dashboard/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logLevel := logging.ParseLogLevel(cfg.Logging.Level)
	logFormat := logging.ParseLogFormat(cfg.Logging.Format)
	logging.InitGlobalLogger(logLevel, logFormat)

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	// Initialize database connections
	logger.Info("Connecting to databases...")

	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	redis, err := storage.NewRedisCache(&cfg.Database.Redis)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redis.Close()

	logger.Info("Database connections established")

	// Optionally apply pending migrations on startup
	if cfg.Database.Postgres.AutoMigrate {
		logger.Info("Applying database migrations...")
		if err := storage.RunMigrations(&cfg.Database.Postgres); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(postgres)
	accountRepo := storage.NewAccountRepository(postgres)
	transactionRepo := storage.NewTransactionRepository(postgres)
	portfolioRepo := storage.NewPortfolioRepository(postgres)

	// Market data client with a Redis-backed price cache
	priceCache := storage.NewPriceCache(redis, cfg.Market.PriceCacheTTL)
	prices := market.NewCachedProvider(market.NewClient(&cfg.Market), priceCache)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	// Initialize services
	logger.Info("Initializing services...")

	userService := service.NewUserService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	accountService := service.NewAccountService(accountRepo)
	transactionService := service.NewTransactionService(postgres, transactionRepo, accountRepo, accountRepo)
	ingestService := service.NewIngestService(postgres, transactionRepo, accountRepo, accountRepo, logger)
	investmentService := service.NewInvestmentService(portfolioRepo, prices, logger)
	dashboardService := service.NewDashboardService(accountRepo, transactionRepo)

	logger.Info("Services initialized")

	serverConfig := &api.ServerConfig{
		Host:                  cfg.Server.Host,
		Port:                  cfg.Server.Port,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		ShutdownTimeout:       cfg.Server.ShutdownTimeout,
		AuthRequestsPerMinute: cfg.RateLimit.AuthRequestsPerMinute,
		AuthBurst:             cfg.RateLimit.AuthBurst,
	}

	server := api.NewServer(
		serverConfig,
		userService,
		accountService,
		transactionService,
		ingestService,
		investmentService,
		dashboardService,
		tokens,
	)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
