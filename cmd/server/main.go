package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "givehub-backend/internal/api/http"
	"givehub-backend/internal/config"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository/postgres"
	"givehub-backend/internal/security"
	"givehub-backend/internal/service"
	"givehub-backend/internal/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GiveHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Email Sender
	emailSender := service.NewSendGridSender(
		cfg.Email.SendGridAPIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	// Initialize Notification Dispatcher
	dispatcher := service.NewDispatcher(store.NotificationRepository, store.UserRepository, emailSender)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Initialize Payment Gateway
	gateway := service.NewPaymentGateway(
		cfg.Payment.BaseURL,
		time.Duration(cfg.Payment.TimeoutSeconds)*time.Second,
	)

	// Initialize Services
	policy := service.NewCommissionPolicy(store.CommissionRepository, store.UserRepository)
	itemSvc := service.NewItemService(store.ItemRepository)
	earningSvc := service.NewEarningService(
		store.EarningRepository,
		store.UserRepository,
		policy,
		dispatcher,
		cfg.Payout.MinimumCents,
		cfg.Payout.DailyCapCents,
	)
	offerSvc := service.NewOfferService(
		store.OfferRepository,
		store.ItemRepository,
		gateway,
		utils.Tariff{BaseFeeCents: cfg.Tariff.BaseFeeCents, PerKmCents: cfg.Tariff.PerKmCents},
		dispatcher,
	)
	deliverySvc := service.NewDeliveryService(
		store.DeliveryRepository,
		store.UserRepository,
		earningSvc,
		dispatcher,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Initialize HTTP handlers and router
	handlers := httpapi.NewHandlers(itemSvc, offerSvc, deliverySvc, earningSvc, policy, noteSvc)
	router := httpapi.NewRouter(handlers, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
