package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"givehub-backend/internal/config"
	"givehub-backend/internal/jobs"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository/postgres"
	"givehub-backend/internal/scheduler"
	"givehub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reap-expired-offers', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GiveHub Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services. The recovery sweep settles missed deliveries, so
	// it needs the full earning service including notifications.
	emailSender := service.NewSendGridSender(
		cfg.Email.SendGridAPIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)
	dispatcher := service.NewDispatcher(store.NotificationRepository, store.UserRepository, emailSender)
	dispatcher.Start()
	defer dispatcher.Stop()

	policy := service.NewCommissionPolicy(store.CommissionRepository, store.UserRepository)
	earningSvc := service.NewEarningService(
		store.EarningRepository,
		store.UserRepository,
		policy,
		dispatcher,
		cfg.Payout.MinimumCents,
		cfg.Payout.DailyCapCents,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, earningSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "reap-expired-offers":
		jobRunner.ReapExpiredOffers()
	case "release-cleared-earnings":
		jobRunner.ReleaseClearedEarnings()
	case "recover-unsettled-deliveries":
		jobRunner.RecoverUnsettledDeliveries()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - reap-expired-offers\n")
		fmt.Printf("  - release-cleared-earnings\n")
		fmt.Printf("  - recover-unsettled-deliveries\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
