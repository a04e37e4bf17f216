package jobs

import (
	"givehub-backend/internal/config"
	"givehub-backend/internal/logger"
	"givehub-backend/internal/repository/postgres"
	"givehub-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store      *postgres.Store
	earningSvc service.EarningService
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, earningSvc service.EarningService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:      store,
		earningSvc: earningSvc,
		config:     cfg,
	}
}

// Config exposes the configuration to the scheduler for cron expressions
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once, for manual execution from cmd/cronjob
func (jr *JobRunner) RunAll() {
	jr.ReapExpiredOffers()
	jr.ReleaseClearedEarnings()
	jr.RecoverUnsettledDeliveries()
}
