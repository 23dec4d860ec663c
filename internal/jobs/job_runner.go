package jobs

import (
	"context"
	"time"

	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/service"
)

// jobTimeout bounds a single job run.
const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	accounts repository.AccountRepository
	approval service.ApprovalService
	metrics  *metrics.Metrics
	config   *config.Config
	now      func() time.Time
}

func NewJobRunner(accounts repository.AccountRepository, approval service.ApprovalService, m *metrics.Metrics, cfg *config.Config) *JobRunner {
	return &JobRunner{
		accounts: accounts,
		approval: approval,
		metrics:  m,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a timeout.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	jr.metrics.ObserveWorkflow("job_"+jobName, start)
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.RetryRecoveryEmails()
	jr.ReportStalledRegistrations()
}
