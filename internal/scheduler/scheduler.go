package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"journal-directory-backend/internal/jobs"
	"journal-directory-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler and registers every job. Schedules are
// six-field cron expressions evaluated in UTC.
func NewScheduler(jobRunner *jobs.JobRunner) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name     string
		schedule string
		run      func()
	}{
		{"RetryRecoveryEmails", cfg.RetryRecoveryEmails, s.jobs.RetryRecoveryEmails},
		{"ReportStalledRegistrations", cfg.ReportStalledRegistrations, s.jobs.ReportStalledRegistrations},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.schedule, e.run); err != nil {
			logger.Error("Failed to register job", "job", e.name, "schedule", e.schedule, "error", err)
			return err
		}
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
