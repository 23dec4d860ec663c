package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"journal-directory-backend/internal/app"
	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/jobs"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'retry-recovery-emails', 'report-stalled-registrations', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Journal Directory cronjob runner...", "log_level", cfg.Log.Level)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	go a.EmailQueue.Run(queueCtx)

	jobRunner := jobs.NewJobRunner(a.Store.AccountRepository, a.Approval, a.Metrics, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			a.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		a.Close()
		os.Exit(1)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "retry-recovery-emails":
		jobRunner.RetryRecoveryEmails()
	case "report-stalled-registrations":
		jobRunner.ReportStalledRegistrations()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - retry-recovery-emails\n")
		fmt.Printf("  - report-stalled-registrations\n")
		fmt.Printf("  - all\n")
		return false
	}
	return true
}
