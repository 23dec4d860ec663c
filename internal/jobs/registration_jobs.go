package jobs

import (
	"context"

	"journal-directory-backend/internal/logger"
)

// RetryRecoveryEmails re-sends set-password emails for approved accounts
// whose first send failed.
func (jr *JobRunner) RetryRecoveryEmails() {
	jr.runWithRecovery("RetryRecoveryEmails", func(ctx context.Context) {
		sent, err := jr.approval.RetryRecoveryEmails(ctx)
		if err != nil {
			logger.Error("Some set-password emails could not be sent", "sent", sent, "error", err)
			return
		}
		logger.Info("Re-sent set-password emails", "count", sent)
	})
}

// ReportStalledRegistrations logs registrations that stopped before the
// person record was linked, for manual cleanup.
func (jr *JobRunner) ReportStalledRegistrations() {
	jr.runWithRecovery("ReportStalledRegistrations", func(ctx context.Context) {
		cutoff := jr.now().UTC().Add(-jr.config.StaleRegistrationAge())
		stalled, err := jr.accounts.ListStalled(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list stalled registrations", "error", err)
			return
		}

		jr.metrics.StalledRegistrations.Set(float64(len(stalled)))
		for _, a := range stalled {
			logger.Warn("Stalled registration",
				"account_id", a.ID,
				"email", a.Email,
				"workflow_state", a.WorkflowState,
				"created_at", a.CreatedAt,
			)
		}
		logger.Info("Stalled registration report complete", "count", len(stalled), "older_than", cutoff)
	})
}
