package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/validation"

	"github.com/google/uuid"
)

const recoveryEmailWarning = "The account was approved, but the set-password email could not be sent. " +
	"Please contact the user manually."

type approvalService struct {
	accounts repository.AccountRepository
	people   repository.PersonRepository
	identity IdentityStore
	email    EmailService
	metrics  *metrics.Metrics
}

func NewApprovalService(
	accounts repository.AccountRepository,
	people repository.PersonRepository,
	identity IdentityStore,
	email EmailService,
	m *metrics.Metrics,
) ApprovalService {
	return &approvalService{
		accounts: accounts,
		people:   people,
		identity: identity,
		email:    email,
		metrics:  m,
	}
}

func (s *approvalService) ListPending(ctx context.Context, caller *session.Principal) ([]domain.PendingApplication, error) {
	if err := requireRole(caller, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	apps, err := s.accounts.ListPending(ctx)
	if err != nil {
		return nil, storeError("list pending", err)
	}
	return apps, nil
}

// Approve marks a pending account approved and emails the set-password link.
// An approved account that never activated gets the email again. The email
// failing does not undo the approval.
func (s *approvalService) Approve(ctx context.Context, caller *session.Principal, accountID uuid.UUID) (*ApprovalResult, error) {
	logger.EnterMethod("approvalService.Approve", "accountID", accountID)
	if err := requireRole(caller, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, storeError("lookup account", err)
	}

	switch account.ApprovalStatus {
	case domain.ApprovalStatusRejected:
		return nil, newError(KindInvalidTransition, "rejected applications cannot be approved", nil)
	case domain.ApprovalStatusApproved:
		if account.IsActive {
			return nil, newError(KindInvalidTransition, "account is already active", nil)
		}
	case domain.ApprovalStatusPending:
		now := time.Now().UTC()
		approver := caller.UserID
		account.ApprovalStatus = domain.ApprovalStatusApproved
		account.ApprovalDate = &now
		account.ApprovedBy = &approver
		account.RecoverySentAt = nil
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, storeError("approve account", err)
		}
		s.metrics.IncrementDecision("approved")
	}

	result := &ApprovalResult{Account: account}
	if err := s.sendRecovery(ctx, account); err != nil {
		logger.Error("Set-password email failed after approval", "account_id", account.ID, "error", err)
		s.metrics.RecoveryEmailFailures.Inc()
		result.Warning = recoveryEmailWarning
	}

	logger.ExitMethod("approvalService.Approve", "accountID", accountID, "warning", result.Warning != "")
	return result, nil
}

func (s *approvalService) Reject(ctx context.Context, caller *session.Principal, accountID uuid.UUID, reason string) (*domain.Account, error) {
	if err := requireRole(caller, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		var errs validation.Errors
		errs.Add("reason", "A rejection reason is required")
		return nil, validationError(errs)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, storeError("lookup account", err)
	}
	if account.ApprovalStatus != domain.ApprovalStatusPending {
		return nil, newError(KindInvalidTransition, "only pending applications can be rejected", nil)
	}

	now := time.Now().UTC()
	reviewer := caller.UserID
	account.ApprovalStatus = domain.ApprovalStatusRejected
	account.ApprovalDate = &now
	account.ApprovedBy = &reviewer
	account.RegistrationNotes = reason
	account.IsActive = false
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, storeError("reject account", err)
	}
	s.metrics.IncrementDecision("rejected")

	name := account.Email
	if person, err := s.people.GetByUserID(ctx, account.ID); err == nil && person.FullName != "" {
		name = person.FullName
	}
	if err := s.email.SendRejectionNotice(ctx, account.Email, name, reason); err != nil {
		logger.Warn("Failed to send rejection notice", "account_id", account.ID, "error", err)
	}
	return account, nil
}

// RetryRecoveryEmails re-sends the set-password email to approved accounts
// that are still waiting for one.
func (s *approvalService) RetryRecoveryEmails(ctx context.Context) (int, error) {
	accounts, err := s.accounts.ListAwaitingRecovery(ctx)
	if err != nil {
		return 0, storeError("list awaiting recovery", err)
	}

	sent := 0
	var errs []error
	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.sendRecovery(ctx, &accounts[i]); err != nil {
			s.metrics.RecoveryEmailFailures.Inc()
			errs = append(errs, err)
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

// sendRecovery emails the set-password link and records the send. A failed
// record only means the job sends the email again.
func (s *approvalService) sendRecovery(ctx context.Context, account *domain.Account) error {
	if err := s.identity.SendRecoveryEmail(ctx, account.Email, RecoveryActivation); err != nil {
		return err
	}
	now := time.Now().UTC()
	account.RecoverySentAt = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.Warn("Failed to record recovery email send", "account_id", account.ID, "error", err)
	}
	return nil
}
