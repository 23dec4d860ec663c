package service

import (
	"context"
	"errors"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/validation"
)

type activationService struct {
	identity IdentityStore
	accounts repository.AccountRepository
	people   repository.PersonRepository
	metrics  *metrics.Metrics
}

func NewActivationService(identity IdentityStore, accounts repository.AccountRepository, people repository.PersonRepository, m *metrics.Metrics) ActivationService {
	return &activationService{identity: identity, accounts: accounts, people: people, metrics: m}
}

// SetPassword sets the first real password from a recovery session and
// activates the account and its person profile.
func (s *activationService) SetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error {
	if problems := validation.PasswordProblems(password, confirm); len(problems) > 0 {
		return validationError(problems)
	}
	if !principal.IsRecovery() {
		return newError(KindUnauthenticated, "open the link from your approval email again", nil)
	}

	account, err := s.accounts.GetByID(ctx, principal.UserID)
	if err != nil {
		return storeError("lookup account", err)
	}
	if account.ApprovalStatus != domain.ApprovalStatusApproved {
		return newError(KindNotApproved, "", nil)
	}

	if err := s.identity.UpdateCredentials(ctx, principal, password); err != nil {
		return err
	}

	account.IsActive = true
	account.ApprovalStatus = domain.ApprovalStatusApproved
	if err := s.accounts.Update(ctx, account); err != nil {
		return storeError("activate account", err)
	}

	person, err := s.linkedPerson(ctx, account)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		logger.Warn("Activated account has no person profile", "account_id", account.ID)
	case err != nil:
		return storeError("lookup person", err)
	default:
		person.IsActive = true
		person.IsVerified = true
		if err := s.people.Update(ctx, person); err != nil {
			return storeError("activate person", err)
		}
	}

	s.metrics.Activations.Inc()
	logger.Info("Account activated", "account_id", account.ID)
	return nil
}

func (s *activationService) linkedPerson(ctx context.Context, account *domain.Account) (*domain.Person, error) {
	if account.PersonID != nil {
		return s.people.GetByID(ctx, *account.PersonID)
	}
	return s.people.GetByUserID(ctx, account.ID)
}
