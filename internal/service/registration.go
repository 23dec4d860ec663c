package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/storage"
	"journal-directory-backend/internal/validation"
)

const registrationReceivedMessage = "Thank you for registering. An administrator will review your application " +
	"within 1-3 business days. Once approved, you will receive an email with a link to set your password."

type registrationService struct {
	identity  IdentityStore
	accounts  repository.AccountRepository
	people    repository.PersonRepository
	documents storage.DocumentStore
	email     EmailService
	metrics   *metrics.Metrics
}

func NewRegistrationService(
	identity IdentityStore,
	accounts repository.AccountRepository,
	people repository.PersonRepository,
	documents storage.DocumentStore,
	email EmailService,
	m *metrics.Metrics,
) RegistrationService {
	return &registrationService{
		identity:  identity,
		accounts:  accounts,
		people:    people,
		documents: documents,
		email:     email,
		metrics:   m,
	}
}

func validateRegistration(in domain.RegistrationInput) validation.Errors {
	var errs validation.Errors
	validation.Required(&errs, "first_name", in.FirstName, "First name is required")
	validation.Required(&errs, "last_name", in.LastName, "Last name is required")

	switch {
	case strings.TrimSpace(in.Email) == "":
		errs.Add("email", "Email is required")
	case !validation.ValidEmail(in.Email):
		errs.Add("email", "Please enter a valid email address")
	}

	if orcid := strings.TrimSpace(in.ORCID); orcid != "" && !validation.ValidORCID(orcid) {
		errs.Add("orcid", "ORCID must look like 0000-0000-0000-0000")
	}

	if in.CV == nil || in.CV.Content == nil {
		errs.Add("cv", "Please upload your CV")
	} else {
		if !validation.AllowedCVType(in.CV.ContentType) {
			errs.Add("cv", "CV must be a PDF or Word document")
		}
		if !validation.CVSizeOK(in.CV.Size) {
			errs.Add("cv", "CV must be 5 MB or smaller")
		}
	}

	if !in.TermsAccepted {
		errs.Add("terms_accepted", "You must accept the terms and conditions")
	}
	return errs
}

// placeholderPassword returns a random 256-bit credential the registrant
// never sees. The real password is chosen during activation.
func placeholderPassword() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SubmitRegistration runs the registration steps in order, recording each
// completed step on the account so a retried submission only runs what is
// missing.
func (s *registrationService) SubmitRegistration(ctx context.Context, in domain.RegistrationInput) (*domain.RegistrationResult, error) {
	if errs := validateRegistration(in); len(errs) > 0 {
		return nil, validationError(errs)
	}

	start := time.Now()
	email := validation.NormalizeEmail(in.Email)
	s.metrics.RegistrationsStarted.Inc()

	placeholder, err := placeholderPassword()
	if err != nil {
		return nil, newError(KindUnknown, "generate placeholder", err)
	}

	account, resumed, err := s.createOrResume(ctx, email, placeholder, in)
	if err != nil {
		s.metrics.IncrementStepFailure(string(domain.WorkflowCreatedIdentity))
		return nil, err
	}
	log := logger.WithWorkflow("registration", account.ID.String())
	log.Info("Registration started", "resumed", resumed, "workflow_state", account.WorkflowState)

	sess := session.New(s.identity)
	defer func() {
		if err := sess.Teardown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to sign out registration session", "error", err)
		}
	}()
	if err := sess.Init(ctx, email, placeholder); err != nil {
		return nil, s.stepFailed(log, "sign_in", err)
	}
	if cur := sess.Current(); cur == nil || cur.UserID != account.ID {
		return nil, s.stepFailed(log, "sign_in", newError(KindUnknown, "session does not match registrant", nil))
	}

	if !account.WorkflowState.Reached(domain.WorkflowUploadedCV) {
		if err := s.uploadCV(ctx, account, in.CV); err != nil {
			return nil, s.stepFailed(log, string(domain.WorkflowUploadedCV), err)
		}
	}

	if !account.WorkflowState.Reached(domain.WorkflowProfileWritten) {
		account.Phone = strings.TrimSpace(in.Phone)
		account.ApprovalStatus = domain.ApprovalStatusPending
		account.IsActive = false
		if err := s.advance(ctx, account, domain.WorkflowProfileWritten); err != nil {
			return nil, s.stepFailed(log, string(domain.WorkflowProfileWritten), err)
		}
	}

	var person *domain.Person
	if !account.WorkflowState.Reached(domain.WorkflowPersonWritten) {
		person, err = s.writePerson(ctx, account, in)
		if err != nil {
			return nil, s.stepFailed(log, string(domain.WorkflowPersonWritten), err)
		}
		if err := s.advance(ctx, account, domain.WorkflowPersonWritten); err != nil {
			return nil, s.stepFailed(log, string(domain.WorkflowPersonWritten), err)
		}
	}

	if !account.WorkflowState.Reached(domain.WorkflowLinked) {
		if person == nil {
			person, err = s.people.GetByUserID(ctx, account.ID)
			if err != nil {
				return nil, s.stepFailed(log, string(domain.WorkflowLinked), storeError("lookup person", err))
			}
		}
		account.PersonID = &person.ID
		if err := s.advance(ctx, account, domain.WorkflowLinked); err != nil {
			return nil, s.stepFailed(log, string(domain.WorkflowLinked), err)
		}
	}

	name := domain.BuildFullName(in.Title, in.FirstName, in.MiddleName, in.LastName, "")
	if err := s.email.SendRegistrationReceived(ctx, email, name); err != nil {
		log.Warn("Failed to send registration confirmation", "error", err)
	}

	s.metrics.RegistrationsCompleted.WithLabelValues(strconv.FormatBool(resumed)).Inc()
	s.metrics.ObserveWorkflow("registration", start)
	log.Info("Registration completed", "resumed", resumed)

	return &domain.RegistrationResult{
		AccountID:      account.ID,
		ApprovalStatus: account.ApprovalStatus,
		Resumed:        resumed,
		Message:        registrationReceivedMessage,
	}, nil
}

// createOrResume creates the identity and account row. A duplicate email
// belonging to an unfinished pending registration is resumed with a fresh
// placeholder; anything else is a conflict.
func (s *registrationService) createOrResume(ctx context.Context, email, placeholder string, in domain.RegistrationInput) (*domain.Account, bool, error) {
	metadata := map[string]string{
		"first_name":       strings.TrimSpace(in.FirstName),
		"last_name":        strings.TrimSpace(in.LastName),
		"pending_approval": "true",
	}
	identity, err := s.identity.CreateAccount(ctx, email, placeholder, metadata)
	if err == nil {
		account, err := s.createAccountRow(ctx, identity, in)
		return account, false, err
	}
	if KindOf(err) != KindConflict {
		return nil, false, err
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// Identity exists but the account row was never written.
		identity, err := s.identity.LookupIdentity(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if err := s.identity.RotatePassword(ctx, identity.ID, placeholder); err != nil {
			return nil, false, err
		}
		account, err := s.createAccountRow(ctx, identity, in)
		return account, true, err
	case err != nil:
		return nil, false, storeError("lookup account", err)
	}

	if account.ApprovalStatus != domain.ApprovalStatusPending || account.WorkflowState == domain.WorkflowLinked {
		return nil, false, newError(KindConflict, "email already registered", nil)
	}
	if err := s.identity.RotatePassword(ctx, account.ID, placeholder); err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (s *registrationService) createAccountRow(ctx context.Context, identity *domain.Identity, in domain.RegistrationInput) (*domain.Account, error) {
	account := &domain.Account{
		ID:             identity.ID,
		Email:          identity.Email,
		Phone:          strings.TrimSpace(in.Phone),
		Role:           domain.RoleUser,
		ApprovalStatus: domain.ApprovalStatusPending,
		IsActive:       false,
		WorkflowState:  domain.WorkflowCreatedIdentity,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storeError("create account", err)
	}
	return account, nil
}

func (s *registrationService) uploadCV(ctx context.Context, account *domain.Account, cv *domain.Upload) error {
	key := storage.CVKey(account.ID, cv.Filename)
	logger.ExternalServiceCall("documents", "Save", "key", key, "size", cv.Size)
	if _, err := s.documents.Save(ctx, key, cv.Content); err != nil {
		logger.ExternalServiceResult("documents", "Save", err)
		return newError(KindUploadFailed, "store CV", err)
	}
	account.CVURL = s.documents.URL(key)
	return s.advance(ctx, account, domain.WorkflowUploadedCV)
}

// writePerson inserts the person profile, reusing one left by an earlier
// attempt.
func (s *registrationService) writePerson(ctx context.Context, account *domain.Account, in domain.RegistrationInput) (*domain.Person, error) {
	existing, err := s.people.GetByUserID(ctx, account.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError("lookup person", err)
	}

	userID := account.ID
	person := &domain.Person{
		UserID:      &userID,
		FirstName:   strings.TrimSpace(in.FirstName),
		MiddleName:  strings.TrimSpace(in.MiddleName),
		LastName:    strings.TrimSpace(in.LastName),
		Title:       strings.TrimSpace(in.Title),
		Email:       account.Email,
		Phone:       account.Phone,
		Affiliation: strings.TrimSpace(in.Affiliation),
		Position:    strings.TrimSpace(in.Position),
		ORCID:       strings.TrimSpace(in.ORCID),
		CVURL:       account.CVURL,
		IsActive:    false,
		IsVerified:  false,
	}
	person.ComputeFullName()
	if err := s.people.Create(ctx, person); err != nil {
		return nil, storeError("create person", err)
	}
	return person, nil
}

func (s *registrationService) advance(ctx context.Context, account *domain.Account, state domain.WorkflowState) error {
	prev := account.WorkflowState
	account.WorkflowState = state
	if err := s.accounts.Update(ctx, account); err != nil {
		account.WorkflowState = prev
		return storeError("update account", err)
	}
	return nil
}

func (s *registrationService) stepFailed(log *slog.Logger, step string, err error) error {
	s.metrics.IncrementStepFailure(step)
	log.Error("Registration step failed", "step", step, "error", err)
	return err
}
