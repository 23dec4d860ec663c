package http

import (
	"context"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/service"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) SubmitRegistration(ctx context.Context, input domain.RegistrationInput) (*domain.RegistrationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationResult), args.Error(1)
}

type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) ListPending(ctx context.Context, caller *session.Principal) ([]domain.PendingApplication, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingApplication), args.Error(1)
}
func (m *MockApprovalService) Approve(ctx context.Context, caller *session.Principal, accountID uuid.UUID) (*service.ApprovalResult, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApprovalResult), args.Error(1)
}
func (m *MockApprovalService) Reject(ctx context.Context, caller *session.Principal, accountID uuid.UUID, reason string) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockApprovalService) RetryRecoveryEmails(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockActivationService struct {
	mock.Mock
}

func (m *MockActivationService) SetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error {
	args := m.Called(ctx, principal, password, confirm)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}
func (m *MockAuthService) Logout(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error {
	args := m.Called(ctx, principal, password, confirm)
	return args.Error(0)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*session.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Principal), args.Error(1)
}

type MockEditorialService struct {
	mock.Mock
}

func (m *MockEditorialService) CreateJournal(ctx context.Context, caller *session.Principal, journal *domain.Journal) error {
	args := m.Called(ctx, caller, journal)
	return args.Error(0)
}
func (m *MockEditorialService) ListJournals(ctx context.Context, activeOnly bool) ([]domain.Journal, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}
func (m *MockEditorialService) CreatePerson(ctx context.Context, caller *session.Principal, person *domain.Person) error {
	args := m.Called(ctx, caller, person)
	return args.Error(0)
}
func (m *MockEditorialService) AssignEditor(ctx context.Context, caller *session.Principal, assignment *domain.EditorialAssignment) error {
	args := m.Called(ctx, caller, assignment)
	return args.Error(0)
}
func (m *MockEditorialService) SetAssignmentActive(ctx context.Context, caller *session.Principal, assignmentID uuid.UUID, active bool) error {
	args := m.Called(ctx, caller, assignmentID, active)
	return args.Error(0)
}
func (m *MockEditorialService) ListEditorialTeam(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error) {
	args := m.Called(ctx, journalID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EditorialTeamMember), args.Error(1)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) OpenDocument(ctx context.Context, caller *session.Principal, key string) (*service.Document, error) {
	args := m.Called(ctx, caller, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Document), args.Error(1)
}
