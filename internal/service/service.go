package service

import (
	"context"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
)

// RecoveryKind selects where an emailed recovery link lands.
type RecoveryKind string

const (
	RecoveryActivation RecoveryKind = "activation"
	RecoveryReset      RecoveryKind = "reset"
)

// IdentityStore issues and validates login credentials and sessions.
type IdentityStore interface {
	session.Authenticator
	CreateAccount(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error)
	LookupIdentity(ctx context.Context, email string) (*domain.Identity, error)
	// RotatePassword replaces the credential without policy checks; used to
	// regain a placeholder session when resuming a registration.
	RotatePassword(ctx context.Context, userID uuid.UUID, password string) error
	// UpdateCredentials changes the password of the principal's identity.
	UpdateCredentials(ctx context.Context, principal *session.Principal, password string) error
	SendRecoveryEmail(ctx context.Context, email string, kind RecoveryKind) error
	ValidateToken(ctx context.Context, token string) (*session.Principal, error)
}

type EmailService interface {
	SendRecoveryLink(ctx context.Context, to, link string, kind RecoveryKind) error
	SendRegistrationReceived(ctx context.Context, to, name string) error
	SendRejectionNotice(ctx context.Context, to, name, reason string) error
}

type RegistrationService interface {
	SubmitRegistration(ctx context.Context, input domain.RegistrationInput) (*domain.RegistrationResult, error)
}

// ApprovalResult reports an approval; Warning is set when the account was
// approved but the set-password email did not go out.
type ApprovalResult struct {
	Account *domain.Account `json:"account"`
	Warning string          `json:"warning,omitempty"`
}

type ApprovalService interface {
	ListPending(ctx context.Context, caller *session.Principal) ([]domain.PendingApplication, error)
	Approve(ctx context.Context, caller *session.Principal, accountID uuid.UUID) (*ApprovalResult, error)
	Reject(ctx context.Context, caller *session.Principal, accountID uuid.UUID, reason string) (*domain.Account, error)
	// RetryRecoveryEmails re-sends set-password emails that never went out.
	RetryRecoveryEmails(ctx context.Context) (sent int, err error)
}

type ActivationService interface {
	SetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error
}

// Destination is where a signed-in user is sent.
type Destination string

const (
	DestinationOperatorConsole Destination = "operator_console"
	DestinationPublicSite      Destination = "public_site"
)

type LoginResult struct {
	Session     *domain.Session `json:"session"`
	Role        domain.Role     `json:"role"`
	Destination Destination     `json:"destination"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error
	Authenticate(ctx context.Context, token string) (*session.Principal, error)
}

type EditorialService interface {
	CreateJournal(ctx context.Context, caller *session.Principal, journal *domain.Journal) error
	ListJournals(ctx context.Context, activeOnly bool) ([]domain.Journal, error)
	CreatePerson(ctx context.Context, caller *session.Principal, person *domain.Person) error
	AssignEditor(ctx context.Context, caller *session.Principal, assignment *domain.EditorialAssignment) error
	SetAssignmentActive(ctx context.Context, caller *session.Principal, assignmentID uuid.UUID, active bool) error
	ListEditorialTeam(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error)
}

// DocumentService serves stored CVs to operators.
type DocumentService interface {
	OpenDocument(ctx context.Context, caller *session.Principal, key string) (*Document, error)
}
