package repository

import (
	"context"
	"errors"
	"time"

	"journal-directory-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// IdentityRepository persists identity store credentials (auth_users).
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error

	// Approval queue and reconciliation
	ListPending(ctx context.Context) ([]domain.PendingApplication, error)
	ListAwaitingRecovery(ctx context.Context) ([]domain.Account, error)
	ListStalled(ctx context.Context, createdBefore time.Time) ([]domain.Account, error)
}

type PersonRepository interface {
	Create(ctx context.Context, person *domain.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Person, error)
	Update(ctx context.Context, person *domain.Person) error
}

type JournalRepository interface {
	Create(ctx context.Context, journal *domain.Journal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Journal, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.EditorialAssignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EditorialAssignment, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListByJournal(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error)
}
