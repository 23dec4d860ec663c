package service

import (
	"context"
	"io"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIdentityRepo
type MockIdentityRepo struct {
	mock.Mock
}

func (m *MockIdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}
func (m *MockIdentityRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}
func (m *MockIdentityRepo) TouchLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) ListPending(ctx context.Context) ([]domain.PendingApplication, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PendingApplication), args.Error(1)
}
func (m *MockAccountRepo) ListAwaitingRecovery(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountRepo) ListStalled(ctx context.Context, createdBefore time.Time) ([]domain.Account, error) {
	args := m.Called(ctx, createdBefore)
	return args.Get(0).([]domain.Account), args.Error(1)
}

// MockPersonRepo
type MockPersonRepo struct {
	mock.Mock
}

func (m *MockPersonRepo) Create(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}
func (m *MockPersonRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}
func (m *MockPersonRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Person, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}
func (m *MockPersonRepo) Update(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

// MockJournalRepo
type MockJournalRepo struct {
	mock.Mock
}

func (m *MockJournalRepo) Create(ctx context.Context, journal *domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}
func (m *MockJournalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}
func (m *MockJournalRepo) List(ctx context.Context, activeOnly bool) ([]domain.Journal, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]domain.Journal), args.Error(1)
}

// MockAssignmentRepo
type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, a *domain.EditorialAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EditorialAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EditorialAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
func (m *MockAssignmentRepo) ListByJournal(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error) {
	args := m.Called(ctx, journalID, activeOnly)
	return args.Get(0).([]domain.EditorialTeamMember), args.Error(1)
}

// MockIdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockIdentityStore) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
func (m *MockIdentityStore) CreateAccount(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityStore) LookupIdentity(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityStore) RotatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}
func (m *MockIdentityStore) UpdateCredentials(ctx context.Context, principal *session.Principal, password string) error {
	args := m.Called(ctx, principal, password)
	return args.Error(0)
}
func (m *MockIdentityStore) SendRecoveryEmail(ctx context.Context, email string, kind RecoveryKind) error {
	args := m.Called(ctx, email, kind)
	return args.Error(0)
}
func (m *MockIdentityStore) ValidateToken(ctx context.Context, token string) (*session.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Principal), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRecoveryLink(ctx context.Context, to, link string, kind RecoveryKind) error {
	args := m.Called(ctx, to, link, kind)
	return args.Error(0)
}
func (m *MockEmailService) SendRegistrationReceived(ctx context.Context, to, name string) error {
	args := m.Called(ctx, to, name)
	return args.Error(0)
}
func (m *MockEmailService) SendRejectionNotice(ctx context.Context, to, name, reason string) error {
	args := m.Called(ctx, to, name, reason)
	return args.Error(0)
}

// MockDocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	args := m.Called(ctx, key, r)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockDocumentStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockDocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockDocumentStore) URL(key string) string {
	return "http://localhost:8080/api/v1/adm/documents?key=" + key
}
