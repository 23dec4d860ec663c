package service

import (
	"context"
	"testing"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func recoveryPrincipal(id uuid.UUID) *session.Principal {
	return &session.Principal{UserID: id, TokenType: security.TokenTypeRecovery, TokenID: "jti"}
}

func newActivationFixture() (ActivationService, *MockIdentityStore, *MockAccountRepo, *MockPersonRepo) {
	identity := new(MockIdentityStore)
	accounts := new(MockAccountRepo)
	people := new(MockPersonRepo)
	return NewActivationService(identity, accounts, people, metrics.New(prometheus.NewRegistry())), identity, accounts, people
}

func TestSetPassword_PolicyBlocksRemoteCalls(t *testing.T) {
	svc, identity, accounts, _ := newActivationFixture()
	p := recoveryPrincipal(uuid.New())

	cases := map[string][2]string{
		"short":    {"short", "short"},
		"mismatch": {"Abcdefg1", "Different1"},
		"noDigit":  {"Abcdefgh", "Abcdefgh"},
		"noUpper":  {"abcdefg1", "abcdefg1"},
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			err := svc.SetPassword(context.Background(), p, pw[0], pw[1])
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
	identity.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetPassword_ShortPasswordMessage(t *testing.T) {
	svc, _, _, _ := newActivationFixture()

	err := svc.SetPassword(context.Background(), recoveryPrincipal(uuid.New()), "short", "short")
	assert.Equal(t, "Password must be at least 8 characters long", UserMessage(err))
}

func TestSetPassword_ActivatesAccountAndPerson(t *testing.T) {
	svc, identity, accounts, people := newActivationFixture()
	ctx := context.Background()
	personID := uuid.New()
	account := &domain.Account{ID: uuid.New(), ApprovalStatus: domain.ApprovalStatusApproved, PersonID: &personID}
	person := &domain.Person{ID: personID}
	p := recoveryPrincipal(account.ID)

	accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	identity.On("UpdateCredentials", ctx, p, "Abcdefg1").Return(nil)
	accounts.On("Update", ctx, account).Return(nil)
	people.On("GetByID", ctx, personID).Return(person, nil)
	people.On("Update", ctx, person).Return(nil)

	require.NoError(t, svc.SetPassword(ctx, p, "Abcdefg1", "Abcdefg1"))
	assert.True(t, account.IsActive)
	assert.Equal(t, domain.ApprovalStatusApproved, account.ApprovalStatus)
	assert.True(t, person.IsActive)
	assert.True(t, person.IsVerified)
}

func TestSetPassword_RequiresRecoverySession(t *testing.T) {
	svc, _, accounts, _ := newActivationFixture()
	p := &session.Principal{UserID: uuid.New(), TokenType: security.TokenTypeAccess}

	err := svc.SetPassword(context.Background(), p, "Abcdefg1", "Abcdefg1")
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetPassword_UnapprovedAccountsCannotActivate(t *testing.T) {
	for _, status := range []domain.ApprovalStatus{domain.ApprovalStatusPending, domain.ApprovalStatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, identity, accounts, _ := newActivationFixture()
			ctx := context.Background()
			account := &domain.Account{ID: uuid.New(), ApprovalStatus: status}

			accounts.On("GetByID", ctx, account.ID).Return(account, nil)

			err := svc.SetPassword(ctx, recoveryPrincipal(account.ID), "Abcdefg1", "Abcdefg1")
			assert.Equal(t, KindNotApproved, KindOf(err))
			assert.False(t, account.IsActive)
			identity.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSetPassword_IdentityRejectionLeavesInactive(t *testing.T) {
	svc, identity, accounts, _ := newActivationFixture()
	ctx := context.Background()
	account := &domain.Account{ID: uuid.New(), ApprovalStatus: domain.ApprovalStatusApproved}
	p := recoveryPrincipal(account.ID)

	accounts.On("GetByID", ctx, account.ID).Return(account, nil)
	identity.On("UpdateCredentials", ctx, p, "Abcdefg1").Return(newError(KindPasswordReused, "", nil))

	err := svc.SetPassword(ctx, p, "Abcdefg1", "Abcdefg1")
	assert.Equal(t, KindPasswordReused, KindOf(err))
	assert.False(t, account.IsActive)
	accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
