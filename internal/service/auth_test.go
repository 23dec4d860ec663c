package service

import (
	"context"
	"testing"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/ratelimit"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(limit int) (AuthService, *MockIdentityStore, *MockAccountRepo) {
	identity := new(MockIdentityStore)
	accounts := new(MockAccountRepo)
	svc := NewAuthService(identity, accounts, ratelimit.NewMemoryLimiter(limit, time.Minute), metrics.New(prometheus.NewRegistry()))
	return svc, identity, accounts
}

func activeAccount(role domain.Role) *domain.Account {
	return &domain.Account{
		ID:             uuid.New(),
		Email:          "ana@example.org",
		Role:           role,
		ApprovalStatus: domain.ApprovalStatusApproved,
		IsActive:       true,
	}
}

func TestLogin_RequiresFields(t *testing.T) {
	svc, identity, _ := newAuthFixture(5)

	_, err := svc.Login(context.Background(), "  ", "")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Email is required", UserMessage(err))
	identity.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InactiveAccountRefused(t *testing.T) {
	ctx := context.Background()

	t.Run("WrongPassword", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		account.IsActive = false

		identity.On("SignIn", ctx, account.Email, "wrong").Return(nil, newError(KindInvalidCredentials, "", nil))
		accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)

		_, err := svc.Login(ctx, account.Email, "wrong")
		assert.Equal(t, KindAccountDeactivated, KindOf(err))
		identity.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
	})

	t.Run("RightPasswordSignsBackOut", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		account.IsActive = false
		sess := &domain.Session{UserID: account.ID, AccessToken: "tok"}

		identity.On("SignIn", ctx, account.Email, "Abcdefg1").Return(sess, nil)
		identity.On("SignOut", ctx, "tok").Return(nil)
		accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)

		result, err := svc.Login(ctx, " ANA@example.org ", "Abcdefg1")
		assert.Nil(t, result)
		assert.Equal(t, KindAccountDeactivated, KindOf(err))
		identity.AssertExpectations(t)
	})

	t.Run("IdentityWithoutAccount", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		sess := &domain.Session{AccessToken: "tok"}

		identity.On("SignIn", ctx, "orphan@example.org", "Abcdefg1").Return(sess, nil)
		identity.On("SignOut", ctx, "tok").Return(nil)
		accounts.On("GetByEmail", ctx, "orphan@example.org").Return(nil, repository.ErrNotFound)

		_, err := svc.Login(ctx, "orphan@example.org", "Abcdefg1")
		assert.Equal(t, KindAccountDeactivated, KindOf(err))
	})
}

func TestLogin_WrongPasswordForActiveAccount(t *testing.T) {
	svc, identity, accounts := newAuthFixture(5)
	ctx := context.Background()
	account := activeAccount(domain.RoleUser)

	identity.On("SignIn", ctx, account.Email, "wrong").Return(nil, newError(KindInvalidCredentials, "", nil))
	accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)

	_, err := svc.Login(ctx, account.Email, "wrong")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLogin_RoutesByRole(t *testing.T) {
	cases := []struct {
		role domain.Role
		want Destination
	}{
		{domain.RoleSuperAdmin, DestinationOperatorConsole},
		{domain.RoleAdmin, DestinationOperatorConsole},
		{domain.RoleEditor, DestinationPublicSite},
		{domain.RoleUser, DestinationPublicSite},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			svc, identity, accounts := newAuthFixture(5)
			ctx := context.Background()
			account := activeAccount(tc.role)
			sess := &domain.Session{UserID: account.ID, AccessToken: "tok"}

			identity.On("SignIn", ctx, account.Email, "Abcdefg1").Return(sess, nil)
			accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)
			accounts.On("Update", ctx, account).Return(nil)

			result, err := svc.Login(ctx, account.Email, "Abcdefg1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Destination)
			assert.Equal(t, tc.role, result.Role)
			assert.Same(t, sess, result.Session)
			assert.NotNil(t, account.LastLogin)
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	svc, identity, accounts := newAuthFixture(1)
	ctx := context.Background()
	account := activeAccount(domain.RoleUser)

	identity.On("SignIn", ctx, account.Email, "wrong").Return(nil, newError(KindInvalidCredentials, "", nil)).Once()
	accounts.On("GetByEmail", ctx, account.Email).Return(account, nil).Once()

	_, err := svc.Login(ctx, account.Email, "wrong")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))

	_, err = svc.Login(ctx, account.Email, "wrong")
	assert.Equal(t, KindRateLimited, KindOf(err))
	identity.AssertNumberOfCalls(t, "SignIn", 1)
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidEmail", func(t *testing.T) {
		svc, _, accounts := newAuthFixture(5)
		err := svc.ForgotPassword(ctx, "not-an-email")
		assert.Equal(t, KindValidation, KindOf(err))
		accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("UnknownAddressIsSilent", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		accounts.On("GetByEmail", ctx, "nobody@example.org").Return(nil, repository.ErrNotFound)

		assert.NoError(t, svc.ForgotPassword(ctx, "Nobody@example.org"))
		identity.AssertNotCalled(t, "SendRecoveryEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InactiveAccountIsSilent", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		account.IsActive = false
		accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)

		assert.NoError(t, svc.ForgotPassword(ctx, account.Email))
		identity.AssertNotCalled(t, "SendRecoveryEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ActiveAccountGetsResetLink", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		accounts.On("GetByEmail", ctx, account.Email).Return(account, nil)
		identity.On("SendRecoveryEmail", ctx, account.Email, RecoveryReset).Return(nil)

		assert.NoError(t, svc.ForgotPassword(ctx, account.Email))
		identity.AssertExpectations(t)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("InactiveAccount", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		account.IsActive = false
		accounts.On("GetByID", ctx, account.ID).Return(account, nil)

		err := svc.ResetPassword(ctx, recoveryPrincipal(account.ID), "Abcdefg1", "Abcdefg1")
		assert.Equal(t, KindAccountDeactivated, KindOf(err))
		identity.AssertNotCalled(t, "UpdateCredentials", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AccessTokenNotAccepted", func(t *testing.T) {
		svc, _, _ := newAuthFixture(5)
		p := &session.Principal{UserID: uuid.New(), TokenType: security.TokenTypeAccess}

		err := svc.ResetPassword(ctx, p, "Abcdefg1", "Abcdefg1")
		assert.Equal(t, KindUnauthenticated, KindOf(err))
	})

	t.Run("Success", func(t *testing.T) {
		svc, identity, accounts := newAuthFixture(5)
		account := activeAccount(domain.RoleUser)
		p := recoveryPrincipal(account.ID)
		accounts.On("GetByID", ctx, account.ID).Return(account, nil)
		identity.On("UpdateCredentials", ctx, p, "Newpass12").Return(nil)

		assert.NoError(t, svc.ResetPassword(ctx, p, "Newpass12", "Newpass12"))
	})
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	svc, identity, _ := newAuthFixture(5)

	_, err := svc.Authenticate(context.Background(), "  ")
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	identity.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
}
