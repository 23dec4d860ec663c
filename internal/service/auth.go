package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/metrics"
	"journal-directory-backend/internal/ratelimit"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/validation"
)

type authService struct {
	identity IdentityStore
	accounts repository.AccountRepository
	limiter  ratelimit.Limiter
	metrics  *metrics.Metrics
}

func NewAuthService(identity IdentityStore, accounts repository.AccountRepository, limiter ratelimit.Limiter, m *metrics.Metrics) AuthService {
	return &authService{identity: identity, accounts: accounts, limiter: limiter, metrics: m}
}

// Login signs in and routes by role. An inactive account is refused whether
// or not the password was right.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = validation.NormalizeEmail(email)
	var errs validation.Errors
	validation.Required(&errs, "email", email, "Email is required")
	validation.Required(&errs, "password", password, "Password is required")
	if len(errs) > 0 {
		return nil, validationError(errs)
	}

	allowed, err := s.limiter.Allow(ctx, "login:"+email)
	if err != nil {
		logger.Warn("Login rate limiter unavailable", "error", err)
	} else if !allowed {
		s.metrics.IncrementLogin("rate_limited")
		return nil, newError(KindRateLimited, "", nil)
	}

	sess, authErr := s.identity.SignIn(ctx, email, password)
	account, accErr := s.accounts.GetByEmail(ctx, email)

	if accErr == nil && !account.IsActive {
		s.signOutQuietly(ctx, sess)
		s.metrics.IncrementLogin("deactivated")
		return nil, newError(KindAccountDeactivated, "", nil)
	}
	if authErr != nil {
		s.metrics.IncrementLogin("failed")
		return nil, authErr
	}
	if accErr != nil {
		s.signOutQuietly(ctx, sess)
		if errors.Is(accErr, repository.ErrNotFound) {
			// Identity without an account row: registration never finished.
			s.metrics.IncrementLogin("deactivated")
			return nil, newError(KindAccountDeactivated, "", nil)
		}
		return nil, storeError("lookup account", accErr)
	}

	if err := s.limiter.Reset(ctx, "login:"+email); err != nil {
		logger.Warn("Failed to reset login attempts", "error", err)
	}
	now := time.Now().UTC()
	account.LastLogin = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		logger.Warn("Failed to record last login", "account_id", account.ID, "error", err)
	}

	dest := DestinationPublicSite
	if account.Role.IsOperator() {
		dest = DestinationOperatorConsole
	}
	s.metrics.IncrementLogin("success")
	return &LoginResult{Session: sess, Role: account.Role, Destination: dest}, nil
}

func (s *authService) signOutQuietly(ctx context.Context, sess *domain.Session) {
	if sess == nil {
		return
	}
	if err := s.identity.SignOut(ctx, sess.AccessToken); err != nil {
		logger.Warn("Failed to sign out refused session", "user_id", sess.UserID, "error", err)
	}
}

func (s *authService) Logout(ctx context.Context, accessToken string) error {
	return s.identity.SignOut(ctx, accessToken)
}

// ForgotPassword emails a reset link to active accounts. Unknown and
// inactive addresses succeed silently.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if !validation.ValidEmail(email) {
		var errs validation.Errors
		errs.Add("email", "Please enter a valid email address")
		return validationError(errs)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeError("lookup account", err)
	}
	if !account.IsActive {
		logger.Info("Password reset requested for inactive account", "account_id", account.ID)
		return nil
	}

	err = s.identity.SendRecoveryEmail(ctx, email, RecoveryReset)
	if KindOf(err) == KindNotFound {
		return nil
	}
	return err
}

func (s *authService) ResetPassword(ctx context.Context, principal *session.Principal, password, confirm string) error {
	if problems := validation.PasswordProblems(password, confirm); len(problems) > 0 {
		return validationError(problems)
	}
	if !principal.IsRecovery() {
		return newError(KindUnauthenticated, "open the link from your reset email again", nil)
	}

	account, err := s.accounts.GetByID(ctx, principal.UserID)
	if err != nil {
		return storeError("lookup account", err)
	}
	if !account.IsActive {
		return newError(KindAccountDeactivated, "", nil)
	}
	return s.identity.UpdateCredentials(ctx, principal, password)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*session.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(KindUnauthenticated, "missing token", nil)
	}
	return s.identity.ValidateToken(ctx, token)
}
