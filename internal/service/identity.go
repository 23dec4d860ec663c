package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/session"

	"github.com/google/uuid"
)

var recoveryPaths = map[RecoveryKind]string{
	RecoveryActivation: "/set-password",
	RecoveryReset:      "/reset-password",
}

type identityStore struct {
	identities    repository.IdentityRepository
	accounts      repository.AccountRepository
	hasher        security.PasswordHasher
	tokens        security.TokenManager
	revoked       security.RevocationList
	email         EmailService
	publicBaseURL string
}

func NewIdentityStore(
	identities repository.IdentityRepository,
	accounts repository.AccountRepository,
	hasher security.PasswordHasher,
	tokens security.TokenManager,
	revoked security.RevocationList,
	email EmailService,
	publicBaseURL string,
) IdentityStore {
	return &identityStore{
		identities:    identities,
		accounts:      accounts,
		hasher:        hasher,
		tokens:        tokens,
		revoked:       revoked,
		email:         email,
		publicBaseURL: publicBaseURL,
	}
}

func (s *identityStore) CreateAccount(ctx context.Context, email, password string, metadata map[string]string) (*domain.Identity, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, newError(KindUnknown, "hash password", err)
	}
	identity := &domain.Identity{Email: email, PasswordHash: hash, Metadata: metadata}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, storeError("create identity", err)
	}
	return identity, nil
}

func (s *identityStore) LookupIdentity(ctx context.Context, email string) (*domain.Identity, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError("lookup identity", err)
	}
	return identity, nil
}

func (s *identityStore) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindInvalidCredentials, "", nil)
	}
	if err != nil {
		return nil, storeError("lookup identity", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, newError(KindInvalidCredentials, "", nil)
		}
		return nil, newError(KindUnknown, "compare password", err)
	}

	role := domain.RoleUser
	if account, err := s.accounts.GetByID(ctx, identity.ID); err == nil {
		role = account.Role
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError("lookup account", err)
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(identity.ID, identity.Email, role)
	if err != nil {
		return nil, newError(KindUnknown, "issue token", err)
	}
	if err := s.identities.TouchLastSignIn(ctx, identity.ID, time.Now().UTC()); err != nil {
		logger.Warn("Failed to record sign-in time", "user_id", identity.ID, "error", err)
	}

	return &domain.Session{
		UserID:      identity.ID,
		Email:       identity.Email,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// SignOut revokes the token. Tokens that are already expired need no entry.
func (s *identityStore) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.ValidateToken(accessToken)
	if errors.Is(err, security.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return newError(KindUnauthenticated, "invalid token", err)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.TTL()); err != nil {
		return newError(KindUnavailable, "revoke token", err)
	}
	return nil
}

func (s *identityStore) RotatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return newError(KindUnknown, "hash password", err)
	}
	if err := s.identities.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return storeError("update credentials", err)
	}
	return nil
}

// UpdateCredentials sets a new password and burns the recovery token that
// authorized it.
func (s *identityStore) UpdateCredentials(ctx context.Context, principal *session.Principal, password string) error {
	identity, err := s.identities.GetByID(ctx, principal.UserID)
	if err != nil {
		return storeError("lookup identity", err)
	}
	if s.hasher.Compare(identity.PasswordHash, password) == nil {
		return newError(KindPasswordReused, "new password matches the current one", nil)
	}
	if err := s.RotatePassword(ctx, identity.ID, password); err != nil {
		return err
	}
	if principal.TokenType == security.TokenTypeRecovery {
		if err := s.revoked.Revoke(ctx, principal.TokenID, time.Until(principal.ExpiresAt)); err != nil {
			logger.Warn("Failed to revoke recovery token", "user_id", principal.UserID, "error", err)
		}
	}
	return nil
}

func (s *identityStore) SendRecoveryEmail(ctx context.Context, email string, kind RecoveryKind) error {
	path, ok := recoveryPaths[kind]
	if !ok {
		return newError(KindUnknown, "unknown recovery kind "+string(kind), nil)
	}
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		return storeError("lookup identity", err)
	}
	token, _, err := s.tokens.GenerateRecoveryToken(identity.ID, identity.Email)
	if err != nil {
		return newError(KindUnknown, "issue recovery token", err)
	}

	link := s.publicBaseURL + path + "?token=" + url.QueryEscape(token)
	if err := s.email.SendRecoveryLink(ctx, identity.Email, link, kind); err != nil {
		return newError(KindUnavailable, "send recovery email", err)
	}
	return nil
}

func (s *identityStore) ValidateToken(ctx context.Context, token string) (*session.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, newError(KindUnauthenticated, "", err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, newError(KindUnavailable, "check revocation", err)
	}
	if revoked {
		return nil, newError(KindUnauthenticated, "token revoked", nil)
	}

	userID, err := claims.AccountID()
	if err != nil {
		return nil, newError(KindUnauthenticated, "", err)
	}
	p := &session.Principal{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenType: claims.Type,
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}
