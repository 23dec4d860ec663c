package security

import (
	"errors"
	"time"

	"journal-directory-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	// TokenTypeAccess is issued by a successful sign-in.
	TokenTypeAccess TokenType = "access"
	// TokenTypeRecovery is embedded in set-password and reset-password
	// links and only permits a credential update.
	TokenTypeRecovery TokenType = "recovery"
)

const issuer = "journal-directory"

type UserClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	Type   TokenType   `json:"type"`
	jwt.RegisteredClaims
}

// AccountID parses the user id claim.
func (c *UserClaims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string, role domain.Role) (string, time.Time, error)
	GenerateRecoveryToken(userID uuid.UUID, email string) (string, time.Time, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret      []byte
	accessTTL   time.Duration
	recoveryTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, recoveryTTL time.Duration) TokenManager {
	return &tokenManager{
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		recoveryTTL: recoveryTTL,
	}
}

func (m *tokenManager) GenerateAccessToken(userID uuid.UUID, email string, role domain.Role) (string, time.Time, error) {
	return m.sign(userID, email, role, TokenTypeAccess, "api-access", m.accessTTL)
}

func (m *tokenManager) GenerateRecoveryToken(userID uuid.UUID, email string) (string, time.Time, error) {
	return m.sign(userID, email, "", TokenTypeRecovery, "credential-update", m.recoveryTTL)
}

func (m *tokenManager) sign(userID uuid.UUID, email string, role domain.Role, typ TokenType, audience string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := UserClaims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL returns how long the token has left, for sizing revocation entries.
func (c *UserClaims) TTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
