package security

import (
	"context"
	"testing"
	"time"

	"journal-directory-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_AccessToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 30*time.Minute)
	userID := uuid.New()

	token, expiresAt, err := tm.GenerateAccessToken(userID, "ana@example.org", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
}

func TestTokenManager_RecoveryToken(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 30*time.Minute)

	token, _, err := tm.GenerateRecoveryToken(uuid.New(), "ana@example.org")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRecovery, claims.Type)
	assert.Empty(t, claims.Role)
}

func TestTokenManager_Rejections(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, time.Hour)

	t.Run("Expired", func(t *testing.T) {
		expired := NewTokenManager(testSecret, -time.Minute, -time.Minute)
		token, _, err := expired.GenerateAccessToken(uuid.New(), "a@b.co", domain.RoleUser)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour, time.Hour)
		token, _, err := other.GenerateAccessToken(uuid.New(), "a@b.co", domain.RoleUser)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.NoError(t, h.Compare(hash, "Secret123"))
	assert.ErrorIs(t, h.Compare(hash, "Secret124"), ErrPasswordMismatch)
}

func TestMemoryRevocationList(t *testing.T) {
	l := NewMemoryRevocationList()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, l.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = l.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = l.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}
