package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the credential record held by the identity store (auth_users).
type Identity struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastSignInAt *time.Time        `json:"last_sign_in_at,omitempty"`
}

// Session is an authenticated identity session issued by the identity store.
type Session struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
