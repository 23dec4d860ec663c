package session

import (
	"context"
	"sync"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/security"

	"github.com/google/uuid"
)

// Principal is the caller identity resolved from a request token.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.Role
	TokenType security.TokenType
	TokenID   string
	ExpiresAt time.Time
}

func (p *Principal) IsRecovery() bool {
	return p != nil && p.TokenType == security.TokenTypeRecovery
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the request principal, or nil when unauthenticated.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// Authenticator signs an identity in and out of the identity store.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Listener receives the new session after every change; nil means signed out.
type Listener func(*domain.Session)

// Session holds one identity-store session with an explicit lifecycle.
// A Session is safe for concurrent use.
type Session struct {
	auth Authenticator

	mu        sync.Mutex
	current   *domain.Session
	listeners map[int]Listener
	nextID    int
}

func New(auth Authenticator) *Session {
	return &Session{auth: auth, listeners: make(map[int]Listener)}
}

// Init signs in, replacing any session already held.
func (s *Session) Init(ctx context.Context, email, password string) error {
	if err := s.Teardown(ctx); err != nil {
		return err
	}
	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.set(sess)
	return nil
}

func (s *Session) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers fn and returns a function that unregisters it.
func (s *Session) OnChange(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Teardown signs out. The local session is cleared even when the identity
// store call fails; that error is still returned.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	cur := s.current
	s.mu.Unlock()
	if cur == nil {
		return nil
	}
	err := s.auth.SignOut(ctx, cur.AccessToken)
	s.set(nil)
	return err
}

func (s *Session) set(sess *domain.Session) {
	s.mu.Lock()
	s.current = sess
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(sess)
	}
}
