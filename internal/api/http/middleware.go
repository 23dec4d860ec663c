package http

import (
	"net/http"
	"strings"
	"time"

	"journal-directory-backend/internal/config"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/service"
	"journal-directory-backend/internal/session"

	"github.com/gorilla/mux"
)

// AuthMiddleware resolves the caller for each route according to the
// route's security level and stores the principal in the request context.
type AuthMiddleware struct {
	auth service.AuthService
}

func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := requestToken(r, level == config.SecurityRecovery)
		if token == "" {
			writeError(w, r, &service.Error{Kind: service.KindUnauthenticated, Message: "authorization token is not provided"})
			return
		}
		principal, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := checkSecurityLevel(level, principal); err != nil {
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithPrincipal(r.Context(), principal)))
	})
}

func checkSecurityLevel(level config.SecurityLevel, p *session.Principal) error {
	switch level {
	case config.SecurityAccess:
		if p.TokenType != security.TokenTypeAccess {
			return &service.Error{Kind: service.KindPermissionDenied, Message: "access token required"}
		}
	case config.SecurityRecovery:
		if p.TokenType != security.TokenTypeRecovery {
			return &service.Error{Kind: service.KindUnauthenticated, Message: "recovery token required"}
		}
	}
	return nil
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		return route.GetName()
	}
	return ""
}

// requestToken returns the bearer token. Recovery links carry the token as
// a query parameter, so recovery routes accept ?token= too.
func requestToken(r *http.Request, allowQuery bool) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if allowQuery {
		return r.URL.Query().Get("token")
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request",
			"method", r.Method,
			"route", routeName(r),
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
