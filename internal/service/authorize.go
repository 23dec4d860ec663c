package service

import (
	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/security"
	"journal-directory-backend/internal/session"
)

// Authorize reports whether current meets the required role. Unknown roles
// never pass.
func Authorize(required, current domain.Role) bool {
	if !required.Valid() || !current.Valid() {
		return false
	}
	return current.Rank() >= required.Rank()
}

// requireRole gates an operation on a signed-in caller holding required.
// Anonymous callers and recovery sessions never pass.
func requireRole(caller *session.Principal, required domain.Role) error {
	if caller == nil || caller.TokenType != security.TokenTypeAccess {
		return newError(KindPermissionDenied, "sign-in required", nil)
	}
	if !Authorize(required, caller.Role) {
		return newError(KindPermissionDenied, "requires role "+string(required), nil)
	}
	return nil
}
