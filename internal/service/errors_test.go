package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", newError(KindConflict, "", nil))))
}

func TestStoreError(t *testing.T) {
	assert.NoError(t, storeError("op", nil))
	assert.Equal(t, KindNotFound, KindOf(storeError("op", repository.ErrNotFound)))
	assert.Equal(t, KindConflict, KindOf(storeError("op", fmt.Errorf("people_orcid_key: %w", repository.ErrDuplicate))))
	assert.Equal(t, KindUnavailable, KindOf(storeError("op", context.DeadlineExceeded)))
	assert.Equal(t, KindUnknown, KindOf(storeError("op", errors.New("connection reset"))))

	inner := newError(KindPasswordReused, "", nil)
	assert.Same(t, inner, storeError("op", inner))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Invalid email or password.", UserMessage(newError(KindInvalidCredentials, "", nil)))
	assert.Equal(t, "Your CV could not be uploaded. Please try again.", UserMessage(newError(KindUploadFailed, "", nil)))
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("raw")))
	assert.Equal(t, "Please check the highlighted fields and try again.", UserMessage(newError(KindValidation, "", nil)))

	for _, k := range []Kind{
		KindAccountDeactivated, KindRateLimited, KindPermissionDenied, KindUnauthenticated,
		KindNotFound, KindConflict, KindInvalidTransition, KindPasswordReused,
		KindNotApproved, KindUnavailable,
	} {
		assert.NotEmpty(t, UserMessage(newError(k, "internal detail", nil)), k)
		assert.NotContains(t, UserMessage(newError(k, "internal detail", nil)), "internal detail", k)
	}
}

func TestAuthorize(t *testing.T) {
	cases := []struct {
		required, current domain.Role
		want              bool
	}{
		{domain.RoleAdmin, domain.RoleSuperAdmin, true},
		{domain.RoleAdmin, domain.RoleAdmin, true},
		{domain.RoleAdmin, domain.RoleEditor, false},
		{domain.RoleUser, domain.RoleResearcher, true},
		{domain.RoleSuperAdmin, domain.RoleAdmin, false},
		{domain.RoleUser, domain.Role("owner"), false},
		{domain.Role("owner"), domain.RoleSuperAdmin, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Authorize(tc.required, tc.current), "%s requires %s", tc.current, tc.required)
	}
}

func TestRequireRole_RecoverySessionNeverPasses(t *testing.T) {
	p := recoveryPrincipal(principal(domain.RoleSuperAdmin).UserID)
	p.Role = domain.RoleSuperAdmin

	assert.Equal(t, KindPermissionDenied, KindOf(requireRole(p, domain.RoleUser)))
	assert.Equal(t, KindPermissionDenied, KindOf(requireRole(nil, domain.RoleUser)))
	assert.NoError(t, requireRole(principal(domain.RoleUser), domain.RoleUser))
}
