package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleResearcher Role = "researcher"
	RoleReviewer   Role = "reviewer"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleRank orders roles from least to most privileged.
var roleRank = map[Role]int{
	RoleUser:       0,
	RoleResearcher: 1,
	RoleReviewer:   2,
	RoleEditor:     3,
	RoleAdmin:      4,
	RoleSuperAdmin: 5,
}

// Rank returns the privilege rank of the role, or -1 for an unknown role.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// IsOperator reports whether the role belongs in the operator console.
func (r Role) IsOperator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// Account is the login-capable profile row (user_profiles) for an identity.
type Account struct {
	ID                uuid.UUID      `json:"id"`
	Email             string         `json:"email"`
	Phone             string         `json:"phone,omitempty"`
	Role              Role           `json:"role"`
	ApprovalStatus    ApprovalStatus `json:"approval_status"`
	IsActive          bool           `json:"is_active"`
	CVURL             string         `json:"cv_url,omitempty"`
	ApprovalDate      *time.Time     `json:"approval_date,omitempty"`
	ApprovedBy        *uuid.UUID     `json:"approved_by,omitempty"`
	RegistrationNotes string         `json:"registration_notes,omitempty"`
	PersonID          *uuid.UUID     `json:"person_id,omitempty"`
	LastLogin         *time.Time     `json:"last_login,omitempty"`
	WorkflowState     WorkflowState  `json:"workflow_state"`
	RecoverySentAt    *time.Time     `json:"recovery_sent_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PendingApplication is a pending account joined with its person profile.
// Person is nil when registration stopped before the person row was written.
type PendingApplication struct {
	Account Account `json:"account"`
	Person  *Person `json:"person,omitempty"`
}
