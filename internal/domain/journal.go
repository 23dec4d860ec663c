package domain

import (
	"time"

	"github.com/google/uuid"
)

type Journal struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ISSN      string    `json:"issn,omitempty"`
	EISSN     string    `json:"e_issn,omitempty"`
	Publisher string    `json:"publisher,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type EditorialRoleType string

const (
	RoleTypeEditorInChief   EditorialRoleType = "editor_in_chief"
	RoleTypeAssociateEditor EditorialRoleType = "associate_editor"
	RoleTypeManagingEditor  EditorialRoleType = "managing_editor"
	RoleTypeBoardMember     EditorialRoleType = "board_member"
	RoleTypeReviewer        EditorialRoleType = "reviewer"
)

func (t EditorialRoleType) Valid() bool {
	switch t {
	case RoleTypeEditorInChief, RoleTypeAssociateEditor, RoleTypeManagingEditor, RoleTypeBoardMember, RoleTypeReviewer:
		return true
	}
	return false
}

// EditorialAssignment links a person to a journal with a role. A
// (person, journal) pair may hold several assignments over time.
type EditorialAssignment struct {
	ID               uuid.UUID         `json:"id"`
	PersonID         uuid.UUID         `json:"person_id"`
	JournalID        uuid.UUID         `json:"journal_id"`
	Role             string            `json:"role"`
	RoleType         EditorialRoleType `json:"role_type"`
	Responsibilities string            `json:"responsibilities,omitempty"`
	DisplayOrder     int               `json:"display_order"`
	StartDate        *time.Time        `json:"start_date,omitempty"`
	EndDate          *time.Time        `json:"end_date,omitempty"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
}

// EditorialTeamMember is an assignment joined with its person.
type EditorialTeamMember struct {
	Assignment EditorialAssignment `json:"assignment"`
	Person     Person              `json:"person"`
}
