package service

import (
	"context"
	"strings"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/validation"

	"github.com/google/uuid"
)

type editorialService struct {
	journals    repository.JournalRepository
	people      repository.PersonRepository
	assignments repository.AssignmentRepository
}

func NewEditorialService(journals repository.JournalRepository, people repository.PersonRepository, assignments repository.AssignmentRepository) EditorialService {
	return &editorialService{journals: journals, people: people, assignments: assignments}
}

func (s *editorialService) CreateJournal(ctx context.Context, caller *session.Principal, journal *domain.Journal) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	journal.Title = strings.TrimSpace(journal.Title)
	journal.ISSN = strings.TrimSpace(journal.ISSN)
	journal.EISSN = strings.TrimSpace(journal.EISSN)

	var errs validation.Errors
	validation.Required(&errs, "title", journal.Title, "Title is required")
	if journal.ISSN != "" && !validation.ValidISSN(journal.ISSN) {
		errs.Add("issn", "ISSN must look like 1234-567X")
	}
	if journal.EISSN != "" && !validation.ValidISSN(journal.EISSN) {
		errs.Add("e_issn", "E-ISSN must look like 1234-567X")
	}
	if len(errs) > 0 {
		return validationError(errs)
	}

	return storeError("create journal", s.journals.Create(ctx, journal))
}

func (s *editorialService) ListJournals(ctx context.Context, activeOnly bool) ([]domain.Journal, error) {
	journals, err := s.journals.List(ctx, activeOnly)
	if err != nil {
		return nil, storeError("list journals", err)
	}
	return journals, nil
}

// CreatePerson adds a staff-entered person with no login.
func (s *editorialService) CreatePerson(ctx context.Context, caller *session.Principal, person *domain.Person) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}

	var errs validation.Errors
	validation.Required(&errs, "first_name", person.FirstName, "First name is required")
	validation.Required(&errs, "last_name", person.LastName, "Last name is required")
	if person.Email != "" && !validation.ValidEmail(person.Email) {
		errs.Add("email", "Please enter a valid email address")
	}
	if orcid := strings.TrimSpace(person.ORCID); orcid != "" && !validation.ValidORCID(orcid) {
		errs.Add("orcid", "ORCID must look like 0000-0000-0000-0000")
	}
	if len(errs) > 0 {
		return validationError(errs)
	}

	person.UserID = nil
	person.ORCID = strings.TrimSpace(person.ORCID)
	person.Email = validation.NormalizeEmail(person.Email)
	person.ComputeFullName()
	return storeError("create person", s.people.Create(ctx, person))
}

func (s *editorialService) AssignEditor(ctx context.Context, caller *session.Principal, a *domain.EditorialAssignment) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}

	a.Role = strings.TrimSpace(a.Role)
	var errs validation.Errors
	validation.Required(&errs, "role", a.Role, "Role title is required")
	if !a.RoleType.Valid() {
		errs.Add("role_type", "Unknown editorial role type")
	}
	if a.DisplayOrder < 0 {
		errs.Add("display_order", "Display order cannot be negative")
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		errs.Add("end_date", "End date cannot be before the start date")
	}
	if a.PersonID == uuid.Nil {
		errs.Add("person_id", "Person is required")
	}
	if a.JournalID == uuid.Nil {
		errs.Add("journal_id", "Journal is required")
	}
	if len(errs) > 0 {
		return validationError(errs)
	}

	if _, err := s.journals.GetByID(ctx, a.JournalID); err != nil {
		return storeError("lookup journal", err)
	}
	person, err := s.people.GetByID(ctx, a.PersonID)
	if err != nil {
		return storeError("lookup person", err)
	}
	if person.DeletedAt != nil {
		return newError(KindNotFound, "person was removed", nil)
	}

	a.IsActive = true
	return storeError("create assignment", s.assignments.Create(ctx, a))
}

// SetAssignmentActive toggles an assignment. Assignments are never deleted.
func (s *editorialService) SetAssignmentActive(ctx context.Context, caller *session.Principal, id uuid.UUID, active bool) error {
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return err
	}
	return storeError("update assignment", s.assignments.SetActive(ctx, id, active))
}

func (s *editorialService) ListEditorialTeam(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error) {
	team, err := s.assignments.ListByJournal(ctx, journalID, activeOnly)
	if err != nil {
		return nil, storeError("list editorial team", err)
	}
	return team, nil
}
