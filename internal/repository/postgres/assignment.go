package postgres

import (
	"context"
	"database/sql"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/repository"

	"github.com/google/uuid"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `e.id, e.person_id, e.journal_id, e.role, e.role_type, e.responsibilities,
	e.display_order, e.start_date, e.end_date, e.is_active, e.created_at`

func (r *assignmentRepository) Create(ctx context.Context, e *domain.EditorialAssignment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now().UTC()

	logger.StoreCall("INSERT", "journal_editorial_team", "journal_id", e.JournalID, "person_id", e.PersonID, "role_type", e.RoleType)
	query := `INSERT INTO journal_editorial_team (id, person_id, journal_id, role, role_type, responsibilities,
	          display_order, start_date, end_date, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.PersonID, e.JournalID, e.Role, e.RoleType, e.Responsibilities,
		e.DisplayOrder, nullTime(e.StartDate), nullTime(e.EndDate), e.IsActive, e.CreatedAt,
	)
	if err != nil {
		logger.StoreResult("INSERT", "journal_editorial_team", 0, err)
		return translateError(err)
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EditorialAssignment, error) {
	var ar assignmentRow
	query := `SELECT ` + assignmentColumns + ` FROM journal_editorial_team e WHERE e.id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(ar.dest()...); err != nil {
		return nil, translateError(err)
	}
	e := ar.assignment()
	return &e, nil
}

func (r *assignmentRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	logger.StoreCall("UPDATE", "journal_editorial_team", "id", id, "is_active", active)
	res, err := r.db.ExecContext(ctx, `UPDATE journal_editorial_team SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		logger.StoreResult("UPDATE", "journal_editorial_team", 0, err)
		return translateError(err)
	}
	return expectOneRow(res)
}

// ListByJournal returns the journal's team ordered by display order, then name.
func (r *assignmentRepository) ListByJournal(ctx context.Context, journalID uuid.UUID, activeOnly bool) ([]domain.EditorialTeamMember, error) {
	query := `SELECT ` + assignmentColumns + `, ` + personColumns + `
	          FROM journal_editorial_team e
	          JOIN people p ON p.id = e.person_id
	          WHERE e.journal_id = $1 AND p.deleted_at IS NULL`
	if activeOnly {
		query += ` AND e.is_active = TRUE`
	}
	query += ` ORDER BY e.display_order ASC, p.last_name ASC`

	rows, err := r.db.QueryContext(ctx, query, journalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var team []domain.EditorialTeamMember
	for rows.Next() {
		var (
			ar assignmentRow
			pr personRow
		)
		if err := rows.Scan(append(ar.dest(), pr.dest()...)...); err != nil {
			return nil, err
		}
		team = append(team, domain.EditorialTeamMember{Assignment: ar.assignment(), Person: pr.person()})
	}
	return team, rows.Err()
}

type assignmentRow struct {
	e         domain.EditorialAssignment
	startDate sql.NullTime
	endDate   sql.NullTime
}

func (r *assignmentRow) dest() []any {
	return []any{
		&r.e.ID, &r.e.PersonID, &r.e.JournalID, &r.e.Role, &r.e.RoleType, &r.e.Responsibilities,
		&r.e.DisplayOrder, &r.startDate, &r.endDate, &r.e.IsActive, &r.e.CreatedAt,
	}
}

func (r *assignmentRow) assignment() domain.EditorialAssignment {
	e := r.e
	e.StartDate = timePtr(r.startDate)
	e.EndDate = timePtr(r.endDate)
	return e
}
