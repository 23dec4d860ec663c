package postgres

import (
	"context"
	"database/sql"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `a.id, a.email, a.phone, a.role, a.approval_status, a.is_active, a.cv_url,
	a.approval_date, a.approved_by, a.registration_notes, a.person_id, a.last_login,
	a.workflow_state, a.recovery_sent_at, a.created_at, a.updated_at`

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	logger.StoreCall("INSERT", "user_profiles", "id", a.ID, "email", a.Email)
	query := `INSERT INTO user_profiles (id, email, phone, role, approval_status, is_active, cv_url,
	          approval_date, approved_by, registration_notes, person_id, last_login, workflow_state,
	          recovery_sent_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.Phone, a.Role, a.ApprovalStatus, a.IsActive, a.CVURL,
		nullTime(a.ApprovalDate), nullUUID(a.ApprovedBy), a.RegistrationNotes, nullUUID(a.PersonID),
		nullTime(a.LastLogin), a.WorkflowState, nullTime(a.RecoverySentAt), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		logger.StoreResult("INSERT", "user_profiles", 0, err)
		return translateError(err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_profiles a WHERE a.id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_profiles a WHERE LOWER(a.email) = LOWER($1)`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	logger.StoreCall("UPDATE", "user_profiles", "id", a.ID, "approval_status", a.ApprovalStatus, "workflow_state", a.WorkflowState)
	query := `UPDATE user_profiles SET email=$1, phone=$2, role=$3, approval_status=$4, is_active=$5, cv_url=$6,
	          approval_date=$7, approved_by=$8, registration_notes=$9, person_id=$10, last_login=$11,
	          workflow_state=$12, recovery_sent_at=$13, updated_at=$14 WHERE id=$15`
	res, err := r.db.ExecContext(ctx, query,
		a.Email, a.Phone, a.Role, a.ApprovalStatus, a.IsActive, a.CVURL,
		nullTime(a.ApprovalDate), nullUUID(a.ApprovedBy), a.RegistrationNotes, nullUUID(a.PersonID),
		nullTime(a.LastLogin), a.WorkflowState, nullTime(a.RecoverySentAt), a.UpdatedAt, a.ID,
	)
	if err != nil {
		logger.StoreResult("UPDATE", "user_profiles", 0, err)
		return translateError(err)
	}
	return expectOneRow(res)
}

// ListPending returns pending applications newest first, each with its
// person profile when one was written.
func (r *accountRepository) ListPending(ctx context.Context) ([]domain.PendingApplication, error) {
	query := `SELECT ` + accountColumns + `,
	          p.id, COALESCE(p.first_name, ''), COALESCE(p.middle_name, ''), COALESCE(p.last_name, ''),
	          COALESCE(p.full_name, ''), COALESCE(p.title, ''), COALESCE(p.affiliation, ''),
	          COALESCE(p.position, ''), COALESCE(p.orcid, ''), COALESCE(p.cv_url, ''), p.specialization
	          FROM user_profiles a
	          LEFT JOIN people p ON p.user_id = a.id AND p.deleted_at IS NULL
	          WHERE a.approval_status = 'pending'
	          ORDER BY a.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.PendingApplication
	for rows.Next() {
		var (
			ar       accountRow
			personID uuid.NullUUID
			p        domain.Person
		)
		dest := append(ar.dest(), &personID,
			&p.FirstName, &p.MiddleName, &p.LastName, &p.FullName, &p.Title,
			&p.Affiliation, &p.Position, &p.ORCID, &p.CVURL, pq.Array(&p.Specialization))
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		app := domain.PendingApplication{Account: ar.account()}
		if personID.Valid {
			p.ID = personID.UUID
			userID := app.Account.ID
			p.UserID = &userID
			p.Email = app.Account.Email
			app.Person = &p
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

// ListAwaitingRecovery returns approved, inactive accounts whose recovery
// email has not gone out yet.
func (r *accountRepository) ListAwaitingRecovery(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_profiles a
	          WHERE a.approval_status = 'approved' AND a.is_active = FALSE AND a.recovery_sent_at IS NULL
	          ORDER BY a.approval_date ASC`
	return r.list(ctx, query)
}

// ListStalled returns pending accounts created before the cutoff whose
// registration never reached the linked state.
func (r *accountRepository) ListStalled(ctx context.Context, createdBefore time.Time) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM user_profiles a
	          WHERE a.approval_status = 'pending' AND a.workflow_state <> 'linked' AND a.created_at < $1
	          ORDER BY a.created_at ASC`
	return r.list(ctx, query, createdBefore)
}

func (r *accountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var ar accountRow
		if err := rows.Scan(ar.dest()...); err != nil {
			return nil, err
		}
		accounts = append(accounts, ar.account())
	}
	return accounts, rows.Err()
}

// accountRow holds the nullable columns of a user_profiles scan.
type accountRow struct {
	a              domain.Account
	approvalDate   sql.NullTime
	approvedBy     uuid.NullUUID
	personID       uuid.NullUUID
	lastLogin      sql.NullTime
	recoverySentAt sql.NullTime
}

func (r *accountRow) dest() []any {
	return []any{
		&r.a.ID, &r.a.Email, &r.a.Phone, &r.a.Role, &r.a.ApprovalStatus, &r.a.IsActive, &r.a.CVURL,
		&r.approvalDate, &r.approvedBy, &r.a.RegistrationNotes, &r.personID, &r.lastLogin,
		&r.a.WorkflowState, &r.recoverySentAt, &r.a.CreatedAt, &r.a.UpdatedAt,
	}
}

func (r *accountRow) account() domain.Account {
	a := r.a
	a.ApprovalDate = timePtr(r.approvalDate)
	a.ApprovedBy = uuidPtr(r.approvedBy)
	a.PersonID = uuidPtr(r.personID)
	a.LastLogin = timePtr(r.lastLogin)
	a.RecoverySentAt = timePtr(r.recoverySentAt)
	return a
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var ar accountRow
	if err := row.Scan(ar.dest()...); err != nil {
		return nil, translateError(err)
	}
	a := ar.account()
	return &a, nil
}
