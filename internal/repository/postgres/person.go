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

type personRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

const personColumns = `p.id, p.user_id, p.first_name, p.last_name, p.middle_name, p.full_name, p.title, p.suffix,
	p.email, p.phone, p.affiliation, p.position, p.department, p.specialization, p.orcid, p.bio,
	p.photo_url, p.cv_url, p.is_admin, p.is_active, p.is_verified, p.created_at, p.deleted_at`

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()

	logger.StoreCall("INSERT", "people", "id", p.ID, "full_name", p.FullName)
	query := `INSERT INTO people (id, user_id, first_name, last_name, middle_name, full_name, title, suffix,
	          email, phone, affiliation, position, department, specialization, orcid, bio, photo_url, cv_url,
	          is_admin, is_active, is_verified, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, nullUUID(p.UserID), p.FirstName, p.LastName, p.MiddleName, p.FullName, p.Title, p.Suffix,
		p.Email, p.Phone, p.Affiliation, p.Position, p.Department, pq.StringArray(p.Specialization), p.ORCID, p.Bio,
		p.PhotoURL, p.CVURL, p.IsAdmin, p.IsActive, p.IsVerified, p.CreatedAt,
	)
	if err != nil {
		logger.StoreResult("INSERT", "people", 0, err)
		return translateError(err)
	}
	return nil
}

func (r *personRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people p WHERE p.id = $1`
	return scanPerson(r.db.QueryRowContext(ctx, query, id))
}

func (r *personRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people p WHERE p.user_id = $1 AND p.deleted_at IS NULL`
	return scanPerson(r.db.QueryRowContext(ctx, query, userID))
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	logger.StoreCall("UPDATE", "people", "id", p.ID)
	query := `UPDATE people SET user_id=$1, first_name=$2, last_name=$3, middle_name=$4, full_name=$5, title=$6,
	          suffix=$7, email=$8, phone=$9, affiliation=$10, position=$11, department=$12, specialization=$13,
	          orcid=$14, bio=$15, photo_url=$16, cv_url=$17, is_admin=$18, is_active=$19, is_verified=$20,
	          deleted_at=$21 WHERE id=$22`
	res, err := r.db.ExecContext(ctx, query,
		nullUUID(p.UserID), p.FirstName, p.LastName, p.MiddleName, p.FullName, p.Title,
		p.Suffix, p.Email, p.Phone, p.Affiliation, p.Position, p.Department, pq.StringArray(p.Specialization),
		p.ORCID, p.Bio, p.PhotoURL, p.CVURL, p.IsAdmin, p.IsActive, p.IsVerified,
		nullTime(p.DeletedAt), p.ID,
	)
	if err != nil {
		logger.StoreResult("UPDATE", "people", 0, err)
		return translateError(err)
	}
	return expectOneRow(res)
}

type personRow struct {
	p         domain.Person
	userID    uuid.NullUUID
	deletedAt sql.NullTime
}

func (r *personRow) dest() []any {
	return []any{
		&r.p.ID, &r.userID, &r.p.FirstName, &r.p.LastName, &r.p.MiddleName, &r.p.FullName, &r.p.Title, &r.p.Suffix,
		&r.p.Email, &r.p.Phone, &r.p.Affiliation, &r.p.Position, &r.p.Department, pq.Array(&r.p.Specialization),
		&r.p.ORCID, &r.p.Bio, &r.p.PhotoURL, &r.p.CVURL, &r.p.IsAdmin, &r.p.IsActive, &r.p.IsVerified,
		&r.p.CreatedAt, &r.deletedAt,
	}
}

func (r *personRow) person() domain.Person {
	p := r.p
	p.UserID = uuidPtr(r.userID)
	p.DeletedAt = timePtr(r.deletedAt)
	return p
}

func scanPerson(row rowScanner) (*domain.Person, error) {
	var pr personRow
	if err := row.Scan(pr.dest()...); err != nil {
		return nil, translateError(err)
	}
	p := pr.person()
	return &p, nil
}
