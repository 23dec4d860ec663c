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

type journalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) repository.JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Create(ctx context.Context, j *domain.Journal) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	j.CreatedAt = time.Now().UTC()

	logger.StoreCall("INSERT", "journals", "title", j.Title)
	query := `INSERT INTO journals (id, title, issn, e_issn, publisher, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, j.ID, j.Title, j.ISSN, j.EISSN, j.Publisher, j.IsActive, j.CreatedAt); err != nil {
		logger.StoreResult("INSERT", "journals", 0, err)
		return translateError(err)
	}
	return nil
}

func (r *journalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Journal, error) {
	j := &domain.Journal{}
	query := `SELECT id, title, issn, e_issn, publisher, is_active, created_at FROM journals WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&j.ID, &j.Title, &j.ISSN, &j.EISSN, &j.Publisher, &j.IsActive, &j.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return j, nil
}

func (r *journalRepository) List(ctx context.Context, activeOnly bool) ([]domain.Journal, error) {
	query := `SELECT id, title, issn, e_issn, publisher, is_active, created_at FROM journals`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journals []domain.Journal
	for rows.Next() {
		var j domain.Journal
		if err := rows.Scan(&j.ID, &j.Title, &j.ISSN, &j.EISSN, &j.Publisher, &j.IsActive, &j.CreatedAt); err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}
