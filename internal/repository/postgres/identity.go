package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/repository"

	"github.com/google/uuid"
)

type identityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

const identityColumns = `id, email, password_hash, metadata, created_at, last_sign_in_at`

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	identity.CreatedAt = time.Now().UTC()
	meta, err := json.Marshal(identity.Metadata)
	if err != nil {
		return err
	}
	if identity.Metadata == nil {
		meta = []byte("{}")
	}

	logger.StoreCall("INSERT", "auth_users", "email", identity.Email)
	query := `INSERT INTO auth_users (id, email, password_hash, metadata, created_at) VALUES ($1, $2, $3, $4, $5)`
	res, err := r.db.ExecContext(ctx, query, identity.ID, identity.Email, identity.PasswordHash, meta, identity.CreatedAt)
	if err != nil {
		logger.StoreResult("INSERT", "auth_users", 0, err)
		return translateError(err)
	}
	n, _ := res.RowsAffected()
	logger.StoreResult("INSERT", "auth_users", n, nil, "id", identity.ID)
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM auth_users WHERE id = $1`
	return scanIdentity(r.db.QueryRowContext(ctx, query, id))
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM auth_users WHERE LOWER(email) = LOWER($1)`
	return scanIdentity(r.db.QueryRowContext(ctx, query, email))
}

func (r *identityRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	logger.StoreCall("UPDATE", "auth_users", "id", id, "field", "password_hash")
	res, err := r.db.ExecContext(ctx, `UPDATE auth_users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		logger.StoreResult("UPDATE", "auth_users", 0, err)
		return translateError(err)
	}
	return expectOneRow(res)
}

func (r *identityRepository) TouchLastSignIn(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE auth_users SET last_sign_in_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return translateError(err)
	}
	return expectOneRow(res)
}

func scanIdentity(row rowScanner) (*domain.Identity, error) {
	var (
		identity domain.Identity
		meta     []byte
		lastSign sql.NullTime
	)
	if err := row.Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &meta, &identity.CreatedAt, &lastSign); err != nil {
		return nil, translateError(err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &identity.Metadata); err != nil {
			return nil, err
		}
	}
	identity.LastSignInAt = timePtr(lastSign)
	return &identity, nil
}
