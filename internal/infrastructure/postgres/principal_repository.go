package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
)

var _ repository.PrincipalDirectory = (*PrincipalRepo)(nil)

// PrincipalRepo implementación del puerto PrincipalDirectory sobre la tabla
// auth_users (el directorio de identidades).
type PrincipalRepo struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepository construye el adaptador del directorio de identidades.
func NewPrincipalRepository(pool *pgxpool.Pool) *PrincipalRepo {
	return &PrincipalRepo{pool: pool}
}

// Create persiste un nuevo principal. Email duplicado → domain.ErrEmailAlreadyExists.
func (r *PrincipalRepo) Create(ctx context.Context, p *entity.Principal) error {
	query := `
		INSERT INTO auth_users (id, email, password_hash, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FullName, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert principal: %w", err)
	}
	return nil
}

// GetByID obtiene un principal por ID.
func (r *PrincipalRepo) GetByID(ctx context.Context, id string) (*entity.Principal, error) {
	return r.find(ctx, `WHERE id = $1`, id)
}

// GetByEmail obtiene un principal por email.
func (r *PrincipalRepo) GetByEmail(ctx context.Context, email string) (*entity.Principal, error) {
	return r.find(ctx, `WHERE email = $1`, email)
}

func (r *PrincipalRepo) find(ctx context.Context, where string, arg any) (*entity.Principal, error) {
	query := `
		SELECT id, email, password_hash, full_name, created_at
		FROM auth_users ` + where
	var p entity.Principal
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get principal: %w", err)
	}
	return &p, nil
}
