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

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implementación del puerto ProfileRepository sobre user_profiles.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepository construye el adaptador de persistencia para perfiles.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `id, email, role, full_name, created_at, updated_at`

// GetByID obtiene un perfil por ID (= ID del principal).
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	return r.find(ctx, `WHERE id = $1`, id)
}

// GetByEmail obtiene un perfil por email.
func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	return r.find(ctx, `WHERE email = $1`, email)
}

func (r *ProfileRepo) find(ctx context.Context, where string, arg any) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles ` + where
	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Email, &p.Role, &p.FullName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// Upsert inserta el perfil. Si la PK ya existe (carrera con el aprovisionamiento
// automático del registro) actualiza email, full_name y updated_at pero conserva
// el rol ya presente: el fetch auto-reparador nunca degrada a un admin.
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO user_profiles (id, email, role, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.Role, p.FullName, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Único índice restante: email. Otro perfil ya usa ese email.
			return domain.ErrDuplicate
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Update actualiza email, full_name, role y updated_at de un perfil existente.
func (r *ProfileRepo) Update(ctx context.Context, p *entity.Profile) error {
	query := `
		UPDATE user_profiles SET email = $2, full_name = $3, role = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Email, p.FullName, p.Role, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// SetRoleByEmail cambia el rol del perfil con ese email y devuelve la fila
// actualizada, o nil si no existe.
func (r *ProfileRepo) SetRoleByEmail(ctx context.Context, email string, role entity.Role) (*entity.Profile, error) {
	query := `
		UPDATE user_profiles SET role = $2, updated_at = now()
		WHERE email = $1
		RETURNING ` + profileColumns
	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, email, role).Scan(
		&p.ID, &p.Email, &p.Role, &p.FullName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("set profile role: %w", err)
	}
	return &p, nil
}

// List lista perfiles con paginación (vista admin).
func (r *ProfileRepo) List(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Role, &p.FullName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
