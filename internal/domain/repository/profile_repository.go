package repository

import (
	"context"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para Profile (DIP).
// GetByID devuelve nil, nil cuando la fila no existe (el caso "no encontrado"
// que dispara el fetch auto-reparador).
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	// Upsert inserta el perfil; si la PK ya existe (carrera con el trigger de
	// aprovisionamiento) actualiza email, full_name y updated_at conservando el rol.
	Upsert(ctx context.Context, profile *entity.Profile) error
	Update(ctx context.Context, profile *entity.Profile) error
	// SetRoleByEmail cambia el rol del perfil que coincide con el email (promoción
	// a admin). Devuelve el perfil actualizado o nil si no existe.
	SetRoleByEmail(ctx context.Context, email string, role entity.Role) (*entity.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
}

// PrincipalDirectory puerto de consulta al subsistema de identidades (auth).
// GetByID/GetByEmail devuelven nil, nil si el principal no existe.
type PrincipalDirectory interface {
	Create(ctx context.Context, principal *entity.Principal) error
	GetByID(ctx context.Context, id string) (*entity.Principal, error)
	GetByEmail(ctx context.Context, email string) (*entity.Principal, error)
}
