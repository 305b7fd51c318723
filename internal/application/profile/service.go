package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
	"github.com/jhoicas/Medistore-api/pkg/logger"
	"github.com/jhoicas/Medistore-api/pkg/retry"
)

// Service resolución de perfiles con caché TTL, reintentos ante fallos
// transitorios y fetch auto-reparador: si el perfil no existe todavía (carrera
// con el aprovisionamiento del registro), lo inserta con rol customer a partir
// de la identidad del directorio.
type Service struct {
	cache     *Cache
	profiles  repository.ProfileRepository
	directory repository.PrincipalDirectory
	retryCfg  retry.Config
	log       *logger.Logger
}

// NewService construye el servicio de perfiles.
func NewService(cache *Cache, profiles repository.ProfileRepository, directory repository.PrincipalDirectory, retryCfg retry.Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cache:     cache,
		profiles:  profiles,
		directory: directory,
		retryCfg:  retryCfg,
		log:       log,
	}
}

// GetProfile devuelve el perfil del principal. Orden de resolución:
//  1. caché (si la entrada no superó el TTL, no hay viaje al store);
//  2. store a través del decorador de reintentos;
//  3. fila ausente → releer la identidad del directorio y hacer upsert de un
//     perfil customer (idempotente frente al trigger de aprovisionamiento: el
//     conflicto de PK se resuelve en el store y sobrevive exactamente una fila).
//
// Dos llamadas concurrentes para un principal sin cachear pueden ir ambas al
// store; es aceptable porque el upsert es idempotente y barato.
func (s *Service) GetProfile(ctx context.Context, principalID string) (*entity.Profile, error) {
	if p, ok := s.cache.Get(principalID); ok {
		return p, nil
	}

	var p *entity.Profile
	err := retry.Do(ctx, s.retryCfg, func() error {
		var ferr error
		p, ferr = s.profiles.GetByID(ctx, principalID)
		if ferr != nil && !transient(ferr) {
			return retry.Unrecoverable(ferr)
		}
		return ferr
	})
	if err != nil {
		return nil, err
	}

	if p == nil {
		p, err = s.selfHeal(ctx, principalID)
		if err != nil {
			return nil, err
		}
	}

	s.cache.Put(principalID, p)
	return p, nil
}

// transient indica si vale la pena reintentar el error del store. Denegaciones
// de autorización y entradas inválidas no cambian entre intentos.
func transient(err error) bool {
	return !errors.Is(err, domain.ErrForbidden) &&
		!errors.Is(err, domain.ErrUnauthorized) &&
		!errors.Is(err, domain.ErrInvalidInput)
}

// selfHeal inserta el perfil faltante con los datos del directorio de auth.
// Tras el upsert se relee la fila: si el trigger ganó la carrera nos quedamos
// con la versión fusionada del store.
func (s *Service) selfHeal(ctx context.Context, principalID string) (*entity.Profile, error) {
	principal, err := s.directory.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		// Sin identidad de respaldo no hay nada que reparar.
		return nil, domain.ErrProfileNotFound
	}

	name := principal.FullName
	if name == "" {
		name = principal.Email
	}
	now := time.Now()
	p := &entity.Profile{
		ID:        principalID,
		Email:     principal.Email,
		Role:      entity.RoleCustomer,
		FullName:  name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("principal_id", principalID).Msg("perfil faltante reparado con rol customer")

	if merged, err := s.profiles.GetByID(ctx, principalID); err == nil && merged != nil {
		return merged, nil
	}
	return p, nil
}

// UpdateProfile fusiona los campos parciales, refresca updated_at y escribe en
// el store; en éxito sobrescribe la entrada del caché. Los errores del store se
// propagan sin transformar.
func (s *Service) UpdateProfile(ctx context.Context, principalID string, in dto.UpdateProfileRequest) (*entity.Profile, error) {
	cached, err := s.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}
	// El objeto cacheado se comparte con lectores concurrentes: el merge se
	// hace sobre una copia y la entrada se reemplaza entera con Put.
	cp := *cached
	p := &cp
	if in.FullName != nil {
		p.FullName = *in.FullName
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	p.UpdatedAt = time.Now()
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	s.cache.Put(principalID, p)
	return p, nil
}

// PromoteAdmin cambia a admin el perfil que coincide con el email y refresca el
// caché con la fila resultante. Devuelve ErrProfileNotFound si no hay perfil;
// si ya es admin no hay escritura (la promoción es idempotente).
func (s *Service) PromoteAdmin(ctx context.Context, email string) (*entity.Profile, error) {
	existing, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrProfileNotFound
	}
	if existing.Role == entity.RoleAdmin {
		return existing, nil
	}

	p, err := s.profiles.SetRoleByEmail(ctx, email, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	s.cache.Put(p.ID, p)
	s.log.Warn().Str("email", email).Msg("perfil promovido a admin")
	return p, nil
}

// IsAdmin resuelve el perfil (caché mediante) y deriva el rol. Es el check
// autoritativo que respalda el gating consultivo del claim JWT.
func (s *Service) IsAdmin(ctx context.Context, principalID string) (bool, error) {
	p, err := s.GetProfile(ctx, principalID)
	if err != nil {
		return false, err
	}
	return p.IsAdmin(), nil
}

// Invalidate elimina la entrada del caché de un principal.
func (s *Service) Invalidate(principalID string) {
	s.cache.Invalidate(principalID)
}

// InvalidateAll vacía el caché completo.
func (s *Service) InvalidateAll() {
	s.cache.InvalidateAll()
}

// List lista perfiles (vista admin del back office).
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	return s.profiles.List(ctx, limit, offset)
}
