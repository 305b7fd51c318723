package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/application/session"
	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
	"github.com/jhoicas/Medistore-api/pkg/jwt"
	"github.com/jhoicas/Medistore-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro, login, refresh y logout.
// Los fallos se devuelven como valores de error, nunca como pánicos: quien
// llama decide cómo presentarlos.
type UseCase struct {
	principals repository.PrincipalDirectory
	profiles   *profile.Service
	sessions   *session.Manager
	jwtCfg     JWTConfig
	// inviteCode vacío deshabilita la promoción a admin desde el registro.
	inviteCode string
	log        *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(principals repository.PrincipalDirectory, profiles *profile.Service, sessions *session.Manager, jwtCfg JWTConfig, inviteCode string, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		principals: principals,
		profiles:   profiles,
		sessions:   sessions,
		jwtCfg:     jwtCfg,
		inviteCode: inviteCode,
		log:        log,
	}
}

// Register crea el principal (password con bcrypt), verifica proactivamente que
// el perfil exista (el fetch auto-reparador lo inserta si el aprovisionamiento
// aún no corrió) y emite el token. La promoción a admin exige el código de
// invitación configurado: un registro cualquiera jamás obtiene privilegios.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := uc.principals.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	principal := &entity.Principal{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		CreatedAt:    time.Now(),
	}
	if err := uc.principals.Create(ctx, principal); err != nil {
		return nil, err
	}

	// Verificación proactiva: garantiza la fila de perfil aunque el trigger
	// de aprovisionamiento todavía no haya corrido.
	prof, err := uc.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	if in.InviteCode != "" && uc.inviteCode != "" && in.InviteCode == uc.inviteCode {
		promoted, err := uc.profiles.PromoteAdmin(ctx, principal.Email)
		if err != nil {
			return nil, err
		}
		prof = promoted
	}

	return uc.issueSession(principal, prof, session.EventSignedIn)
}

// Login verifica email/password, resuelve el perfil y emite el token.
// Credenciales malas devuelven ErrUnauthorized sin distinguir causa.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	principal, err := uc.principals.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	prof, err := uc.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	return uc.issueSession(principal, prof, session.EventSignedIn)
}

// Refresh emite un token nuevo a partir de uno todavía válido y notifica el
// refresco a los suscriptores de sesión.
func (uc *UseCase) Refresh(ctx context.Context, tokenString string) (*dto.AuthResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, tokenString)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	principal, err := uc.principals.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	prof, err := uc.profiles.GetProfile(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return uc.issueSession(principal, prof, session.EventTokenRefreshed)
}

// Logout invalida la entrada del caché de perfiles y publica el sign-out.
// El token en sí es stateless: el cliente lo descarta.
func (uc *UseCase) Logout(principalID string) {
	uc.profiles.Invalidate(principalID)
	uc.sessions.Publish(session.Event{Type: session.EventSignedOut})
	uc.log.Info().Str("principal_id", principalID).Msg("sesión cerrada")
}

func (uc *UseCase) issueSession(principal *entity.Principal, prof *entity.Profile, eventType session.EventType) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, principal.ID, principal.Email, prof.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.sessions.Publish(session.Event{
		Type: eventType,
		Session: &session.Session{
			Token:     token,
			UserID:    principal.ID,
			Email:     principal.Email,
			ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		},
	})
	return &dto.AuthResponse{
		Token:   token,
		User:    ToProfileResponse(prof),
		IsAdmin: prof.IsAdmin(),
	}, nil
}

// ToProfileResponse mapea la entidad al DTO de salida.
func ToProfileResponse(p *entity.Profile) dto.ProfileResponse {
	if p == nil {
		return dto.ProfileResponse{}
	}
	return dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role.String(),
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
