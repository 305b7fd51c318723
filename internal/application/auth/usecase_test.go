package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/internal/application/auth"
	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/application/session"
	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (directorio de principals y repo de perfiles)
// ──────────────────────────────────────────────────────────────────────────────

type memDirectory struct {
	mu   sync.Mutex
	rows map[string]*entity.Principal
}

func newMemDirectory() *memDirectory { return &memDirectory{rows: map[string]*entity.Principal{}} }

func (d *memDirectory) Create(_ context.Context, p *entity.Principal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[p.ID] = p
	return nil
}

func (d *memDirectory) GetByID(_ context.Context, id string) (*entity.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows[id], nil
}

func (d *memDirectory) GetByEmail(_ context.Context, email string) (*entity.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.rows {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

type memProfiles struct {
	mu   sync.Mutex
	rows map[string]*entity.Profile
}

func newMemProfiles() *memProfiles { return &memProfiles{rows: map[string]*entity.Profile{}} }

func (r *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.rows[id]
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProfiles) Upsert(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[p.ID]; ok {
		existing.Email = p.Email
		existing.FullName = p.FullName
		existing.UpdatedAt = p.UpdatedAt
		return nil
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memProfiles) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memProfiles) SetRoleByEmail(_ context.Context, email string, role entity.Role) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Email == email {
			p.Role = role
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProfiles) List(_ context.Context, _, _ int) ([]*entity.Profile, error) { return nil, nil }

const testInvite = "codigo-secreto"

func newTestUseCase(t *testing.T) (*auth.UseCase, *memDirectory, *memProfiles, *session.Manager) {
	t.Helper()
	dir := newMemDirectory()
	profiles := newMemProfiles()
	cache := profile.NewCache(5*time.Minute, nil)
	svc := profile.NewService(cache, profiles, dir, retry.Config{MaxAttempts: 1}, nil)
	sessions := session.NewManager()
	uc := auth.NewUseCase(dir, svc, sessions, auth.JWTConfig{
		Secret:     "secret-de-test",
		ExpMinutes: 60,
		Issuer:     "medistore-test",
	}, testInvite, nil)
	return uc, dir, profiles, sessions
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// El registro crea principal + perfil customer y devuelve token.
func TestRegister_CreaPerfilCustomer(t *testing.T) {
	uc, dir, profiles, _ := newTestUseCase(t)

	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email:    "cliente@x.co",
		Password: "password123",
		FullName: "Cliente Uno",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "customer", out.User.Role)
	assert.False(t, out.IsAdmin)
	assert.Equal(t, "Cliente Uno", out.User.FullName)

	principal, err := dir.GetByEmail(context.Background(), "cliente@x.co")
	require.NoError(t, err)
	require.NotNil(t, principal)
	assert.NotEqual(t, "password123", principal.PasswordHash, "la contraseña nunca se guarda en claro")

	profiles.mu.Lock()
	defer profiles.mu.Unlock()
	assert.Len(t, profiles.rows, 1, "la verificación proactiva debe dejar el perfil creado")
}

// Email repetido → ErrEmailAlreadyExists.
func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "dup@x.co", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "dup@x.co", Password: "otropassword"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Código de invitación correcto → admin; incorrecto o ausente → customer.
func TestRegister_PromocionAdminSoloConCodigo(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)

	conCodigo, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "admin@x.co", Password: "password123", InviteCode: testInvite,
	})
	require.NoError(t, err)
	assert.True(t, conCodigo.IsAdmin)
	assert.Equal(t, "admin", conCodigo.User.Role)

	sinCodigo, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "normal@x.co", Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, sinCodigo.IsAdmin)

	codigoMalo, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "intruso@x.co", Password: "password123", InviteCode: "adivinado",
	})
	require.NoError(t, err, "el código incorrecto no es un error, solo no promueve")
	assert.False(t, codigoMalo.IsAdmin)
}

// Login correcto devuelve token; contraseña mala o email inexistente → ErrUnauthorized.
func TestLogin_VerificaCredenciales(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "u@x.co", Password: "password123"})
	require.NoError(t, err)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "u@x.co", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "u@x.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@x.co", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Login/registro publican eventos signed_in; logout publica signed_out.
func TestAuth_PublicaEventosDeSesion(t *testing.T) {
	uc, _, _, sessions := newTestUseCase(t)
	ch, unsubscribe := sessions.Subscribe()
	defer unsubscribe()

	out, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ev@x.co", Password: "password123"})
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, session.EventSignedIn, ev.Type)
	require.NotNil(t, ev.Session)
	assert.Equal(t, out.User.ID, ev.Session.UserID)

	uc.Logout(out.User.ID)
	ev = <-ch
	assert.Equal(t, session.EventSignedOut, ev.Type)
	assert.Nil(t, ev.Session)
}

// Refresh con token válido emite uno nuevo; token basura → ErrUnauthorized.
func TestRefresh_ReemiteToken(t *testing.T) {
	uc, _, _, _ := newTestUseCase(t)
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "r@x.co", Password: "password123"})
	require.NoError(t, err)

	renovado, err := uc.Refresh(context.Background(), out.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.Token)
	assert.Equal(t, out.User.ID, renovado.User.ID)

	_, err = uc.Refresh(context.Background(), "token.basura.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
