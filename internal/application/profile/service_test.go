package profile_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeProfileRepo repositorio en memoria con contadores de llamadas.
type fakeProfileRepo struct {
	mu       sync.Mutex
	rows     map[string]*entity.Profile
	getCalls int
	failGets int   // los próximos N GetByID fallan
	failErr  error // error devuelto en los fallos; nil = transitorio genérico
	missNext bool  // el próximo GetByID devuelve nil aunque la fila exista
	upserts  int
	roleSets int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: map[string]*entity.Profile{}}
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.failGets > 0 {
		r.failGets--
		if r.failErr != nil {
			return nil, r.failErr
		}
		return nil, errors.New("connection reset")
	}
	if r.missNext {
		r.missNext = false
		return nil, nil
	}
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
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

// Upsert replica la semántica ON CONFLICT del store: si la fila existe solo
// actualiza email/full_name/updated_at conservando el rol.
func (r *fakeProfileRepo) Upsert(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
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

func (r *fakeProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) SetRoleByEmail(_ context.Context, email string, role entity.Role) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roleSets++
	for _, p := range r.rows {
		if p.Email == email {
			p.Role = role
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) List(_ context.Context, _, _ int) ([]*entity.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

// fakeDirectory directorio de identidades en memoria.
type fakeDirectory struct {
	mu   sync.Mutex
	rows map[string]*entity.Principal
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{rows: map[string]*entity.Principal{}}
}

func (d *fakeDirectory) Create(_ context.Context, p *entity.Principal) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[p.ID] = p
	return nil
}

func (d *fakeDirectory) GetByID(_ context.Context, id string) (*entity.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rows[id], nil
}

func (d *fakeDirectory) GetByEmail(_ context.Context, email string) (*entity.Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.rows {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond}
}

func newService(repo *fakeProfileRepo, dir *fakeDirectory, clock *fakeClock) *profile.Service {
	cache := profile.NewCache(5*time.Minute, clock.Now)
	return profile.NewService(cache, repo, dir, fastRetry(), nil)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad: una segunda llamada dentro del TTL no toca el store.
func TestGetProfile_CacheEvitaSegundaLectura(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer}
	clock := newFakeClock()
	svc := newService(repo, newFakeDirectory(), clock)

	p1, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	reads := repo.reads()

	clock.Advance(4 * time.Minute)
	p2, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, reads, repo.reads(), "dentro del TTL no debe haber viaje al store")
	assert.Same(t, p1, p2, "debe devolver el objeto cacheado")
}

// Propiedad: vencido el TTL, la siguiente llamada hace exactamente una lectura.
func TestGetProfile_TrasTTLUnaSolaLectura(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer}
	clock := newFakeClock()
	svc := newService(repo, newFakeDirectory(), clock)

	_, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	reads := repo.reads()

	clock.Advance(6 * time.Minute)
	_, err = svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, reads+1, repo.reads(), "tras el TTL debe haber exactamente una lectura")
}

// Fila ausente → se repara con la identidad del directorio y rol customer.
func TestGetProfile_SelfHealInsertaCustomer(t *testing.T) {
	repo := newFakeProfileRepo()
	dir := newFakeDirectory()
	dir.rows["nuevo"] = &entity.Principal{ID: "nuevo", Email: "n@x.co", FullName: "Nuevo Usuario"}
	svc := newService(repo, dir, newFakeClock())

	p, err := svc.GetProfile(context.Background(), "nuevo")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleCustomer, p.Role)
	assert.Equal(t, "Nuevo Usuario", p.FullName, "full_name sale de la metadata")
	assert.Equal(t, 1, repo.upserts)
	assert.NotNil(t, repo.rows["nuevo"], "la fila debe quedar persistida")
}

// Sin metadata, full_name cae al email.
func TestGetProfile_SelfHealFullNamePorDefectoEsEmail(t *testing.T) {
	repo := newFakeProfileRepo()
	dir := newFakeDirectory()
	dir.rows["u2"] = &entity.Principal{ID: "u2", Email: "solo@email.co"}
	svc := newService(repo, dir, newFakeClock())

	p, err := svc.GetProfile(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "solo@email.co", p.FullName)
}

// Idempotencia: dos llamadas concurrentes para un principal nuevo dejan
// exactamente una fila, con rol customer, sin importar cuántos upserts corran.
func TestGetProfile_SelfHealConcurrenteUnaSolaFila(t *testing.T) {
	repo := newFakeProfileRepo()
	dir := newFakeDirectory()
	dir.rows["race"] = &entity.Principal{ID: "race", Email: "race@x.co"}
	svc := newService(repo, dir, newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetProfile(context.Background(), "race")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, repo.rows, 1, "debe sobrevivir exactamente una fila")
	assert.Equal(t, entity.RoleCustomer, repo.rows["race"].Role)
}

// Carrera perdida contra el trigger: la lectura no ve la fila, el upsert llega
// después de que el trigger ya la insertó. El conflicto solo fusiona
// email/full_name/updated_at y el servicio devuelve la fila fusionada del store.
func TestGetProfile_SelfHealNoDegradaRolExistente(t *testing.T) {
	repo := newFakeProfileRepo()
	dir := newFakeDirectory()
	dir.rows["adm"] = &entity.Principal{ID: "adm", Email: "adm@x.co", FullName: "Adm"}
	svc := newService(repo, dir, newFakeClock())

	// El trigger ya insertó la fila como admin, pero la primera lectura del
	// servicio no la ve (réplica rezagada / carrera de primer login).
	repo.rows["adm"] = &entity.Profile{ID: "adm", Email: "viejo@x.co", Role: entity.RoleAdmin}
	repo.missNext = true

	p, err := svc.GetProfile(context.Background(), "adm")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, p.Role, "el upsert no debe pisar el rol existente")
	assert.Equal(t, "adm@x.co", p.Email, "email sí se fusiona en el conflicto")
	assert.Len(t, repo.rows, 1)
}

// Sin fila y sin identidad de respaldo → ErrProfileNotFound.
func TestGetProfile_SinIdentidadPropagaNotFound(t *testing.T) {
	svc := newService(newFakeProfileRepo(), newFakeDirectory(), newFakeClock())
	_, err := svc.GetProfile(context.Background(), "fantasma")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

// Fallos transitorios del store se absorben con reintentos.
func TestGetProfile_ReintentaFallosTransitorios(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer}
	repo.failGets = 2 // los dos primeros intentos fallan
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	p, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err, "dos fallos transitorios caben en 3 intentos")
	assert.Equal(t, "u1", p.ID)
}

// Una denegación de autorización no cambia entre intentos: un solo viaje al store.
func TestGetProfile_ErrorNoTransitorioNoSeReintenta(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.failGets = 3
	repo.failErr = domain.ErrForbidden
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	_, err := svc.GetProfile(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, repo.getCalls, "el error no transitorio no debe reintentarse")
}

// UpdateProfile escribe el merge y sobrescribe el caché.
func TestUpdateProfile_SobrescribeCache(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer, FullName: "Antes"}
	clock := newFakeClock()
	svc := newService(repo, newFakeDirectory(), clock)

	nuevo := "Después"
	p, err := svc.UpdateProfile(context.Background(), "u1", dto.UpdateProfileRequest{FullName: &nuevo})
	require.NoError(t, err)
	assert.Equal(t, "Después", p.FullName)

	reads := repo.reads()
	got, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Después", got.FullName)
	assert.Equal(t, reads, repo.reads(), "la lectura posterior debe salir del caché")
}

// El merge no debe escribir sobre el objeto cacheado: los lectores que ya
// tienen el puntero conservan la versión anterior intacta.
func TestUpdateProfile_NoMutaObjetoCacheado(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer, FullName: "Antes"}
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	antes, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	nuevo := "Después"
	_, err = svc.UpdateProfile(context.Background(), "u1", dto.UpdateProfileRequest{FullName: &nuevo})
	require.NoError(t, err)

	assert.Equal(t, "Antes", antes.FullName, "el puntero entregado antes del update no debe mutar")
	got, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Después", got.FullName)
}

// Lectores concurrentes durante updates: sin escrituras in situ sobre el objeto
// compartido no hay carrera (verificable con -race).
func TestUpdateProfile_LectoresConcurrentes(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer, FullName: "v0"}
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p, err := svc.GetProfile(context.Background(), "u1")
				if err == nil && p != nil {
					_ = p.FullName
					_ = p.IsAdmin()
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			nombre := "v" + strconv.Itoa(j)
			_, _ = svc.UpdateProfile(context.Background(), "u1", dto.UpdateProfileRequest{FullName: &nombre})
		}
	}()
	wg.Wait()
}

// Invalidate fuerza la siguiente lectura contra el store.
func TestInvalidate_FuerzaRelectura(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer}
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	_, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	reads := repo.reads()

	svc.Invalidate("u1")
	_, err = svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, reads+1, repo.reads())
}

// PromoteAdmin actualiza rol y deja el caché consistente.
func TestPromoteAdmin_ActualizaRolYCache(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleCustomer}
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	p, err := svc.PromoteAdmin(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	ok, err := svc.IsAdmin(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.PromoteAdmin(context.Background(), "noexiste@x.co")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

// Promover a quien ya es admin no reescribe el rol en el store.
func TestPromoteAdmin_IdempotenteSinReescritura(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.rows["u1"] = &entity.Profile{ID: "u1", Email: "a@b.co", Role: entity.RoleAdmin}
	svc := newService(repo, newFakeDirectory(), newFakeClock())

	p, err := svc.PromoteAdmin(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, 0, repo.roleSets, "un admin existente no debe generar escritura")
}
