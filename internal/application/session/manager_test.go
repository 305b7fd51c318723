package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/internal/application/session"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// blockingLoader loader controlable: cada GetProfile espera a que el test
// libere su resultado.
type blockingLoader struct {
	mu          sync.Mutex
	results     map[string]*entity.Profile
	errs        map[string]error
	gates       map[string]chan struct{} // si existe, GetProfile espera aquí
	invalidated []string
}

func newBlockingLoader() *blockingLoader {
	return &blockingLoader{
		results: map[string]*entity.Profile{},
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
	}
}

func (l *blockingLoader) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	l.mu.Lock()
	gate := l.gates[id]
	l.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.errs[id]; err != nil {
		return nil, err
	}
	return l.results[id], nil
}

func (l *blockingLoader) Invalidate(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated = append(l.invalidated, id)
}

func sessionFor(id string) *session.Session {
	return &session.Session{Token: "tok-" + id, UserID: id, Email: id + "@x.co", ExpiresAt: time.Now().Add(time.Hour)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Manager
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_PublishLlegaASuscriptores(t *testing.T) {
	mgr := session.NewManager()
	ch, unsubscribe := mgr.Subscribe()
	defer unsubscribe()

	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("u1")})

	select {
	case ev := <-ch:
		assert.Equal(t, session.EventSignedIn, ev.Type)
		assert.Equal(t, "u1", ev.Session.UserID)
	case <-time.After(time.Second):
		t.Fatal("el evento no llegó al suscriptor")
	}
}

func TestManager_UnsubscribeCierraElCanalYEsIdempotente(t *testing.T) {
	mgr := session.NewManager()
	ch, unsubscribe := mgr.Subscribe()
	require.Equal(t, 1, mgr.Subscribers())

	unsubscribe()
	unsubscribe() // segunda baja no debe entrar en pánico

	assert.Equal(t, 0, mgr.Subscribers())
	_, open := <-ch
	assert.False(t, open, "el canal debe quedar cerrado tras la baja")

	// Publicar sin suscriptores no debe bloquear ni fallar.
	mgr.Publish(session.Event{Type: session.EventSignedOut})
}

func TestManager_SuscriptorSaturadoNoBloqueaPublish(t *testing.T) {
	mgr := session.NewManager()
	_, unsubscribe := mgr.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		// Más eventos que el buffer del suscriptor; nadie consume.
		for i := 0; i < 50; i++ {
			mgr.Publish(session.Event{Type: session.EventTokenRefreshed, Session: sessionFor("u1")})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish se bloqueó con un suscriptor saturado")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tracker
// ──────────────────────────────────────────────────────────────────────────────

func TestTracker_SignedInCargaPerfil(t *testing.T) {
	mgr := session.NewManager()
	loader := newBlockingLoader()
	loader.results["u1"] = &entity.Profile{ID: "u1", Role: entity.RoleAdmin}

	tr := session.NewTracker(mgr, loader, nil)
	defer tr.Close()

	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("u1")})

	require.Eventually(t, func() bool {
		s := tr.Snapshot()
		return !s.Loading && s.Profile != nil
	}, time.Second, 5*time.Millisecond)

	s := tr.Snapshot()
	assert.Equal(t, "u1", s.Profile.ID)
	assert.True(t, s.IsAdmin)
	assert.Equal(t, "u1", s.Session.UserID)
}

func TestTracker_SignedOutLimpiaEstadoEInvalidaCache(t *testing.T) {
	mgr := session.NewManager()
	loader := newBlockingLoader()
	loader.results["u1"] = &entity.Profile{ID: "u1", Role: entity.RoleCustomer}

	tr := session.NewTracker(mgr, loader, nil)
	defer tr.Close()

	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("u1")})
	require.Eventually(t, func() bool { return tr.Snapshot().Profile != nil }, time.Second, 5*time.Millisecond)

	mgr.Publish(session.Event{Type: session.EventSignedOut})

	require.Eventually(t, func() bool {
		s := tr.Snapshot()
		return s.Session == nil && s.Profile == nil && !s.Loading
	}, time.Second, 5*time.Millisecond)

	assert.False(t, tr.Snapshot().IsAdmin, "sin perfil, isAdmin es false, no error")
	loader.mu.Lock()
	defer loader.mu.Unlock()
	assert.Contains(t, loader.invalidated, "u1", "el sign-out debe invalidar la entrada del caché")
}

// Carga en vuelo superada por una sesión nueva: el resultado viejo se descarta.
func TestTracker_DescartaResultadoDeGeneracionSuperada(t *testing.T) {
	mgr := session.NewManager()
	loader := newBlockingLoader()
	gateA := make(chan struct{})
	loader.gates["a"] = gateA
	loader.results["a"] = &entity.Profile{ID: "a", Role: entity.RoleAdmin}
	loader.results["b"] = &entity.Profile{ID: "b", Role: entity.RoleCustomer}

	tr := session.NewTracker(mgr, loader, nil)
	defer tr.Close()

	// Sesión A queda cargando (bloqueada en el gate)...
	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("a")})
	// ...y la sesión B la supersede.
	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("b")})

	require.Eventually(t, func() bool {
		s := tr.Snapshot()
		return s.Profile != nil && s.Profile.ID == "b"
	}, time.Second, 5*time.Millisecond)

	// Ahora se libera la carga de A: su resultado llega tarde y no debe pisar B.
	close(gateA)
	time.Sleep(50 * time.Millisecond)

	s := tr.Snapshot()
	assert.Equal(t, "b", s.Profile.ID, "el resultado obsoleto de A no debe sobrescribir a B")
	assert.False(t, s.IsAdmin)
}

// El error de carga degrada a perfil nil sin tumbar la sesión.
func TestTracker_ErrorDeCargaDegradaAPerfilNil(t *testing.T) {
	mgr := session.NewManager()
	loader := newBlockingLoader()
	loader.errs["u1"] = errors.New("db caída")

	tr := session.NewTracker(mgr, loader, nil)
	defer tr.Close()

	mgr.Publish(session.Event{Type: session.EventSignedIn, Session: sessionFor("u1")})

	require.Eventually(t, func() bool { return !tr.Snapshot().Loading }, time.Second, 5*time.Millisecond)

	s := tr.Snapshot()
	assert.Nil(t, s.Profile)
	assert.NotNil(t, s.Session, "la sesión sigue viva aunque el perfil no cargue")
	assert.False(t, s.IsAdmin)
}

func TestTracker_CloseDaDeBajaLaSuscripcion(t *testing.T) {
	mgr := session.NewManager()
	tr := session.NewTracker(mgr, newBlockingLoader(), nil)
	require.Equal(t, 1, mgr.Subscribers())

	tr.Close()
	assert.Equal(t, 0, mgr.Subscribers())
}
