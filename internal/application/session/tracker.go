package session

import (
	"context"
	"sync"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/pkg/logger"
)

// ProfileLoader lo que el tracker necesita del servicio de perfiles.
type ProfileLoader interface {
	GetProfile(ctx context.Context, principalID string) (*entity.Profile, error)
	Invalidate(principalID string)
}

// Snapshot estado observable de la sesión vigente.
type Snapshot struct {
	Session *Session
	Profile *entity.Profile
	IsAdmin bool
	Loading bool
}

// Tracker mantiene la vista {sesión, perfil, isAdmin, loading} reaccionando a
// los eventos del Manager. Cada cambio de principal incrementa una generación;
// las cargas de perfil en vuelo quedan etiquetadas con la generación que las
// originó y sus resultados se descartan si al llegar ya fueron superadas
// (además se cancela su contexto). Los errores de carga degradan a perfil nil,
// nunca tumban el flujo de sesión.
type Tracker struct {
	loader      ProfileLoader
	log         *logger.Logger
	unsubscribe func()
	done        chan struct{}

	mu         sync.Mutex
	session    *Session
	profile    *entity.Profile
	loading    bool
	generation uint64
	cancelLoad context.CancelFunc
}

// NewTracker se suscribe al manager y arranca el bucle de eventos. Close libera
// la suscripción.
func NewTracker(mgr *Manager, loader ProfileLoader, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	ch, unsubscribe := mgr.Subscribe()
	t := &Tracker{
		loader:      loader,
		log:         log,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}
	go t.run(ch)
	return t
}

func (t *Tracker) run(ch <-chan Event) {
	defer close(t.done)
	for ev := range ch {
		t.apply(ev)
	}
}

func (t *Tracker) apply(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Todo evento supersede cualquier carga anterior.
	t.generation++
	if t.cancelLoad != nil {
		t.cancelLoad()
		t.cancelLoad = nil
	}

	if ev.Type == EventSignedOut || ev.Session == nil {
		if t.session != nil {
			t.loader.Invalidate(t.session.UserID)
		}
		t.session = nil
		t.profile = nil
		t.loading = false
		return
	}

	t.session = ev.Session
	t.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	t.cancelLoad = cancel
	go t.load(ctx, t.generation, ev.Session.UserID)
}

func (t *Tracker) load(ctx context.Context, generation uint64, principalID string) {
	p, err := t.loader.GetProfile(ctx, principalID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if generation != t.generation {
		// Resultado de una sesión superada: se descarta.
		return
	}
	t.loading = false
	t.cancelLoad = nil
	if err != nil {
		t.log.Warn().Err(err).Str("principal_id", principalID).Msg("carga de perfil falló; sesión sin perfil")
		t.profile = nil
		return
	}
	t.profile = p
}

// Snapshot devuelve una copia del estado actual.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Session: t.session,
		Profile: t.profile,
		IsAdmin: t.profile.IsAdmin(),
		Loading: t.loading,
	}
}

// Close da de baja la suscripción, cancela cargas en vuelo y espera el cierre
// del bucle de eventos.
func (t *Tracker) Close() {
	t.unsubscribe()
	t.mu.Lock()
	if t.cancelLoad != nil {
		t.cancelLoad()
		t.cancelLoad = nil
	}
	t.mu.Unlock()
	<-t.done
}
