package session

import (
	"sync"
	"time"
)

// EventType tipo de cambio de estado de autenticación.
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Session sesión vigente emitida por el subsistema de auth.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Event notificación de cambio de sesión. Session es nil en signed_out.
type Event struct {
	Type    EventType
	Session *Session
}

// subscriberBuffer tamaño del canal por suscriptor; si se llena, el evento se
// descarta para ese suscriptor en vez de bloquear el camino de auth.
const subscriberBuffer = 8

// Manager fan-out de eventos auth-state-changed. El caso de uso de auth publica
// y los componentes interesados (Tracker) se suscriben; la baja es explícita
// vía la función devuelta por Subscribe.
type Manager struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// NewManager construye el manager sin suscriptores.
func NewManager() *Manager {
	return &Manager{subs: make(map[int]chan Event)}
}

// Subscribe registra un suscriptor y devuelve su canal junto con la función de
// baja. La baja cierra el canal y es idempotente.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	ch := make(chan Event, subscriberBuffer)
	m.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish entrega el evento a todos los suscriptores sin bloquear.
func (m *Manager) Publish(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			// Suscriptor saturado: se descarta el evento para no frenar auth.
		}
	}
}

// Subscribers cantidad de suscriptores activos.
func (m *Manager) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
