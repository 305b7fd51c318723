package profile

import (
	"sync"
	"time"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// DefaultTTL staleness máxima de una entrada del caché de perfiles.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	profile   *entity.Profile
	fetchedAt time.Time
}

// Cache caché en proceso de perfiles por principal, con TTL fijo y reloj
// inyectable. Nunca es fuente de verdad: solo ahorra viajes al store dentro
// de la ventana de staleness. Seguro para uso concurrente.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache construye el caché. ttl <= 0 usa DefaultTTL; now nil usa time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get devuelve el perfil cacheado si su edad está dentro del TTL.
func (c *Cache) Get(principalID string) (*entity.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[principalID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, principalID)
		return nil, false
	}
	return e.profile, true
}

// Put guarda el perfil con timestamp actual, sobrescribiendo la entrada previa.
func (c *Cache) Put(principalID string, p *entity.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[principalID] = cacheEntry{profile: p, fetchedAt: c.now()}
}

// Invalidate elimina la entrada de un principal.
func (c *Cache) Invalidate(principalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, principalID)
}

// InvalidateAll vacía el caché (ej. tras sign-out).
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
