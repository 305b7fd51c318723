package profile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// fakeClock reloj controlado por el test.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)}
}

// Caso 1: dentro del TTL la entrada se devuelve tal cual.
func TestCache_HitDentroDelTTL(t *testing.T) {
	clock := newFakeClock()
	c := profile.NewCache(5*time.Minute, clock.Now)
	p := &entity.Profile{ID: "u1", Role: entity.RoleCustomer}

	c.Put("u1", p)
	clock.Advance(4 * time.Minute)

	got, ok := c.Get("u1")
	require.True(t, ok)
	assert.Same(t, p, got, "debe devolver el mismo objeto cacheado")
}

// Caso 2: al cumplirse el TTL la entrada expira.
func TestCache_ExpiraAlCumplirTTL(t *testing.T) {
	clock := newFakeClock()
	c := profile.NewCache(5*time.Minute, clock.Now)
	c.Put("u1", &entity.Profile{ID: "u1"})

	clock.Advance(5 * time.Minute)

	_, ok := c.Get("u1")
	assert.False(t, ok, "a la edad exacta del TTL la entrada ya es stale")
}

// Caso 3: Put sobrescribe y reinicia la edad.
func TestCache_PutSobrescribe(t *testing.T) {
	clock := newFakeClock()
	c := profile.NewCache(5*time.Minute, clock.Now)
	c.Put("u1", &entity.Profile{ID: "u1", FullName: "viejo"})

	clock.Advance(4 * time.Minute)
	c.Put("u1", &entity.Profile{ID: "u1", FullName: "nuevo"})
	clock.Advance(4 * time.Minute)

	got, ok := c.Get("u1")
	require.True(t, ok, "la segunda escritura reinicia el TTL")
	assert.Equal(t, "nuevo", got.FullName)
}

// Caso 4: Invalidate elimina una entrada; InvalidateAll vacía todo.
func TestCache_Invalidate(t *testing.T) {
	c := profile.NewCache(5*time.Minute, nil)
	c.Put("u1", &entity.Profile{ID: "u1"})
	c.Put("u2", &entity.Profile{ID: "u2"})

	c.Invalidate("u1")
	_, ok := c.Get("u1")
	assert.False(t, ok)
	_, ok = c.Get("u2")
	assert.True(t, ok)

	c.InvalidateAll()
	_, ok = c.Get("u2")
	assert.False(t, ok)
}

// Miss de una clave nunca escrita.
func TestCache_MissSinEntrada(t *testing.T) {
	c := profile.NewCache(0, nil) // TTL por defecto
	_, ok := c.Get("desconocido")
	assert.False(t, ok)
}
