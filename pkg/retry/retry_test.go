package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Medistore-api/pkg/retry"
)

// Caso 1: la operación funciona al primer intento → sin esperas ni reintentos.
func TestDo_ExitoAlPrimerIntento(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 3, InitialDelay: time.Second}, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "no debe reintentar si la operación funciona")
}

// Caso 2: falla dos veces y luego funciona → éxito, y la espera acumulada
// respeta el backoff exponencial (delay + 2*delay como mínimo).
func TestDo_BackoffExponencial(t *testing.T) {
	const base = 20 * time.Millisecond
	calls := 0
	start := time.Now()
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 3, InitialDelay: base}, func() error {
		calls++
		if calls < 3 {
			return errors.New("fallo transitorio")
		}
		return nil
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, elapsed, base+2*base,
		"la espera total debe ser al menos delay + 2*delay")
}

// Caso 3: la operación siempre falla → exactamente MaxAttempts intentos y
// se devuelve el último error.
func TestDo_AgotaIntentosYDevuelveUltimoError(t *testing.T) {
	calls := 0
	errFinal := errors.New("fallo definitivo")
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond}, func() error {
		calls++
		if calls == 3 {
			return errFinal
		}
		return errors.New("fallo intermedio")
	})
	assert.Equal(t, 3, calls, "debe intentar exactamente MaxAttempts veces")
	assert.ErrorIs(t, err, errFinal, "debe devolver el último error, no el primero")
}

// Caso 4: error marcado Unrecoverable → no se reintenta y se devuelve desenvuelto.
func TestDo_UnrecoverableNoSeReintenta(t *testing.T) {
	calls := 0
	errAuth := errors.New("acceso denegado")
	err := retry.Do(context.Background(), retry.Config{MaxAttempts: 5, InitialDelay: time.Millisecond}, func() error {
		calls++
		return retry.Unrecoverable(errAuth)
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, errAuth, err, "el error debe devolverse sin el wrapper")
}

// Caso 5: cancelar el contexto durante la espera corta el ciclo.
func TestDo_ContextoCanceladoDuranteEspera(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, InitialDelay: time.Minute}, func() error {
		calls++
		return errors.New("fallo")
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

// Unrecoverable(nil) debe seguir siendo nil para no convertir éxitos en fallos.
func TestUnrecoverable_NilSigueNil(t *testing.T) {
	assert.NoError(t, retry.Unrecoverable(nil))
}
