package retry

import (
	"context"
	"errors"
	"time"
)

// Config opciones del decorador de reintentos.
type Config struct {
	MaxAttempts  int           // intentos totales (incluye el primero)
	InitialDelay time.Duration // espera tras el primer fallo; se duplica en cada reintento
}

// DefaultConfig 3 intentos con backoff 1s, 2s.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second}
}

type unrecoverableError struct {
	err error
}

func (e *unrecoverableError) Error() string { return e.err.Error() }
func (e *unrecoverableError) Unwrap() error { return e.err }

// Unrecoverable marca un error para que Do no lo reintente (ej. autorización denegada:
// repetir la operación no cambia el resultado).
func Unrecoverable(err error) error {
	if err == nil {
		return nil
	}
	return &unrecoverableError{err: err}
}

// Do ejecuta op; si falla y quedan intentos, espera el delay (duplicándolo en cada
// reintento, sin jitter) y vuelve a intentar. Agotados los intentos devuelve el último
// error. Todo error se reintenta salvo los marcados con Unrecoverable; quien necesite
// una clasificación más fina debe filtrar antes de invocar. La espera respeta la
// cancelación de ctx.
func Do(ctx context.Context, cfg Config, op func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		var ue *unrecoverableError
		if errors.As(lastErr, &ue) {
			return ue.err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
