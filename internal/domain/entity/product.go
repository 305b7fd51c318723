package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product equipo médico del catálogo. Solo el rol admin escribe; el público
// únicamente ve filas con IsActive = true. CategoryID vacío = sin categoría
// (la FK se pone a NULL cuando la categoría se elimina).
type Product struct {
	ID             string
	Name           string
	Description    string
	Price          decimal.Decimal // >= 0
	Stock          int             // >= 0
	CategoryID     string          // vacío si no tiene categoría
	Images         []string        // URLs ordenadas
	Specifications json.RawMessage // mapa clave → valor escalar
	IsFeatured     bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
