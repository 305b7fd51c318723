package repository

import (
	"context"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// ProductFilter criterios de listado. OnlyActive refleja la política pública:
// los visitantes solo ven filas activas, un admin lista todo.
type ProductFilter struct {
	OnlyActive   bool
	OnlyFeatured bool
	CategoryID   string
	Limit        int
	Offset       int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// DecrementStock descuenta qty unidades de forma atómica; devuelve
	// domain.ErrInsufficientStock si no alcanza y domain.ErrNotFound si no existe.
	DecrementStock(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
}
