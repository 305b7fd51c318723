package repository

import (
	"context"

	"github.com/jhoicas/Medistore-api/internal/domain/entity"
)

// OrderFilter criterios de listado de pedidos. CustomerID no vacío restringe
// al dueño (la vista de un cliente); vacío = todos (vista admin).
type OrderFilter struct {
	CustomerID string
	Status     entity.OrderStatus // vacío = todos
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	// UpdateStatus cambia el estado y refresca updated_at. Devuelve el pedido
	// actualizado o nil si no existe.
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
}
