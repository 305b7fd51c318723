package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea del pedido entrante. El precio nunca se acepta del
// cliente: se toma del catálogo al momento de crear.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear un pedido (inserción pública).
type CreateOrderRequest struct {
	CustomerEmail   string             `json:"customer_email" validate:"required,email"`
	CustomerName    string             `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerPhone   string             `json:"customer_phone" validate:"omitempty,max=30"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           string             `json:"notes"`
}

// UpdateOrderStatusRequest entrada para el cambio de estado (solo admin).
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListOrdersRequest filtros del listado de pedidos.
type ListOrdersRequest struct {
	Status string `query:"status"`
	PageRequest
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id,omitempty"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	Items           []OrderItemResponse `json:"products"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
