package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido. Solo un admin lo muta.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus valida y convierte un string en OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("estado de pedido inválido: %q", s)
}

func (s OrderStatus) String() string { return string(s) }

// OrderItem línea de pedido: copia del nombre y precio del producto al momento
// de la compra (el catálogo puede cambiar después).
type OrderItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order pedido de la tienda. Cualquiera puede crearlo (compra anónima permitida:
// CustomerID vacío); la lectura queda restringida al dueño o a un admin.
type Order struct {
	ID              string
	CustomerID      string // vacío para compras sin sesión
	CustomerEmail   string
	CustomerName    string
	CustomerPhone   string
	Items           []OrderItem
	TotalAmount     decimal.Decimal // >= 0, calculado en servidor
	Status          OrderStatus
	ShippingAddress string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
