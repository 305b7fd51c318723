package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Medistore-api/internal/application/dto"
	"github.com/jhoicas/Medistore-api/internal/domain"
	"github.com/jhoicas/Medistore-api/internal/domain/entity"
	"github.com/jhoicas/Medistore-api/internal/domain/repository"
)

// OrderTxRunner ejecuta fn con repos atados a una transacción del store: el
// insert del pedido y los descuentos de stock confirman o revierten juntos.
type OrderTxRunner interface {
	Run(ctx context.Context, fn func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
	) error) error
}

// Viewer identidad efectiva de quien consulta pedidos.
type Viewer struct {
	PrincipalID string // vacío = anónimo
	IsAdmin     bool
}

// OrderUseCase creación pública de pedidos y consultas restringidas al dueño o
// a un admin. El total siempre se calcula en servidor con los precios vigentes
// del catálogo; el cliente jamás dicta precios.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	tx       OrderTxRunner
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository, tx OrderTxRunner) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, tx: tx}
}

// Create registra un pedido. customerID vacío = compra anónima. Dentro de la
// transacción se copian nombre/precio de cada producto, se calcula el total y
// se descuenta stock; ErrInsufficientStock o un producto inactivo abortan todo.
func (uc *OrderUseCase) Create(ctx context.Context, customerID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		CustomerEmail:   in.CustomerEmail,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		Status:          entity.OrderPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.tx.Run(ctx, func(orders repository.OrderRepository, products repository.ProductRepository) error {
		total := decimal.Zero
		items := make([]entity.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			product, err := products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.IsActive {
				return domain.ErrNotFound
			}
			if err := products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}
			items = append(items, entity.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}
		order.Items = items
		order.TotalAmount = total
		return orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID devuelve el pedido solo si el viewer es admin o su dueño. Para
// cualquier otro, el pedido no existe (no se filtra su existencia).
func (uc *OrderUseCase) GetByID(ctx context.Context, id string, viewer Viewer) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	if !viewer.IsAdmin && (viewer.PrincipalID == "" || order.CustomerID != viewer.PrincipalID) {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// List lista pedidos: un admin ve todos (con filtro de estado opcional), un
// cliente solo los suyos, un anónimo nada.
func (uc *OrderUseCase) List(ctx context.Context, in dto.ListOrdersRequest, viewer Viewer) (*dto.OrderListResponse, error) {
	if !viewer.IsAdmin && viewer.PrincipalID == "" {
		return nil, domain.ErrUnauthorized
	}
	in.DefaultPage()

	filter := repository.OrderFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		status, err := entity.ParseOrderStatus(in.Status)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.Status = status
	}
	if !viewer.IsAdmin {
		filter.CustomerID = viewer.PrincipalID
	}

	list, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// UpdateStatus cambia el estado (ruta admin). Estado fuera de la enumeración →
// ErrInvalidInput; pedido inexistente → nil.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	status, err := entity.ParseOrderStatus(in.Status)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	return toOrderResponse(order), nil
}

// Entity devuelve el pedido crudo para el generador de recibos (ruta admin).
func (uc *OrderUseCase) Entity(ctx context.Context, id string) (*entity.Order, error) {
	return uc.orders.GetByID(ctx, id)
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status.String(),
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
