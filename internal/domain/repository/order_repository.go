package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de compra.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *entity.Order) error
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	// UpdateOrder persiste estado, id externo, último mensaje y fecha de actualización.
	UpdateOrder(ctx context.Context, order *entity.Order) error
	ListOrders(ctx context.Context) ([]*entity.Order, error)
}
