package repository

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetItem, UpdateItem y DeleteItem devuelven domain.ErrNotFound si el id no existe.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *entity.Item) error
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	// UpdateItem aplica el patch de forma atómica y devuelve el artículo resultante.
	UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (*entity.Item, error)
	DeleteItem(ctx context.Context, id string) error
	// ListItems devuelve los artículos en orden de creación.
	ListItems(ctx context.Context) ([]*entity.Item, error)
}
