package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.Store = (*Store)(nil)

// Store almacenamiento principal: compone los repositorios PostgreSQL sobre un mismo pool.
type Store struct {
	*ItemRepo
	*StockReportRepo
	*OrderRepo
}

// NewStore construye el almacenamiento principal sobre pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		ItemRepo:        NewItemRepository(pool),
		StockReportRepo: NewStockReportRepository(pool),
		OrderRepo:       NewOrderRepository(pool),
	}
}
