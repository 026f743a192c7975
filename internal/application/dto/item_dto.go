package dto

import "time"

// CreateItemRequest entrada para crear un artículo.
// La categoría y la relación min < max se validan en el caso de uso.
type CreateItemRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Description   string `json:"description" validate:"max=1000"`
	Category      string `json:"category" validate:"required"`
	CurrentStock  int    `json:"current_stock" validate:"min=0"`
	MinStockLevel int    `json:"min_stock_level" validate:"min=0"`
	MaxStockLevel int    `json:"max_stock_level" validate:"min=1"`
}

// UpdateItemRequest edición parcial: los campos ausentes no se modifican.
type UpdateItemRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=1000"`
	Category      *string `json:"category"`
	CurrentStock  *int    `json:"current_stock"`
	MinStockLevel *int    `json:"min_stock_level"`
	MaxStockLevel *int    `json:"max_stock_level"`
}

// SetStockRequest cuerpo de PATCH /api/items/:id/stock.
type SetStockRequest struct {
	CurrentStock *int `json:"current_stock" validate:"required"`
}

// ItemFilter filtros del listado de artículos (query string).
type ItemFilter struct {
	Category     string `query:"category"`
	Search       string `query:"search"`
	NeedsReorder bool   `query:"needs_reorder"`

	// Sort "urgency" ordena agotados, luego bajo mínimo, luego el resto; por defecto orden de creación.
	Sort string `query:"sort" validate:"omitempty,oneof=urgency name created"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CurrentStock  int       `json:"current_stock"`
	MinStockLevel int       `json:"min_stock_level"`
	MaxStockLevel int       `json:"max_stock_level"`
	NeedsReorder  bool      `json:"needs_reorder"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemListResponse listado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Total int            `json:"total"`
}

// ReplenishmentSuggestionDTO artículo bajo mínimo con la cantidad sugerida para llegar al máximo.
type ReplenishmentSuggestionDTO struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	Category      string `json:"category"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
	Deficit       int    `json:"deficit"`
	SuggestedQty  int    `json:"suggested_qty"`
}
