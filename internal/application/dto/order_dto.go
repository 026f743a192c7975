package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de una orden nueva.
type OrderLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear un borrador de orden.
type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	Notes string             `json:"notes" validate:"max=1000"`
}

// CreateOrderFromReplenishmentRequest crea un borrador con las sugerencias de reposición.
// Prices asigna precio unitario por item_id; los artículos sin precio quedan en 0.
type CreateOrderFromReplenishmentRequest struct {
	Prices map[string]decimal.Decimal `json:"prices"`
	Notes  string                     `json:"notes" validate:"max=1000"`
}

// OrderLineResponse línea de una orden.
type OrderLineResponse struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de una orden de compra.
type OrderResponse struct {
	ID              string              `json:"id"`
	Items           []OrderLineResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	ExternalOrderID string              `json:"external_order_id,omitempty"`
	LastMessage     string              `json:"last_message,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse listado de órdenes (más reciente primero).
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// ExternalOrderStatusResponse estado de una orden en el sistema del proveedor.
type ExternalOrderStatusResponse struct {
	ExternalOrderID string          `json:"external_order_id"`
	Status          string          `json:"status"`
	Message         string          `json:"message,omitempty"`
	TrackingInfo    json.RawMessage `json:"tracking_info,omitempty"`
}

// SyncInventoryResponse resultado de sincronizar el inventario con el proveedor.
type SyncInventoryResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	ItemsSent int    `json:"items_sent"`
}
