package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalOrderAPI puerto de salida hacia la API de pedidos del proveedor.
// Los errores de transporte se envuelven en domain.ErrExternalTimeout o domain.ErrExternalAPI.
type ExternalOrderAPI interface {
	// SendOrder envía la orden. Una respuesta success=false no es error de transporte.
	SendOrder(ctx context.Context, order ExternalOrder) (*SendOrderResult, error)
	SyncInventory(ctx context.Context, levels []InventoryLevel) (*SyncResult, error)
	GetOrderStatus(ctx context.Context, externalOrderID string) (*ExternalOrderStatus, error)
	// Ping consulta el endpoint de salud del proveedor.
	Ping(ctx context.Context) error
}

// ExternalOrder orden en el formato de línea del proveedor (productId, productName...).
type ExternalOrder struct {
	OrderID     string
	Items       []ExternalOrderLine
	TotalAmount decimal.Decimal
	Timestamp   time.Time
	Notes       string
}

// ExternalOrderLine línea de la orden en formato del proveedor.
type ExternalOrderLine struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// SendOrderResult respuesta del proveedor a un envío.
type SendOrderResult struct {
	Success         bool
	ExternalOrderID string
	Message         string
}

// InventoryLevel nivel de stock de un artículo para sincronizar.
type InventoryLevel struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	StockLevel  int    `json:"stockLevel"`
}

// SyncResult respuesta del proveedor a una sincronización de inventario.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ExternalOrderStatus estado de una orden en el sistema del proveedor.
// TrackingInfo se conserva sin interpretar.
type ExternalOrderStatus struct {
	Status       string          `json:"status"`
	Message      string          `json:"message,omitempty"`
	TrackingInfo json.RawMessage `json:"trackingInfo,omitempty"`
}
