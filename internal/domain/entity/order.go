package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado de una orden de compra.
type OrderStatus string

// Estados válidos para Order.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusFailed    OrderStatus = "failed"
)

// OrderItem línea de una orden de compra. TotalPrice = Quantity * UnitPrice.
type OrderItem struct {
	ItemID     string          `json:"itemId"`
	ItemName   string          `json:"itemName"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Order orden de compra (borrador que puede enviarse a la API externa del proveedor).
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	ExternalOrderID string          `json:"externalOrderId,omitempty"`
	LastMessage     string          `json:"lastMessage,omitempty"` // último mensaje de la API externa
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Recalculate recalcula el total de cada línea y el total de la orden.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for i := range o.Items {
		line := &o.Items[i]
		line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(line.TotalPrice)
	}
	o.TotalAmount = total
}

// CanSend indica si la orden puede (re)enviarse a la API externa.
func (o *Order) CanSend() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusFailed
}
