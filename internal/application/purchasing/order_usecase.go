package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// OrderUseCase borradores de órdenes de compra y su envío a la API del proveedor.
type OrderUseCase struct {
	orders      repository.OrderRepository
	items       repository.ItemRepository
	api         ports.ExternalOrderAPI
	pdf         OrderPDFGenerator
	suggestions SuggestionSource
	log         *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.OrderRepository,
	items repository.ItemRepository,
	api ports.ExternalOrderAPI,
	pdf OrderPDFGenerator,
	suggestions SuggestionSource,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:      orders,
		items:       items,
		api:         api,
		pdf:         pdf,
		suggestions: suggestions,
		log:         log.Component("orders"),
	}
}

// Create crea un borrador pendiente. Las líneas repetidas del mismo artículo se suman;
// si traen precios distintos la orden se rechaza.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene artículos", domain.ErrValidation)
	}

	lines := make([]entity.OrderItem, 0, len(in.Items))
	index := make(map[string]int, len(in.Items))
	for _, l := range in.Items {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad inválida (%d) para %s", domain.ErrValidation, l.Quantity, l.ItemID)
		}
		if l.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio negativo para %s", domain.ErrValidation, l.ItemID)
		}
		if i, ok := index[l.ItemID]; ok {
			if !lines[i].UnitPrice.Equal(l.UnitPrice) {
				return nil, fmt.Errorf("%w: precios distintos para %s en la misma orden", domain.ErrValidation, l.ItemID)
			}
			lines[i].Quantity += l.Quantity
			continue
		}
		item, err := uc.items.GetItem(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		index[l.ItemID] = len(lines)
		lines = append(lines, entity.OrderItem{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:        uuid.New().String(),
		Items:     lines,
		Status:    entity.OrderStatusPending,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.Recalculate()
	if err := uc.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Int("lines", len(order.Items)).
		Str("total", order.TotalAmount.StringFixed(2)).Msg("orden creada")
	return toOrderResponse(order), nil
}

// CreateFromReplenishment crea un borrador con la cantidad sugerida de cada artículo bajo mínimo.
func (uc *OrderUseCase) CreateFromReplenishment(ctx context.Context, in dto.CreateOrderFromReplenishmentRequest) (*dto.OrderResponse, error) {
	suggestions, err := uc.suggestions.Suggestions(ctx)
	if err != nil {
		return nil, err
	}
	req := dto.CreateOrderRequest{Notes: in.Notes}
	for _, s := range suggestions {
		if s.SuggestedQty <= 0 {
			continue
		}
		price := decimal.Zero
		if p, ok := in.Prices[s.ItemID]; ok {
			price = p
		}
		req.Items = append(req.Items, dto.OrderLineRequest{ItemID: s.ItemID, Quantity: s.SuggestedQty, UnitPrice: price})
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no hay artículos que reponer", domain.ErrValidation)
	}
	return uc.Create(ctx, req)
}

// Get obtiene una orden por ID.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List devuelve las órdenes, la más reciente primero.
func (uc *OrderUseCase) List(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, err := uc.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{Orders: make([]dto.OrderResponse, 0, len(orders)), Total: len(orders)}
	for _, o := range orders {
		out.Orders = append(out.Orders, *toOrderResponse(o))
	}
	return out, nil
}

// Send envía la orden al proveedor. Solo se envían órdenes pendientes o fallidas.
// Un fallo de transporte (incluido el timeout) deja la orden en failed y se devuelve el error;
// un rechazo del proveedor (success=false) deja la orden en failed sin error.
func (uc *OrderUseCase) Send(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.CanSend() {
		return nil, fmt.Errorf("%w: la orden está en estado %s", domain.ErrInvalidTransition, order.Status)
	}

	res, apiErr := uc.api.SendOrder(ctx, toExternalOrder(order))
	order.UpdatedAt = time.Now().UTC()
	switch {
	case apiErr != nil:
		order.Status = entity.OrderStatusFailed
		order.LastMessage = apiErr.Error()
	case !res.Success:
		order.Status = entity.OrderStatusFailed
		order.LastMessage = nonEmpty(res.Message, "el proveedor rechazó la orden")
	default:
		order.Status = entity.OrderStatusSent
		order.ExternalOrderID = res.ExternalOrderID
		order.LastMessage = res.Message
	}

	if err := uc.orders.UpdateOrder(ctx, order); err != nil {
		if apiErr != nil {
			uc.log.Error().Err(err).Str("order_id", order.ID).Msg("no se pudo registrar el fallo de envío")
			return nil, apiErr
		}
		return nil, err
	}
	if apiErr != nil {
		uc.log.Warn().Err(apiErr).Str("order_id", order.ID).Msg("envío de orden fallido")
		return nil, apiErr
	}
	uc.log.Info().Str("order_id", order.ID).Str("status", string(order.Status)).
		Str("external_order_id", order.ExternalOrderID).Msg("orden procesada por el proveedor")
	return toOrderResponse(order), nil
}

// SyncInventory envía al proveedor el stock actual de todos los artículos.
func (uc *OrderUseCase) SyncInventory(ctx context.Context) (*dto.SyncInventoryResponse, error) {
	items, err := uc.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	levels := make([]ports.InventoryLevel, 0, len(items))
	for _, it := range items {
		levels = append(levels, ports.InventoryLevel{ProductID: it.ID, ProductName: it.Name, StockLevel: it.CurrentStock})
	}
	res, err := uc.api.SyncInventory(ctx, levels)
	if err != nil {
		return nil, err
	}
	return &dto.SyncInventoryResponse{Success: res.Success, Message: res.Message, ItemsSent: len(levels)}, nil
}

// ExternalStatus consulta el estado de una orden en el proveedor. Si el proveedor la
// informa como confirmada, la orden local enviada pasa a confirmed.
func (uc *OrderUseCase) ExternalStatus(ctx context.Context, externalOrderID string) (*dto.ExternalOrderStatusResponse, error) {
	if strings.TrimSpace(externalOrderID) == "" {
		return nil, fmt.Errorf("%w: id externo vacío", domain.ErrValidation)
	}
	st, err := uc.api.GetOrderStatus(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(st.Status, string(entity.OrderStatusConfirmed)) {
		uc.markConfirmed(ctx, externalOrderID, st.Message)
	}
	return &dto.ExternalOrderStatusResponse{
		ExternalOrderID: externalOrderID,
		Status:          st.Status,
		Message:         st.Message,
		TrackingInfo:    st.TrackingInfo,
	}, nil
}

func (uc *OrderUseCase) markConfirmed(ctx context.Context, externalOrderID, message string) {
	orders, err := uc.orders.ListOrders(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo actualizar la orden confirmada")
		return
	}
	for _, o := range orders {
		if o.ExternalOrderID != externalOrderID || o.Status != entity.OrderStatusSent {
			continue
		}
		o.Status = entity.OrderStatusConfirmed
		o.LastMessage = message
		o.UpdatedAt = time.Now().UTC()
		if err := uc.orders.UpdateOrder(ctx, o); err != nil {
			uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo actualizar la orden confirmada")
		}
	}
}

// TestConnection comprueba la disponibilidad del proveedor. El fallo se informa en la respuesta.
func (uc *OrderUseCase) TestConnection(ctx context.Context) *dto.MessageResponse {
	if err := uc.api.Ping(ctx); err != nil {
		return &dto.MessageResponse{Success: false, Message: err.Error()}
	}
	return &dto.MessageResponse{Success: true, Message: "API connection successful"}
}

// PDF genera el documento imprimible de la orden.
func (uc *OrderUseCase) PDF(ctx context.Context, id string) ([]byte, error) {
	order, err := uc.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateOrderPDF(ctx, order)
}

func toExternalOrder(o *entity.Order) ports.ExternalOrder {
	out := ports.ExternalOrder{
		OrderID:     o.ID,
		Items:       make([]ports.ExternalOrderLine, 0, len(o.Items)),
		TotalAmount: o.TotalAmount,
		Timestamp:   o.CreatedAt,
		Notes:       o.Notes,
	}
	for _, l := range o.Items {
		out.Items = append(out.Items, ports.ExternalOrderLine{
			ProductID:   l.ItemID,
			ProductName: l.ItemName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TotalPrice:  l.TotalPrice,
		})
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:              o.ID,
		Items:           make([]dto.OrderLineResponse, 0, len(o.Items)),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		Notes:           o.Notes,
		ExternalOrderID: o.ExternalOrderID,
		LastMessage:     o.LastMessage,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, l := range o.Items {
		out.Items = append(out.Items, dto.OrderLineResponse{
			ItemID:     l.ItemID,
			ItemName:   l.ItemName,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		})
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
