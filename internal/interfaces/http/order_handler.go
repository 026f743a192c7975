package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/purchasing"
)

// OrderHandler maneja las órdenes de compra y la integración con el proveedor (solo admin).
type OrderHandler struct {
	uc *purchasing.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *purchasing.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "items[{item_id, quantity, unit_price}], notes"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateFromReplenishment godoc
// @Summary      Crear orden desde la lista de reposición
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderFromReplenishmentRequest  false  "prices por item_id, notes"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/from-replenishment [post]
func (h *OrderHandler) CreateFromReplenishment(c *fiber.Ctx) error {
	var in dto.CreateOrderFromReplenishmentRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.CreateFromReplenishment(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar orden al proveedor
// @Description  Solo órdenes pending o failed. Un rechazo del proveedor devuelve 200 con status failed.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/send [post]
func (h *OrderHandler) Send(c *fiber.Ctx) error {
	out, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Orden de compra en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.PDF(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="orden-%s.pdf"`, id))
	return c.Send(pdf)
}

// SyncInventory godoc
// @Summary      Sincronizar inventario con el proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncInventoryResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/orders/sync-inventory [post]
func (h *OrderHandler) SyncInventory(c *fiber.Ctx) error {
	out, err := h.uc.SyncInventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExternalStatus godoc
// @Summary      Estado de la orden en el proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        externalId  path  string  true  "ID de la orden en el proveedor"
// @Success      200  {object}  dto.ExternalOrderStatusResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/external/{externalId}/status [get]
func (h *OrderHandler) ExternalStatus(c *fiber.Ctx) error {
	out, err := h.uc.ExternalStatus(c.Context(), c.Params("externalId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TestConnection godoc
// @Summary      Probar conexión con el proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/orders/external/health [get]
func (h *OrderHandler) TestConnection(c *fiber.Ctx) error {
	return c.JSON(h.uc.TestConnection(c.Context()))
}
