package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
)

// DashboardHandler maneja el resumen del inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores del dashboard.
// GET /api/dashboard
//
// Respuesta: DashboardDTO (total_items, needs_reorder, out_of_stock, low_stock,
// pending_reports, reviewed_reports, applied_reports y, para usuarios no admin,
// my_pending_reports / my_applied_reports).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetSession(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
