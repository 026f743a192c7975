package inventory

import (
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ClassifyReport deriva el tipo de reporte a partir del stock observado y del mínimo
// del artículo al momento del envío:
//
//	reportedStock == 0                  → out_of_stock
//	0 < reportedStock <= minStockLevel  → low_stock_alert
//	en otro caso                        → stock_update
func ClassifyReport(reportedStock, minStockLevel int) entity.ReportType {
	switch {
	case reportedStock == 0:
		return entity.ReportTypeOutOfStock
	case reportedStock <= minStockLevel:
		return entity.ReportTypeLowStockAlert
	default:
		return entity.ReportTypeStockUpdate
	}
}

// CheckTransition valida un cambio de estado del reporte. Solo se permite avanzar
// (pending→reviewed, pending→applied, reviewed→applied); repetir el estado actual es válido.
func CheckTransition(from, to entity.ReportStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidTransition, to)
	}
	if !from.Valid() {
		return fmt.Errorf("%w: estado actual desconocido %q", domain.ErrInvalidTransition, from)
	}
	if to.Rank() < from.Rank() {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}
