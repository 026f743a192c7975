package purchasing

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// OrderPDFGenerator puerto de salida para el documento imprimible de una orden.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order) ([]byte, error)
}

// SuggestionSource fuente de sugerencias de reposición para crear borradores de orden.
type SuggestionSource interface {
	Suggestions(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error)
}
