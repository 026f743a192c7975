package inventory

import (
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// DeriveReorder implementa la regla de reorden (servicio de dominio, función pura).
// Un artículo necesita reposición cuando su stock actual está en o por debajo del mínimo.
func DeriveReorder(currentStock, minStockLevel int) bool {
	return currentStock <= minStockLevel
}

// ValidateLevels valida los umbrales de un artículo: valores no negativos y min < max.
func ValidateLevels(currentStock, minStockLevel, maxStockLevel int) error {
	if currentStock < 0 {
		return fmt.Errorf("%w: currentStock no puede ser negativo (%d)", domain.ErrValidation, currentStock)
	}
	if minStockLevel < 0 {
		return fmt.Errorf("%w: minStockLevel no puede ser negativo (%d)", domain.ErrValidation, minStockLevel)
	}
	if maxStockLevel < 0 {
		return fmt.Errorf("%w: maxStockLevel no puede ser negativo (%d)", domain.ErrValidation, maxStockLevel)
	}
	if minStockLevel >= maxStockLevel {
		return fmt.Errorf("%w: minStockLevel (%d) debe ser menor que maxStockLevel (%d)",
			domain.ErrValidation, minStockLevel, maxStockLevel)
	}
	return nil
}

// Urgency prioridad de un artículo para listados: 3 = agotado, 2 = bajo mínimo, 1 = ok.
func Urgency(item *entity.Item) int {
	switch {
	case item.CurrentStock == 0:
		return 3
	case item.NeedsReorder:
		return 2
	default:
		return 1
	}
}

// SuggestedOrderQty cantidad a pedir para volver al stock máximo (nunca negativa).
func SuggestedOrderQty(item *entity.Item) int {
	if qty := item.MaxStockLevel - item.CurrentStock; qty > 0 {
		return qty
	}
	return 0
}
