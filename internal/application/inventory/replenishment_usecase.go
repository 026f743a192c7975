package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición a partir de los artículos bajo mínimo.
type ReplenishmentUseCase struct {
	items repository.ItemRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(items repository.ItemRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{items: items}
}

// Suggestions devuelve los artículos con NeedsReorder y la cantidad para llegar al máximo,
// ordenados por mayor déficit respecto al mínimo (empate: nombre).
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, it := range items {
		if !it.NeedsReorder {
			continue
		}
		out = append(out, dto.ReplenishmentSuggestionDTO{
			ItemID:        it.ID,
			ItemName:      it.Name,
			Category:      string(it.Category),
			CurrentStock:  it.CurrentStock,
			MinStockLevel: it.MinStockLevel,
			MaxStockLevel: it.MaxStockLevel,
			Deficit:       it.MinStockLevel - it.CurrentStock,
			SuggestedQty:  domaininv.SuggestedOrderQty(it),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}
