package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// ItemUseCase casos de uso del catálogo de artículos.
// SetCurrentStock es el único punto por el que cambia el stock de un artículo
// (edición directa y aplicación de reportes).
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create valida umbrales y categoría, deriva NeedsReorder y persiste el artículo.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	category := entity.Category(in.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrValidation, in.Category)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}
	if err := domaininv.ValidateLevels(in.CurrentStock, in.MinStockLevel, in.MaxStockLevel); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:            uuid.New().String(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      category,
		CurrentStock:  in.CurrentStock,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		NeedsReorder:  domaininv.DeriveReorder(in.CurrentStock, in.MinStockLevel),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Get obtiene un artículo por ID.
func (uc *ItemUseCase) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// List devuelve los artículos que cumplen el filtro.
func (uc *ItemUseCase) List(ctx context.Context, f dto.ItemFilter) (*dto.ItemListResponse, error) {
	items, err := uc.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if f.Category != "" && string(it.Category) != f.Category {
			continue
		}
		if f.NeedsReorder && !it.NeedsReorder {
			continue
		}
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		filtered = append(filtered, it)
	}

	switch f.Sort {
	case "urgency":
		sort.SliceStable(filtered, func(i, j int) bool {
			ui, uj := domaininv.Urgency(filtered[i]), domaininv.Urgency(filtered[j])
			if ui != uj {
				return ui > uj
			}
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	case "name":
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Name) < strings.ToLower(filtered[j].Name)
		})
	}

	out := &dto.ItemListResponse{Items: make([]dto.ItemResponse, 0, len(filtered)), Total: len(filtered)}
	for _, it := range filtered {
		out.Items = append(out.Items, *ToItemResponse(it))
	}
	return out, nil
}

func matchesSearch(it *entity.Item, q string) bool {
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(string(it.Category)), q)
}

// Update edita parcialmente un artículo. Valida el resultado combinado antes de persistir:
// si falla, el artículo queda intacto. Un cambio de stock se aplica a través de setCurrentStock.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	current, err := uc.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := entity.ItemPatch{
		Description:   in.Description,
		MinStockLevel: in.MinStockLevel,
		MaxStockLevel: in.MaxStockLevel,
		UpdatedAt:     time.Now().UTC(),
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := entity.Category(*in.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrValidation, *in.Category)
		}
		patch.Category = &category
	}

	merged := *current
	patch.ApplyTo(&merged)
	if in.CurrentStock != nil {
		merged.CurrentStock = *in.CurrentStock
	}
	if err := domaininv.ValidateLevels(merged.CurrentStock, merged.MinStockLevel, merged.MaxStockLevel); err != nil {
		return nil, err
	}

	updated := current
	if patch.Name != nil || patch.Description != nil || patch.Category != nil || patch.MinStockLevel != nil || patch.MaxStockLevel != nil {
		reorder := domaininv.DeriveReorder(current.CurrentStock, merged.MinStockLevel)
		patch.NeedsReorder = &reorder
		if updated, err = uc.repo.UpdateItem(ctx, id, patch); err != nil {
			return nil, err
		}
	}
	if in.CurrentStock != nil {
		if updated, err = uc.setCurrentStock(ctx, id, *in.CurrentStock); err != nil {
			return nil, err
		}
	}
	return ToItemResponse(updated), nil
}

// SetCurrentStock fija el stock absoluto de un artículo y recalcula NeedsReorder.
func (uc *ItemUseCase) SetCurrentStock(ctx context.Context, id string, newStock int) (*dto.ItemResponse, error) {
	item, err := uc.setCurrentStock(ctx, id, newStock)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

func (uc *ItemUseCase) setCurrentStock(ctx context.Context, id string, newStock int) (*entity.Item, error) {
	if newStock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo (%d)", domain.ErrValidation, newStock)
	}
	current, err := uc.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	reorder := domaininv.DeriveReorder(newStock, current.MinStockLevel)
	return uc.repo.UpdateItem(ctx, id, entity.ItemPatch{
		CurrentStock: &newStock,
		NeedsReorder: &reorder,
		UpdatedAt:    time.Now().UTC(),
	})
}

// Delete elimina un artículo. Sus reportes se conservan con el nombre desnormalizado.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.DeleteItem(ctx, id)
}
