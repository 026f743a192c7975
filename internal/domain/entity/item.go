package entity

import "time"

// Category categoría de un artículo del inventario (conjunto cerrado).
type Category string

// Categorías válidas para Item.
const (
	CategoryProteins  Category = "Proteins"
	CategoryProduce   Category = "Produce"
	CategoryDairy     Category = "Dairy"
	CategoryPantry    Category = "Pantry"
	CategoryBeverages Category = "Beverages"
	CategoryFrozen    Category = "Frozen"
	CategorySpices    Category = "Spices & Seasonings"
	CategoryMisc      Category = "Misc"
)

// Categories lista ordenada de categorías, tal como se muestran en los formularios.
var Categories = []Category{
	CategoryProteins, CategoryProduce, CategoryDairy, CategoryPantry,
	CategoryBeverages, CategoryFrozen, CategorySpices, CategoryMisc,
}

// Valid indica si la categoría pertenece al conjunto permitido.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Item representa un artículo del inventario con sus umbrales de stock.
// NeedsReorder es derivado: CurrentStock <= MinStockLevel.
type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	CurrentStock  int       `json:"currentStock"`
	MinStockLevel int       `json:"minStockLevel"`
	MaxStockLevel int       `json:"maxStockLevel"`
	NeedsReorder  bool      `json:"needsReorder"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ItemPatch actualización parcial de un Item. Los campos nil no se modifican.
type ItemPatch struct {
	Name          *string
	Description   *string
	Category      *Category
	CurrentStock  *int
	MinStockLevel *int
	MaxStockLevel *int
	NeedsReorder  *bool
	UpdatedAt     time.Time
}

// ApplyTo copia sobre it los campos presentes en el patch.
func (p ItemPatch) ApplyTo(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.CurrentStock != nil {
		it.CurrentStock = *p.CurrentStock
	}
	if p.MinStockLevel != nil {
		it.MinStockLevel = *p.MinStockLevel
	}
	if p.MaxStockLevel != nil {
		it.MaxStockLevel = *p.MaxStockLevel
	}
	if p.NeedsReorder != nil {
		it.NeedsReorder = *p.NeedsReorder
	}
	if !p.UpdatedAt.IsZero() {
		it.UpdatedAt = p.UpdatedAt
	}
}

// TouchesStockLevels indica si el patch modifica alguno de los campos que determinan NeedsReorder.
func (p ItemPatch) TouchesStockLevels() bool {
	return p.CurrentStock != nil || p.MinStockLevel != nil
}
