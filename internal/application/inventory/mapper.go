package inventory

import (
	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ToItemResponse convierte la entidad a su DTO de salida.
func ToItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            it.ID,
		Name:          it.Name,
		Description:   it.Description,
		Category:      string(it.Category),
		CurrentStock:  it.CurrentStock,
		MinStockLevel: it.MinStockLevel,
		MaxStockLevel: it.MaxStockLevel,
		NeedsReorder:  it.NeedsReorder,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}

func toReportResponse(r *entity.StockReport) *dto.StockReportResponse {
	return &dto.StockReportResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		ItemID:        r.ItemID,
		ItemName:      r.ItemName,
		ReportedStock: r.ReportedStock,
		PreviousStock: r.PreviousStock,
		ReportType:    string(r.ReportType),
		Notes:         r.Notes,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
