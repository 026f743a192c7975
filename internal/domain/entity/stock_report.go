package entity

import "time"

// ReportType clasificación derivada de un reporte de stock.
type ReportType string

// Tipos de reporte.
const (
	ReportTypeStockUpdate   ReportType = "stock_update"
	ReportTypeLowStockAlert ReportType = "low_stock_alert"
	ReportTypeOutOfStock    ReportType = "out_of_stock"
)

// ReportStatus estado del ciclo de vida del reporte: pending → reviewed → applied.
type ReportStatus string

// Estados válidos para StockReport.
const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusApplied  ReportStatus = "applied"
)

// Rank posición del estado en el ciclo de vida; -1 si el estado no existe.
func (s ReportStatus) Rank() int {
	switch s {
	case ReportStatusPending:
		return 0
	case ReportStatusReviewed:
		return 1
	case ReportStatusApplied:
		return 2
	default:
		return -1
	}
}

// Valid indica si el estado es uno de los conocidos.
func (s ReportStatus) Valid() bool { return s.Rank() >= 0 }

// StockReport observación del stock de un artículo enviada por un usuario.
// UserName e ItemName son copias desnormalizadas al momento del envío: el reporte
// sigue siendo legible aunque el artículo o el usuario cambien o se eliminen.
type StockReport struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	UserName      string       `json:"userName"`
	ItemID        string       `json:"itemId"`
	ItemName      string       `json:"itemName"`
	ReportedStock int          `json:"reportedStock"`
	PreviousStock int          `json:"previousStock"`
	ReportType    ReportType   `json:"reportType"`
	Notes         string       `json:"notes,omitempty"`
	Status        ReportStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}
