package dto

import "time"

// SubmitReportRequest entrada para reportar el stock observado de un artículo.
type SubmitReportRequest struct {
	ItemID        string `json:"item_id" validate:"required"`
	ReportedStock *int   `json:"reported_stock" validate:"required,min=0"`
	Notes         string `json:"notes" validate:"max=1000"`
}

// SetReportStatusRequest cuerpo de PATCH /api/reports/:id/status.
type SetReportStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// StockReportResponse salida de un reporte de stock.
type StockReportResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	ReportedStock int       `json:"reported_stock"`
	PreviousStock int       `json:"previous_stock"`
	ReportType    string    `json:"report_type"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StockReportListResponse listado de reportes (más reciente primero).
type StockReportListResponse struct {
	Reports []StockReportResponse `json:"reports"`
	Total   int                   `json:"total"`
}

// ApplyReportResponse resultado de aplicar un reporte: reporte y artículo actualizados.
type ApplyReportResponse struct {
	Report StockReportResponse `json:"report"`
	Item   ItemResponse        `json:"item"`
}
