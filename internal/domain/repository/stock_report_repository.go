package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// ReportFilter filtros opcionales para listar reportes (vacío = sin filtro).
type ReportFilter struct {
	UserID string
	Status entity.ReportStatus
}

// Matches indica si el reporte cumple el filtro.
func (f ReportFilter) Matches(r *entity.StockReport) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// StockReportRepository define el puerto de persistencia para StockReport.
// Los reportes nunca se eliminan (auditoría).
type StockReportRepository interface {
	CreateReport(ctx context.Context, report *entity.StockReport) error
	GetReport(ctx context.Context, id string) (*entity.StockReport, error)
	UpdateReportStatus(ctx context.Context, id string, status entity.ReportStatus, updatedAt time.Time) (*entity.StockReport, error)
	// ListReports devuelve los reportes del más reciente al más antiguo.
	ListReports(ctx context.Context, filter ReportFilter) ([]*entity.StockReport, error)
}
