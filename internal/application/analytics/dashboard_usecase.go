// Package analytics contiene el resumen del estado del inventario para el dashboard.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// DegradationReporter lo implementa el almacenamiento con respaldo.
type DegradationReporter interface {
	Degraded() bool
}

// DashboardUseCase calcula los contadores del dashboard a partir de artículos y reportes.
type DashboardUseCase struct {
	items   repository.ItemRepository
	reports repository.StockReportRepository
	health  DegradationReporter
}

// NewDashboardUseCase construye el caso de uso. health puede ser nil.
func NewDashboardUseCase(items repository.ItemRepository, reports repository.StockReportRepository, health DegradationReporter) *DashboardUseCase {
	return &DashboardUseCase{items: items, reports: reports, health: health}
}

// GetSummary construye el DashboardDTO para la sesión.
//
// Dos lecturas en paralelo:
//  1. ListItems    → total, reorden, agotados, bajo mínimo
//  2. ListReports  → pendientes / revisados / aplicados (+ propios si la sesión no es admin)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, session entity.Session) (*dto.DashboardDTO, error) {
	type itemsResult struct {
		items []*entity.Item
		err   error
	}
	type reportsResult struct {
		reports []*entity.StockReport
		err     error
	}
	itemsCh := make(chan itemsResult, 1)
	reportsCh := make(chan reportsResult, 1)

	go func() {
		items, err := uc.items.ListItems(ctx)
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		reports, err := uc.reports.ListReports(ctx, repository.ReportFilter{})
		reportsCh <- reportsResult{reports, err}
	}()

	ir := <-itemsCh
	rr := <-reportsCh
	if ir.err != nil {
		return nil, fmt.Errorf("dashboard: artículos: %w", ir.err)
	}
	if rr.err != nil {
		return nil, fmt.Errorf("dashboard: reportes: %w", rr.err)
	}

	out := &dto.DashboardDTO{TotalItems: len(ir.items)}
	for _, it := range ir.items {
		if it.NeedsReorder {
			out.NeedsReorder++
		}
		switch {
		case it.CurrentStock == 0:
			out.OutOfStock++
		case it.CurrentStock <= it.MinStockLevel:
			out.LowStock++
		}
	}

	var myPending, myApplied int
	for _, r := range rr.reports {
		switch r.Status {
		case entity.ReportStatusPending:
			out.PendingReports++
		case entity.ReportStatusReviewed:
			out.ReviewedReports++
		case entity.ReportStatusApplied:
			out.AppliedReports++
		}
		if r.UserID != session.UserID {
			continue
		}
		switch r.Status {
		case entity.ReportStatusPending:
			myPending++
		case entity.ReportStatusApplied:
			myApplied++
		}
	}
	if !session.IsElevated() {
		out.MyPendingReports = &myPending
		out.MyAppliedReports = &myApplied
	}
	if uc.health != nil {
		out.StoreDegraded = uc.health.Degraded()
	}
	return out, nil
}
