package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

// ReportUseCase ciclo de vida de los reportes de stock: envío, revisión y aplicación.
type ReportUseCase struct {
	items   repository.ItemRepository
	reports repository.StockReportRepository
	stock   *ItemUseCase
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewReportUseCase construye el caso de uso. stock es el punto único de mutación del stock.
func NewReportUseCase(
	items repository.ItemRepository,
	reports repository.StockReportRepository,
	stock *ItemUseCase,
	log *logger.Logger,
	m *metrics.Metrics,
) *ReportUseCase {
	return &ReportUseCase{
		items:   items,
		reports: reports,
		stock:   stock,
		log:     log.Component("reports"),
		metrics: m,
	}
}

// Submit registra el stock observado por el usuario de la sesión.
// Con sesión de administrador el reporte nace aplicado y el stock se actualiza en la misma operación;
// en otro caso queda pendiente y el artículo no cambia.
func (uc *ReportUseCase) Submit(ctx context.Context, session entity.Session, in dto.SubmitReportRequest) (*dto.StockReportResponse, error) {
	if session.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(in.ItemID) == "" {
		return nil, fmt.Errorf("%w: item_id es obligatorio", domain.ErrValidation)
	}
	if in.ReportedStock == nil {
		return nil, fmt.Errorf("%w: reported_stock es obligatorio", domain.ErrValidation)
	}
	reported := *in.ReportedStock
	if reported < 0 {
		return nil, fmt.Errorf("%w: el stock reportado no puede ser negativo (%d)", domain.ErrValidation, reported)
	}

	item, err := uc.items.GetItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &entity.StockReport{
		ID:            uuid.New().String(),
		UserID:        session.UserID,
		UserName:      session.UserName,
		ItemID:        item.ID,
		ItemName:      item.Name,
		ReportedStock: reported,
		PreviousStock: item.CurrentStock,
		ReportType:    domaininv.ClassifyReport(reported, item.MinStockLevel),
		Notes:         strings.TrimSpace(in.Notes),
		Status:        entity.ReportStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if session.IsElevated() {
		report.Status = entity.ReportStatusApplied
		if _, err := uc.stock.setCurrentStock(ctx, item.ID, reported); err != nil {
			return nil, err
		}
	}

	if err := uc.reports.CreateReport(ctx, report); err != nil {
		if session.IsElevated() {
			uc.log.Error().Err(err).Str("item_id", item.ID).Int("stock", reported).
				Msg("stock actualizado pero el reporte no pudo registrarse")
		}
		return nil, err
	}

	uc.metrics.RecordReportSubmitted(string(report.ReportType), string(report.Status))
	if report.Status == entity.ReportStatusApplied {
		uc.metrics.RecordReportApplied()
	}
	uc.log.Info().Str("report_id", report.ID).Str("item_id", item.ID).Str("user_id", session.UserID).
		Str("type", string(report.ReportType)).Str("status", string(report.Status)).Msg("reporte de stock registrado")
	return toReportResponse(report), nil
}

// SetStatus avanza el estado del reporte. Retroceder o usar un estado desconocido devuelve
// domain.ErrInvalidTransition sin modificar el reporte; repetir el estado actual no hace nada.
// Pasar a applied por esta vía no modifica el stock (para eso está Apply).
func (uc *ReportUseCase) SetStatus(ctx context.Context, id, status string) (*dto.StockReportResponse, error) {
	report, err := uc.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	next := entity.ReportStatus(status)
	if err := domaininv.CheckTransition(report.Status, next); err != nil {
		return nil, err
	}
	if next == report.Status {
		return toReportResponse(report), nil
	}
	updated, err := uc.reports.UpdateReportStatus(ctx, id, next, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return toReportResponse(updated), nil
}

// Apply fija el stock del artículo al valor reportado y marca el reporte como aplicado,
// cualquiera que fuera su estado. Es idempotente: el valor es absoluto, no un delta.
func (uc *ReportUseCase) Apply(ctx context.Context, id string) (*dto.ApplyReportResponse, error) {
	report, err := uc.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := uc.stock.setCurrentStock(ctx, report.ItemID, report.ReportedStock)
	if err != nil {
		return nil, err
	}
	if report.Status != entity.ReportStatusApplied {
		report, err = uc.reports.UpdateReportStatus(ctx, id, entity.ReportStatusApplied, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		uc.metrics.RecordReportApplied()
	}
	uc.log.Info().Str("report_id", report.ID).Str("item_id", item.ID).Int("stock", item.CurrentStock).
		Msg("reporte aplicado al inventario")
	return &dto.ApplyReportResponse{
		Report: *toReportResponse(report),
		Item:   *ToItemResponse(item),
	}, nil
}

// Get obtiene un reporte. Un usuario sin privilegios solo puede ver los propios.
func (uc *ReportUseCase) Get(ctx context.Context, session entity.Session, id string) (*dto.StockReportResponse, error) {
	report, err := uc.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsElevated() && report.UserID != session.UserID {
		return nil, domain.ErrForbidden
	}
	return toReportResponse(report), nil
}

// List devuelve los reportes visibles para la sesión, del más reciente al más antiguo:
// todos para administradores, los propios para el resto. status vacío no filtra.
func (uc *ReportUseCase) List(ctx context.Context, session entity.Session, status string) (*dto.StockReportListResponse, error) {
	filter := repository.ReportFilter{Status: entity.ReportStatus(status)}
	if status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, status)
	}
	if !session.IsElevated() {
		filter.UserID = session.UserID
	}
	reports, err := uc.reports.ListReports(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.StockReportListResponse{Reports: make([]dto.StockReportResponse, 0, len(reports)), Total: len(reports)}
	for _, r := range reports {
		out.Reports = append(out.Reports, *toReportResponse(r))
	}
	return out, nil
}
