package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.StockReportRepository = (*StockReportRepo)(nil)

// StockReportRepo implementación del puerto StockReportRepository sobre PostgreSQL.
// item_id no tiene clave foránea: el reporte sobrevive a la eliminación del artículo.
type StockReportRepo struct {
	q Querier
}

// NewStockReportRepository construye el adaptador de persistencia para reportes de stock.
func NewStockReportRepository(q Querier) *StockReportRepo {
	return &StockReportRepo{q: q}
}

const reportColumns = `id, user_id, user_name, item_id, item_name, reported_stock, previous_stock, report_type, notes, status, created_at, updated_at`

func scanReport(row pgx.Row) (*entity.StockReport, error) {
	var rep entity.StockReport
	var reportType, status string
	if err := row.Scan(&rep.ID, &rep.UserID, &rep.UserName, &rep.ItemID, &rep.ItemName,
		&rep.ReportedStock, &rep.PreviousStock, &reportType, &rep.Notes, &status,
		&rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return nil, err
	}
	rep.ReportType = entity.ReportType(reportType)
	rep.Status = entity.ReportStatus(status)
	return &rep, nil
}

func (r *StockReportRepo) CreateReport(ctx context.Context, report *entity.StockReport) error {
	query := `INSERT INTO stock_reports (` + reportColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		report.ID, report.UserID, report.UserName, report.ItemID, report.ItemName,
		report.ReportedStock, report.PreviousStock, string(report.ReportType), report.Notes,
		string(report.Status), report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reporte %s", domain.ErrDuplicate, report.ID)
		}
		return fmt.Errorf("insert stock report: %w", err)
	}
	return nil
}

func (r *StockReportRepo) GetReport(ctx context.Context, id string) (*entity.StockReport, error) {
	rep, err := scanReport(r.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM stock_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get stock report: %w", err)
	}
	return rep, nil
}

func (r *StockReportRepo) UpdateReportStatus(ctx context.Context, id string, status entity.ReportStatus, updatedAt time.Time) (*entity.StockReport, error) {
	query := `UPDATE stock_reports SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + reportColumns
	rep, err := scanReport(r.q.QueryRow(ctx, query, id, string(status), updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update stock report status: %w", err)
	}
	return rep, nil
}

func (r *StockReportRepo) ListReports(ctx context.Context, filter repository.ReportFilter) ([]*entity.StockReport, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + reportColumns + ` FROM stock_reports`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock reports: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}
