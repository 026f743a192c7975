package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, description, category, current_stock, min_stock_level, max_stock_level, needs_reorder, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var category string
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &category, &it.CurrentStock,
		&it.MinStockLevel, &it.MaxStockLevel, &it.NeedsReorder, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Category = entity.Category(category)
	return &it, nil
}

func (r *ItemRepo) CreateItem(ctx context.Context, item *entity.Item) error {
	query := `INSERT INTO items (` + itemColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, string(item.Category), item.CurrentStock,
		item.MinStockLevel, item.MaxStockLevel, item.NeedsReorder, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, item.ID)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// UpdateItem aplica el patch en una única sentencia; los campos nil conservan su valor (COALESCE).
func (r *ItemRepo) UpdateItem(ctx context.Context, id string, patch entity.ItemPatch) (*entity.Item, error) {
	var category *string
	if patch.Category != nil {
		c := string(*patch.Category)
		category = &c
	}
	query := `
		UPDATE items SET
			name            = COALESCE($2, name),
			description     = COALESCE($3, description),
			category        = COALESCE($4, category),
			current_stock   = COALESCE($5, current_stock),
			min_stock_level = COALESCE($6, min_stock_level),
			max_stock_level = COALESCE($7, max_stock_level),
			needs_reorder   = COALESCE($8, needs_reorder),
			updated_at      = $9
		WHERE id = $1
		RETURNING ` + itemColumns
	it, err := scanItem(r.q.QueryRow(ctx, query, id,
		patch.Name, patch.Description, category, patch.CurrentStock,
		patch.MinStockLevel, patch.MaxStockLevel, patch.NeedsReorder, patch.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (r *ItemRepo) DeleteItem(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ItemRepo) ListItems(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
