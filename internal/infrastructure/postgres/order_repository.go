package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// La cabecera y sus líneas se insertan en la misma transacción.
type OrderRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewOrderRepository construye el adaptador de persistencia para órdenes de compra.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool, tx: NewTxRunner(pool)}
}

const orderColumns = `id, total_amount, status, notes, external_order_id, last_message, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var status string
	if err := row.Scan(&o.ID, &o.TotalAmount, &status, &o.Notes, &o.ExternalOrderID,
		&o.LastMessage, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}

func (r *OrderRepo) CreateOrder(ctx context.Context, order *entity.Order) error {
	return r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx,
			`INSERT INTO orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			order.ID, order.TotalAmount, string(order.Status), order.Notes, order.ExternalOrderID,
			order.LastMessage, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, order.ID)
			}
			return fmt.Errorf("insert order: %w", err)
		}
		for i, line := range order.Items {
			_, err := q.Exec(ctx,
				`INSERT INTO order_items (order_id, line_no, item_id, item_name, quantity, unit_price, total_price)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				order.ID, i+1, line.ItemID, line.ItemName, line.Quantity, line.UnitPrice, line.TotalPrice,
			)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	lines, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = lines[id]
	return o, nil
}

func (r *OrderRepo) UpdateOrder(ctx context.Context, order *entity.Order) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, external_order_id = $3, last_message = $4, updated_at = $5 WHERE id = $1`,
		order.ID, string(order.Status), order.ExternalOrderID, order.LastMessage, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: orden %s", domain.ErrNotFound, order.ID)
	}
	return nil
}

func (r *OrderRepo) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	lines, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Items = lines[o.ID]
	}
	return list, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT order_id, item_id, item_name, quantity, unit_price, total_price
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, line_no`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			orderID string
			line    entity.OrderItem
			unit    decimal.Decimal
			total   decimal.Decimal
		)
		if err := rows.Scan(&orderID, &line.ItemID, &line.ItemName, &line.Quantity, &unit, &total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		line.UnitPrice, line.TotalPrice = unit, total
		out[orderID] = append(out[orderID], line)
	}
	return out, rows.Err()
}
