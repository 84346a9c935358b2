// Package postgres implements the order repository on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/testworkflow/ordersvc/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id            UUID PRIMARY KEY,
	customer_name TEXT NOT NULL,
	total_amount  NUMERIC(12,2) NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id     UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position     INT NOT NULL,
	product_id   TEXT NOT NULL,
	product_name TEXT NOT NULL,
	quantity     INT NOT NULL,
	price        NUMERIC(12,2) NOT NULL,
	PRIMARY KEY (order_id, position)
);

CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);
`

// OrderRepository is the pgx-backed system of record for orders.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Migrate creates the order tables when they do not exist yet.
func (r *OrderRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply order schema: %w", err)
	}
	return nil
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	stored := *order
	stored.Items = append([]domain.OrderItem(nil), order.Items...)

	isNew := stored.ID == uuid.Nil
	if isNew {
		now := time.Now().UTC()
		stored.ID = uuid.New()
		stored.CreatedAt = now
		stored.UpdatedAt = now
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if isNew {
		_, err = tx.Exec(ctx,
			`INSERT INTO orders (id, customer_name, total_amount, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			stored.ID, stored.CustomerName, stored.TotalAmount, stored.Status.String(),
			stored.CreatedAt, stored.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		for i, item := range stored.Items {
			_, err = tx.Exec(ctx,
				`INSERT INTO order_items (order_id, position, product_id, product_name, quantity, price)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				stored.ID, i, item.ProductID, item.ProductName, item.Quantity, item.Price)
			if err != nil {
				return nil, fmt.Errorf("insert order item %d: %w", i, err)
			}
		}
	} else {
		// The item list never changes after creation, only the order row does.
		_, err = tx.Exec(ctx,
			`UPDATE orders SET customer_name = $2, total_amount = $3, status = $4, updated_at = $5
			 WHERE id = $1`,
			stored.ID, stored.CustomerName, stored.TotalAmount, stored.Status.String(), stored.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("update order: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return &stored, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_name, total_amount, status, created_at, updated_at
		 FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.CustomerName, &order.TotalAmount, &status,
			&order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	order.Items, err = r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindAllOrderByCreatedAtDesc(ctx context.Context, page, size int) ([]*domain.Order, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, customer_name, total_amount, status, created_at, updated_at
		 FROM orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, size)
	for rows.Next() {
		var (
			order  domain.Order
			status string
		)
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.TotalAmount, &status,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	for _, order := range orders {
		order.Items, err = r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, product_name, quantity, price
		 FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}
