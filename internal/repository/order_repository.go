package repository

import (
	"context"
	"fmt"
	"time"

	"restaurantadmin/internal/models"
)

// MonthTotal aggregates completed orders for one calendar month (1..12).
type MonthTotal struct {
	Month   int
	Revenue float64
	Orders  int
}

type OrderRepository struct {
	pool DB
}

func NewOrderRepository(pool DB) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and its lines atomically.
func (r *OrderRepository) Create(ctx context.Context, order models.Order) (models.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
		INSERT INTO orders (id, table_id, restaurant_id, total, status, ordered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, insertOrder,
		order.ID,
		order.Table.ID,
		order.RestaurantID,
		order.Total,
		order.Status,
		orderTime(order.Time),
	); err != nil {
		return models.Order{}, classify(err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, position, menu_item_id, name, price, category)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, item := range order.Items {
		if _, err := tx.Exec(ctx, insertItem, order.ID, i, item.MenuItemID, item.Name, item.Price, item.Category); err != nil {
			return models.Order{}, fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Order{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, order.ID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	orders, err := r.list(ctx, `WHERE o.id = $1`, id)
	if err != nil {
		return models.Order{}, err
	}
	if len(orders) == 0 {
		return models.Order{}, ErrNotFound
	}
	return orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, ``)
}

func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return r.list(ctx, `WHERE o.restaurant_id = $1`, restaurantID)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return models.Order{}, err
	}
	if cmd.RowsAffected() == 0 {
		return models.Order{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// CompletedByMonth sums completed orders of a restaurant per month. A zero
// year spans all years.
func (r *OrderRepository) CompletedByMonth(ctx context.Context, restaurantID string, year int) ([]MonthTotal, error) {
	const query = `
		SELECT EXTRACT(MONTH FROM ordered_at)::int AS month,
		       COALESCE(SUM(total), 0)::float8,
		       COUNT(*)
		FROM orders
		WHERE restaurant_id = $1
		  AND status = 'completed'
		  AND ($2 = 0 OR EXTRACT(YEAR FROM ordered_at)::int = $2)
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.pool.Query(ctx, query, restaurantID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]MonthTotal, 0, 12)
	for rows.Next() {
		var total MonthTotal
		if err := rows.Scan(&total.Month, &total.Revenue, &total.Orders); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func (r *OrderRepository) list(ctx context.Context, where string, args ...any) ([]models.Order, error) {
	query := `
		SELECT o.id, o.table_id, COALESCE(t.number, 0), o.restaurant_id, o.total::float8, o.status, o.ordered_at
		FROM orders o
		LEFT JOIN dining_tables t ON t.id = o.table_id
		` + where + `
		ORDER BY o.ordered_at DESC
	`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	index := make(map[string]int)
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(
			&order.ID,
			&order.Table.ID,
			&order.Table.Number,
			&order.RestaurantID,
			&order.Total,
			&order.Status,
			&order.Time,
		); err != nil {
			return nil, err
		}
		order.Items = []models.OrderItem{}
		index[order.ID] = len(orders)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	itemRows, err := r.pool.Query(ctx, `
		SELECT order_id, menu_item_id, name, price::float8, category
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var item models.OrderItem
		if err := itemRows.Scan(&orderID, &item.MenuItemID, &item.Name, &item.Price, &item.Category); err != nil {
			return nil, err
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return orders, itemRows.Err()
}

// orderTime truncates to microseconds, the precision Postgres keeps.
func orderTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
