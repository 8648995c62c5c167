package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"restaurantadmin/internal/models"
)

const tableColumns = `id, number, capacity, status, last_occupied, restaurant_id, created_at, updated_at`

type TableRepository struct {
	pool DB
}

func NewTableRepository(pool DB) *TableRepository {
	return &TableRepository{pool: pool}
}

// Create returns ErrDuplicate when the restaurant already has a table with
// the same number.
func (r *TableRepository) Create(ctx context.Context, table models.Table) (models.Table, error) {
	const query = `
		INSERT INTO dining_tables (id, number, capacity, status, last_occupied, restaurant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + tableColumns

	row := r.pool.QueryRow(ctx, query,
		table.ID,
		table.Number,
		table.Capacity,
		table.Status,
		table.LastOccupied,
		table.RestaurantID,
	)
	created, err := scanTable(row)
	return created, classify(err)
}

// List returns all tables, or only those of restaurantID when it is set.
func (r *TableRepository) List(ctx context.Context, restaurantID string) ([]models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM dining_tables`
	args := []any{}
	if restaurantID != "" {
		query += ` WHERE restaurant_id = $1`
		args = append(args, restaurantID)
	}
	query += ` ORDER BY restaurant_id, number`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]models.Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *TableRepository) GetByID(ctx context.Context, id string) (models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM dining_tables WHERE id = $1`
	table, err := scanTable(r.pool.QueryRow(ctx, query, id))
	return table, classify(err)
}

func (r *TableRepository) Update(ctx context.Context, table models.Table) (models.Table, error) {
	const query = `
		UPDATE dining_tables SET
			number = $2,
			capacity = $3,
			status = $4,
			last_occupied = $5,
			restaurant_id = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + tableColumns

	row := r.pool.QueryRow(ctx, query,
		table.ID,
		table.Number,
		table.Capacity,
		table.Status,
		table.LastOccupied,
		table.RestaurantID,
	)
	updated, err := scanTable(row)
	return updated, classify(err)
}

func (r *TableRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTable(row pgx.Row) (models.Table, error) {
	var table models.Table
	err := row.Scan(
		&table.ID,
		&table.Number,
		&table.Capacity,
		&table.Status,
		&table.LastOccupied,
		&table.RestaurantID,
		&table.CreatedAt,
		&table.UpdatedAt,
	)
	return table, err
}
