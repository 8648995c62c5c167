package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"restaurantadmin/internal/models"
)

const (
	categoryColumns = `id, name, restaurant_id, created_at, updated_at`
	menuItemColumns = `id, name, price::float8, category, description, is_available, created_at, updated_at`
)

type CategoryRepository struct {
	pool DB
}

func NewCategoryRepository(pool DB) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) (models.Category, error) {
	const query = `
		INSERT INTO categories (id, name, restaurant_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + categoryColumns
	created, err := scanCategory(r.pool.QueryRow(ctx, query, category.ID, category.Name, category.RestaurantID))
	return created, classify(err)
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	category, err := scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return category, classify(err)
}

func (r *CategoryRepository) Update(ctx context.Context, category models.Category) (models.Category, error) {
	const query = `
		UPDATE categories SET name = $2, restaurant_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns
	updated, err := scanCategory(r.pool.QueryRow(ctx, query, category.ID, category.Name, category.RestaurantID))
	return updated, classify(err)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var category models.Category
	err := row.Scan(&category.ID, &category.Name, &category.RestaurantID, &category.CreatedAt, &category.UpdatedAt)
	return category, err
}

type MenuItemRepository struct {
	pool DB
}

func NewMenuItemRepository(pool DB) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func (r *MenuItemRepository) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const query = `
		INSERT INTO menu_items (id, name, price, category, description, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + menuItemColumns
	created, err := scanMenuItem(r.pool.QueryRow(ctx, query,
		item.ID, item.Name, item.Price, item.Category, item.Description, item.IsAvailable))
	return created, classify(err)
}

func (r *MenuItemRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	return r.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY category, name`)
}

func (r *MenuItemRepository) GetByID(ctx context.Context, id string) (models.MenuItem, error) {
	item, err := scanMenuItem(r.pool.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id))
	return item, classify(err)
}

// FindByIDs returns the items that exist among ids, each at most once.
func (r *MenuItemRepository) FindByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	return r.query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = ANY($1)`, ids)
}

func (r *MenuItemRepository) Update(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	const query = `
		UPDATE menu_items SET
			name = $2,
			price = $3,
			category = $4,
			description = $5,
			is_available = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + menuItemColumns
	updated, err := scanMenuItem(r.pool.QueryRow(ctx, query,
		item.ID, item.Name, item.Price, item.Category, item.Description, item.IsAvailable))
	return updated, classify(err)
}

func (r *MenuItemRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MenuItemRepository) query(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.Category,
		&item.Description,
		&item.IsAvailable,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
