package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurantadmin/internal/models"
)

type RestaurantRepository struct {
	pool DB
}

func NewRestaurantRepository(pool DB) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

// Create stores the restaurant and its owner links in one transaction.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO restaurants (id, name, address, phone, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, insert, restaurant.ID, restaurant.Name, restaurant.Address, restaurant.Phone); err != nil {
		return models.Restaurant{}, classify(err)
	}
	if err := replaceOwners(ctx, tx, restaurant.ID, restaurant.OwnerIDs()); err != nil {
		return models.Restaurant{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Restaurant{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, restaurant.ID)
}

func (r *RestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	const query = `SELECT id, name, address, phone, created_at FROM restaurants ORDER BY created_at DESC`
	return r.query(ctx, query)
}

// ListByOwner returns the restaurants userID is an owner of.
func (r *RestaurantRepository) ListByOwner(ctx context.Context, userID string) ([]models.Restaurant, error) {
	const query = `
		SELECT r.id, r.name, r.address, r.phone, r.created_at
		FROM restaurants r
		JOIN restaurant_owners o ON o.restaurant_id = r.id
		WHERE o.user_id = $1
		ORDER BY r.created_at DESC
	`
	return r.query(ctx, query, userID)
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (models.Restaurant, error) {
	const query = `SELECT id, name, address, phone, created_at FROM restaurants WHERE id = $1`
	var restaurant models.Restaurant
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.Address,
		&restaurant.Phone,
		&restaurant.CreatedAt,
	)
	if err != nil {
		return models.Restaurant{}, classify(err)
	}

	owners, err := r.owners(ctx, []string{id})
	if err != nil {
		return models.Restaurant{}, err
	}
	restaurant.Owners = ownersOrEmpty(owners[id])
	return restaurant, nil
}

// Update rewrites the scalar fields and, when owners is non-nil, the owner set.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const update = `UPDATE restaurants SET name = $2, address = $3, phone = $4 WHERE id = $1`
	cmd, err := tx.Exec(ctx, update, restaurant.ID, restaurant.Name, restaurant.Address, restaurant.Phone)
	if err != nil {
		return models.Restaurant{}, classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return models.Restaurant{}, ErrNotFound
	}
	if restaurant.Owners != nil {
		if err := replaceOwners(ctx, tx, restaurant.ID, restaurant.OwnerIDs()); err != nil {
			return models.Restaurant{}, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return models.Restaurant{}, fmt.Errorf("commit: %w", err)
	}
	return r.GetByID(ctx, restaurant.ID)
}

func (r *RestaurantRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RestaurantRepository) query(ctx context.Context, query string, args ...any) ([]models.Restaurant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make([]models.Restaurant, 0)
	for rows.Next() {
		var restaurant models.Restaurant
		if err := rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.Address,
			&restaurant.Phone,
			&restaurant.CreatedAt,
		); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return restaurants, nil
	}

	ids := make([]string, len(restaurants))
	for i, restaurant := range restaurants {
		ids[i] = restaurant.ID
	}
	owners, err := r.owners(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range restaurants {
		restaurants[i].Owners = ownersOrEmpty(owners[restaurants[i].ID])
	}
	return restaurants, nil
}

func (r *RestaurantRepository) owners(ctx context.Context, restaurantIDs []string) (map[string][]models.Owner, error) {
	const query = `
		SELECT o.restaurant_id, u.id, u.name, u.email
		FROM restaurant_owners o
		JOIN users u ON u.id = o.user_id
		WHERE o.restaurant_id = ANY($1)
		ORDER BY u.name
	`
	rows, err := r.pool.Query(ctx, query, restaurantIDs)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Owner, len(restaurantIDs))
	for rows.Next() {
		var restaurantID string
		var owner models.Owner
		if err := rows.Scan(&restaurantID, &owner.ID, &owner.Name, &owner.Email); err != nil {
			return nil, err
		}
		out[restaurantID] = append(out[restaurantID], owner)
	}
	return out, rows.Err()
}

func replaceOwners(ctx context.Context, tx pgx.Tx, restaurantID string, ownerIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM restaurant_owners WHERE restaurant_id = $1`, restaurantID); err != nil {
		return fmt.Errorf("clear owners: %w", err)
	}
	const insert = `
		INSERT INTO restaurant_owners (restaurant_id, user_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.Exec(ctx, insert, restaurantID, ownerIDs); err != nil {
		return fmt.Errorf("link owners: %w", err)
	}
	return nil
}

func ownersOrEmpty(owners []models.Owner) []models.Owner {
	if owners == nil {
		return []models.Owner{}
	}
	return owners
}
