package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"restaurantadmin/internal/models"
)

const userColumns = `id, name, email, COALESCE(password_hash, ''), avatar_public_id, avatar_url, role, is_verified, created_at, updated_at`

type UserRepository struct {
	pool DB
}

func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, avatar_public_id, avatar_url, role, is_verified, created_at, updated_at
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NOW(), NOW()
		)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Avatar.PublicID,
		user.Avatar.URL,
		user.Role,
		user.IsVerified,
	)
	created, err := scanUser(row)
	return created, classify(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	return user, classify(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	return user, classify(err)
}

// Update writes every mutable column of user and returns the stored row.
func (r *UserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		UPDATE users SET
			name = $2,
			email = $3,
			password_hash = NULLIF($4, ''),
			avatar_public_id = $5,
			avatar_url = $6,
			role = $7,
			is_verified = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Avatar.PublicID,
		user.Avatar.URL,
		user.Role,
		user.IsVerified,
	)
	updated, err := scanUser(row)
	return updated, classify(err)
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CountByIDs reports how many of ids exist. Duplicates in ids count once.
func (r *UserRepository) CountByIDs(ctx context.Context, ids []string) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE id = ANY($1)`
	var count int
	if err := r.pool.QueryRow(ctx, query, ids).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AvatarKeys returns every avatar object key still referenced by a user.
func (r *UserRepository) AvatarKeys(ctx context.Context) (map[string]struct{}, error) {
	const query = `SELECT avatar_public_id FROM users WHERE avatar_public_id <> ''`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = struct{}{}
	}
	return keys, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar.PublicID,
		&user.Avatar.URL,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
