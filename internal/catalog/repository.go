package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDishNotFound = errors.New("dish not found")

type Repository interface {
	List(ctx context.Context, onlyAvailable bool) ([]Dish, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Dish, error)
	Create(ctx context.Context, dish *Dish) error
	Update(ctx context.Context, dish *Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const dishColumns = `id, name, category, price, image_url, description, available, created_at, updated_at`

func scanDish(row pgx.Row, d *Dish) error {
	return row.Scan(
		&d.ID,
		&d.Name,
		&d.Category,
		&d.Price,
		&d.ImageURL,
		&d.Description,
		&d.Available,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

func (r *postgresRepository) List(ctx context.Context, onlyAvailable bool) ([]Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes`
	if onlyAvailable {
		query += ` WHERE available = true`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query dishes: %w", err)
	}
	defer rows.Close()

	dishes := make([]Dish, 0)
	for rows.Next() {
		var d Dish
		if err := scanDish(rows, &d); err != nil {
			return nil, fmt.Errorf("repository: failed to scan dish: %w", err)
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating dishes: %w", err)
	}

	return dishes, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	var d Dish
	err := scanDish(r.db.QueryRow(ctx, query, id), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("repository: failed to select dish by id %s: %w", id, err)
	}

	return &d, nil
}

func (r *postgresRepository) Create(ctx context.Context, dish *Dish) error {
	now := time.Now().UTC()
	dish.CreatedAt = now
	dish.UpdatedAt = now

	query := `
		INSERT INTO dishes (id, name, category, price, image_url, description, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		dish.ID,
		dish.Name,
		string(dish.Category),
		dish.Price,
		dish.ImageURL,
		dish.Description,
		dish.Available,
		dish.CreatedAt,
		dish.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert dish: %w", err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, dish *Dish) error {
	dish.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE dishes
		SET name = $1, category = $2, price = $3, image_url = $4, description = $5, available = $6, updated_at = $7
		WHERE id = $8
	`
	cmdTag, err := r.db.Exec(ctx, query,
		dish.Name,
		string(dish.Category),
		dish.Price,
		dish.ImageURL,
		dish.Description,
		dish.Available,
		dish.UpdatedAt,
		dish.ID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to update dish %s: %w", dish.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete dish %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}

func (r *postgresRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE dishes SET available = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, available, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update dish availability %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDishNotFound
	}

	return nil
}
