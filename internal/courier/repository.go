package courier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCourierNotFound = errors.New("courier not found")

type Repository interface {
	List(ctx context.Context) ([]Courier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Courier, error)
	Create(ctx context.Context, c *Courier) error
	Update(ctx context.Context, c *Courier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const courierColumns = `id, name, phone, vehicle, status, created_at, updated_at`

func scanCourier(row pgx.Row, c *Courier) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Vehicle,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *postgresRepository) List(ctx context.Context) ([]Courier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courierColumns+` FROM couriers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query couriers: %w", err)
	}
	defer rows.Close()

	couriers := make([]Courier, 0)
	for rows.Next() {
		var c Courier
		if err := scanCourier(rows, &c); err != nil {
			return nil, fmt.Errorf("repository: failed to scan courier: %w", err)
		}
		couriers = append(couriers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating couriers: %w", err)
	}

	return couriers, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Courier, error) {
	query := `SELECT ` + courierColumns + ` FROM couriers WHERE id = $1`

	var c Courier
	if err := scanCourier(r.db.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourierNotFound
		}
		return nil, fmt.Errorf("repository: failed to select courier by id %s: %w", id, err)
	}

	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *Courier) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO couriers (id, name, phone, vehicle, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Vehicle, string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert courier: %w", err)
	}

	return nil
}

func (r *postgresRepository) Update(ctx context.Context, c *Courier) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE couriers
		SET name = $1, phone = $2, vehicle = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	cmdTag, err := r.db.Exec(ctx, query, c.Name, c.Phone, c.Vehicle, string(c.Status), c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update courier %s: %w", c.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCourierNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM couriers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: failed to delete courier %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrCourierNotFound
	}

	return nil
}
