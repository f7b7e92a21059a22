package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository is append-only for order content: orders are created and their
// status/courier mutated, never deleted.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
	AssignCourier(ctx context.Context, orderID, courierID uuid.UUID) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("order_id", o.ID).Msg("repository: failed to rollback order insert")
			}
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	queryOrder := `
		INSERT INTO orders (id, user_id, total_amount, address, phone, comment, payment_method, payment_status, status, courier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.Exec(ctx, queryOrder,
		o.ID,
		o.UserID,
		o.TotalAmount,
		o.Address,
		o.Phone,
		o.Comment,
		string(o.PaymentMethod),
		string(o.PaymentStatus),
		string(o.Status),
		o.CourierID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryLine := `
		INSERT INTO order_items (order_id, dish_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, line := range o.Lines {
		_, err = tx.Exec(ctx, queryLine, o.ID, line.DishID, line.Name, line.Price, line.Quantity)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", o.ID, err)
		}
	}

	return nil
}

const orderColumns = `id, user_id, total_amount, address, phone, comment, payment_method, payment_status, status, courier_id, created_at, updated_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Address,
		&o.Phone,
		&o.Comment,
		&o.PaymentMethod,
		&o.PaymentStatus,
		&o.Status,
		&o.CourierID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o Order
	if err := scanOrder(r.db.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	if o.Lines == nil {
		o.Lines = []Line{}
	}

	return &o, nil
}

func (r *postgresRepository) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]Line, error) {
	query := `
		SELECT order_id, dish_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]Line)
	for rows.Next() {
		var orderID uuid.UUID
		var line Line
		if err := rows.Scan(&orderID, &line.DishID, &line.Name, &line.Price, &line.Quantity); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		result[orderID] = append(result[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	return result, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) AssignCourier(ctx context.Context, orderID, courierID uuid.UUID) error {
	query := `UPDATE orders SET courier_id = $1, updated_at = $2 WHERE id = $3`

	cmdTag, err := r.db.Exec(ctx, query, courierID, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to assign courier to order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	var orderIDs []uuid.UUID
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Lines = []Line{}
		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return orders, nil
	}

	lines, err := r.loadLines(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if l, ok := lines[orders[i].ID]; ok {
			orders[i].Lines = l
		}
	}

	return orders, nil
}
