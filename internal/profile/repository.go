package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrEmailExists = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	UpdateContact(ctx context.Context, id uuid.UUID, phone, address string) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, name, email, phone, address, role, password_hash, created_at, updated_at`

func scanProfile(row pgx.Row, p *Profile) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.Role,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, p *Profile) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, name, email, phone, address, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.Phone,
		p.Address,
		string(p.Role),
		p.PasswordHash,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailExists
		}
		return fmt.Errorf("repository: failed to insert profile: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var p Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select profile by id %s: %w", id, err)
	}

	return &p, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	var p Profile
	if err := scanProfile(r.db.QueryRow(ctx, query, email), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select profile by email: %w", err)
	}

	return &p, nil
}

func (r *postgresRepository) UpdateContact(ctx context.Context, id uuid.UUID, phone, address string) error {
	query := `UPDATE profiles SET phone = $1, address = $2, updated_at = $3 WHERE id = $4`

	cmdTag, err := r.db.Exec(ctx, query, phone, address, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update profile contact %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
