package courier

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidStatus = errors.New("unknown courier status")
	ErrEmptyName     = errors.New("courier name cannot be empty")
)

type Service interface {
	List(ctx context.Context) ([]Courier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Courier, error)
	Create(ctx context.Context, c *Courier) (*Courier, error)
	Update(ctx context.Context, c *Courier) (*Courier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateCourier(c *Courier) error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.Status == "" {
		c.Status = StatusOffline
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]Courier, error) {
	couriers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list couriers: %w", err)
	}
	return couriers, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Courier, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourierNotFound) {
			return nil, ErrCourierNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch courier by id: %w", err)
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, c *Courier) (*Courier, error) {
	if err := validateCourier(c); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate courier id: %w", err)
	}
	c.ID = id

	if err := s.repo.Create(ctx, c); err != nil {
		log.Error().Err(err).Msg("service: failed to create courier in repository")
		return nil, fmt.Errorf("service: failed to create courier: %w", err)
	}

	log.Info().Stringer("courier_id", c.ID).Str("name", c.Name).Msg("service: courier created")
	return c, nil
}

func (s *service) Update(ctx context.Context, c *Courier) (*Courier, error) {
	if err := validateCourier(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, ErrCourierNotFound) {
			return nil, ErrCourierNotFound
		}
		return nil, fmt.Errorf("service: failed to update courier: %w", err)
	}

	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrCourierNotFound) {
			return ErrCourierNotFound
		}
		return fmt.Errorf("service: failed to delete courier: %w", err)
	}

	log.Info().Stringer("courier_id", id).Msg("service: courier deleted")
	return nil
}
