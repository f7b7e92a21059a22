package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidCategory = errors.New("unknown dish category")
	ErrNegativePrice   = errors.New("dish price cannot be negative")
	ErrEmptyName       = errors.New("dish name cannot be empty")
)

type Service interface {
	List(ctx context.Context, onlyAvailable bool) ([]Dish, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Dish, error)
	Create(ctx context.Context, dish *Dish) (*Dish, error)
	Update(ctx context.Context, dish *Dish) (*Dish, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateDish(dish *Dish) error {
	if dish.Name == "" {
		return ErrEmptyName
	}
	if !dish.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, dish.Category)
	}
	if dish.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// List returns the menu. An erroring store degrades to an empty menu so the
// storefront keeps rendering with nothing orderable.
func (s *service) List(ctx context.Context, onlyAvailable bool) ([]Dish, error) {
	dishes, err := s.repo.List(ctx, onlyAvailable)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list dishes, degrading to empty menu")
		return []Dish{}, nil
	}
	return dishes, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Dish, error) {
	dish, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch dish by id: %w", err)
	}
	return dish, nil
}

func (s *service) Create(ctx context.Context, dish *Dish) (*Dish, error) {
	if err := validateDish(dish); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate dish id: %w", err)
	}
	dish.ID = id

	if err := s.repo.Create(ctx, dish); err != nil {
		log.Error().Err(err).Msg("service: failed to create dish in repository")
		return nil, fmt.Errorf("service: failed to create dish: %w", err)
	}

	log.Info().Stringer("dish_id", dish.ID).Str("name", dish.Name).Msg("service: dish created")
	return dish, nil
}

func (s *service) Update(ctx context.Context, dish *Dish) (*Dish, error) {
	if err := validateDish(dish); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, dish); err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return nil, ErrDishNotFound
		}
		log.Error().Err(err).Stringer("dish_id", dish.ID).Msg("service: failed to update dish in repository")
		return nil, fmt.Errorf("service: failed to update dish: %w", err)
	}

	return dish, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return ErrDishNotFound
		}
		return fmt.Errorf("service: failed to delete dish: %w", err)
	}

	log.Info().Stringer("dish_id", id).Msg("service: dish deleted")
	return nil
}

func (s *service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, ErrDishNotFound) {
			return ErrDishNotFound
		}
		return fmt.Errorf("service: failed to set dish availability: %w", err)
	}

	log.Info().Stringer("dish_id", id).Bool("available", available).Msg("service: dish availability changed")
	return nil
}
