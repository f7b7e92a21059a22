package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/catalog"
)

var (
	ErrDishUnavailable = errors.New("dish is not available for ordering")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, dishID uuid.UUID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, dishID uuid.UUID) (*Cart, error)
	SetQuantity(ctx context.Context, sessionID string, dishID uuid.UUID, quantity int) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// service funnels every mutation for a session through one mutex, so
// quantity updates apply in the order they were issued.
type service struct {
	store   Store
	catalog catalog.Service

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store Store, catalogSvc catalog.Service) Service {
	return &service{
		store:   store,
		catalog: catalogSvc,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}
	return c, nil
}

// AddItem looks the dish up in the catalog at add time: unknown dishes are
// rejected and unavailable dishes cannot enter a cart. The stored line
// carries the dish snapshot as seen here.
func (s *service) AddItem(ctx context.Context, sessionID string, dishID uuid.UUID, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	dish, err := s.catalog.GetByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, catalog.ErrDishNotFound) {
			return nil, catalog.ErrDishNotFound
		}
		return nil, fmt.Errorf("service: failed to look up dish: %w", err)
	}
	if !dish.Available {
		return nil, ErrDishUnavailable
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	c.AddItem(*dish, quantity)

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("service: failed to persist cart: %w", err)
	}

	log.Debug().Str("session_id", sessionID).Stringer("dish_id", dishID).Int("quantity", quantity).Msg("service: item added to cart")
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, dishID uuid.UUID) (*Cart, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	c.RemoveItem(dishID)

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("service: failed to persist cart: %w", err)
	}

	return c, nil
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, dishID uuid.UUID, quantity int) (*Cart, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}

	c.SetQuantity(dishID, quantity)

	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, fmt.Errorf("service: failed to persist cart: %w", err)
	}

	return c, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}

	return nil
}
