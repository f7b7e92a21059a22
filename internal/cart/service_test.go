package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaikhana/backend/internal/cart"
	"github.com/chaikhana/backend/internal/catalog"
)

type mockCatalogService struct {
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error)
}

func (m *mockCatalogService) List(ctx context.Context, onlyAvailable bool) ([]catalog.Dish, error) {
	return nil, nil
}

func (m *mockCatalogService) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCatalogService) Create(ctx context.Context, d *catalog.Dish) (*catalog.Dish, error) {
	return nil, nil
}

func (m *mockCatalogService) Update(ctx context.Context, d *catalog.Dish) (*catalog.Dish, error) {
	return nil, nil
}

func (m *mockCatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockCatalogService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return nil
}

func newTestService(t *testing.T, catalogSvc catalog.Service) cart.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cart.NewService(cart.NewRedisStore(client, time.Hour), catalogSvc)
}

func TestCartService_AddItem(t *testing.T) {
	available := dish("Плов", 45000)
	unavailable := dish("Шурпа", 35000)
	unavailable.Available = false

	dishes := map[uuid.UUID]catalog.Dish{
		available.ID:   available,
		unavailable.ID: unavailable,
	}
	catalogSvc := &mockCatalogService{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
			d, ok := dishes[id]
			if !ok {
				return nil, catalog.ErrDishNotFound
			}
			return &d, nil
		},
	}

	tests := []struct {
		name      string
		dishID    uuid.UUID
		quantity  int
		wantErrIs error
		wantLines int
	}{
		{
			name:      "available_dish",
			dishID:    available.ID,
			quantity:  2,
			wantLines: 1,
		},
		{
			name:      "unavailable_dish",
			dishID:    unavailable.ID,
			quantity:  1,
			wantErrIs: cart.ErrDishUnavailable,
		},
		{
			name:      "unknown_dish",
			dishID:    uuid.Must(uuid.NewV4()),
			quantity:  1,
			wantErrIs: catalog.ErrDishNotFound,
		},
		{
			name:      "zero_quantity",
			dishID:    available.ID,
			quantity:  0,
			wantErrIs: cart.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, catalogSvc)

			c, err := svc.AddItem(context.Background(), "session-1", tt.dishID, tt.quantity)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.Lines, tt.wantLines)
		})
	}
}

func TestCartService_MutationsPersistAcrossLoads(t *testing.T) {
	plov := dish("Плов", 45000)
	catalogSvc := &mockCatalogService{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
			return &plov, nil
		},
	}
	svc := newTestService(t, catalogSvc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", plov.ID, 2)
	require.NoError(t, err)

	// A fresh Get simulates a reload: the cart must rehydrate.
	c, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, int64(90000), c.TotalAmount())

	_, err = svc.SetQuantity(ctx, "session-1", plov.ID, 5)
	require.NoError(t, err)

	c, err = svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	_, err = svc.RemoveItem(ctx, "session-1", plov.ID)
	require.NoError(t, err)

	c, err = svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_Clear(t *testing.T) {
	plov := dish("Плов", 45000)
	catalogSvc := &mockCatalogService{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
			return &plov, nil
		},
	}
	svc := newTestService(t, catalogSvc)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", plov.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "session-1"))

	c, err := svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
