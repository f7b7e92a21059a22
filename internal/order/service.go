package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/cart"
	"github.com/chaikhana/backend/internal/payment"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingAddress       = errors.New("delivery address is required")
	ErrMissingPhone         = errors.New("contact phone is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrPlacementInProgress  = errors.New("order placement already in progress for this session")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrTerminalState        = errors.New("order is in a terminal state and cannot be transitioned")
	ErrInvalidCourier       = errors.New("courier id is required")
)

// PaymentDeclinedError carries the gateway's message so the shopper can see
// why the charge failed and retry.
type PaymentDeclinedError struct {
	Message string
}

func (e *PaymentDeclinedError) Error() string {
	return "payment declined: " + e.Message
}

// Event is published when an order is placed or its status changes.
type Event struct {
	Type    string    `json:"type"`
	OrderID uuid.UUID `json:"order_id"`
	Status  Status    `json:"status"`
}

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers order events to interested consumers. Publish
// failures never fail the originating operation.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Service interface {
	PlaceOrder(ctx context.Context, sessionID string, userID uuid.NullUUID, details DeliveryDetails, method PaymentMethod) (*Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error
	AssignCourier(ctx context.Context, orderID, courierID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

type service struct {
	repo      Repository
	carts     cart.Service
	gateway   payment.Gateway
	publisher EventPublisher

	mu       sync.Mutex
	inFlight map[string]struct{} // sessions with a placement in progress
}

func NewService(repo Repository, carts cart.Service, gateway payment.Gateway, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		carts:     carts,
		gateway:   gateway,
		publisher: publisher,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *service) beginPlacement(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return ErrPlacementInProgress
	}
	s.inFlight[sessionID] = struct{}{}
	return nil
}

func (s *service) endPlacement(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// PlaceOrder converts the session's cart into an order. Validation happens
// before any persistence or gateway call; a failed card charge persists
// nothing and leaves the cart untouched so the shopper can retry.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, userID uuid.NullUUID, details DeliveryDetails, method PaymentMethod) (*Order, error) {
	if strings.TrimSpace(details.Address) == "" {
		return nil, ErrMissingAddress
	}
	if strings.TrimSpace(details.Phone) == "" {
		return nil, ErrMissingPhone
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	// At most one placement per session may be in flight; a slow gateway
	// must not allow duplicate submissions.
	if err := s.beginPlacement(sessionID); err != nil {
		return nil, err
	}
	defer s.endPlacement(sessionID)

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart for checkout: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate order id: %w", err)
	}

	// Freeze the cart into line snapshots; the total is computed once here
	// and never recomputed from live dish prices.
	lines := make([]Line, 0, len(c.Lines))
	var total int64
	for _, cl := range c.Lines {
		lines = append(lines, Line{
			DishID:   cl.Dish.ID,
			Name:     cl.Dish.Name,
			Price:    cl.Dish.Price,
			Quantity: cl.Quantity,
		})
		total += cl.Dish.Price * int64(cl.Quantity)
	}

	o := &Order{
		ID:            id,
		UserID:        userID,
		Lines:         lines,
		TotalAmount:   total,
		Address:       details.Address,
		Phone:         details.Phone,
		Comment:       details.Comment,
		PaymentMethod: method,
		PaymentStatus: PaymentPending,
		Status:        StatusPending,
	}

	if method == PaymentMethodCard {
		result, err := s.gateway.AttemptCharge(ctx, o.ID, o.TotalAmount, chargeDescription(o))
		if err != nil {
			log.Error().Err(err).Stringer("order_id", o.ID).Msg("service: charge attempt failed before reaching processor")
			return nil, &PaymentDeclinedError{Message: "payment could not be initiated"}
		}
		if !result.Success {
			log.Warn().Stringer("order_id", o.ID).Str("gateway_message", result.Message).Msg("service: charge declined, order not persisted")
			return nil, &PaymentDeclinedError{Message: result.Message}
		}
		o.PaymentStatus = PaymentSucceeded
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error().Err(err).Stringer("order_id", o.ID).Msg("service: failed to persist order")
		return nil, fmt.Errorf("service: failed to persist order: %w", err)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order is already placed; a stale cart is recoverable.
		log.Error().Err(err).Str("session_id", sessionID).Stringer("order_id", o.ID).Msg("service: failed to clear cart after placement")
	}

	s.publish(ctx, Event{Type: EventOrderPlaced, OrderID: o.ID, Status: o.Status})

	log.Info().
		Stringer("order_id", o.ID).
		Int64("total_amount", o.TotalAmount).
		Str("payment_method", string(method)).
		Msg("service: order placed")

	return o, nil
}

func chargeDescription(o *Order) string {
	return fmt.Sprintf("order %s, %d item(s)", o.ID, len(o.Lines))
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}
	return o, nil
}

// UpdateStatus validates the transition and persists the new status.
// Policy: any non-terminal status may move to any other non-terminal status
// or to cancelled; delivered and cancelled accept nothing further, and such
// attempts are reported as errors rather than ignored.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for status update: %w", err)
	}

	if current.Status.Terminal() {
		log.Warn().
			Stringer("order_id", orderID).
			Stringer("current_status", current.Status).
			Stringer("new_status", newStatus).
			Msg("service: attempt to transition a terminal order")
		return fmt.Errorf("%w: %s", ErrTerminalState, current.Status)
	}

	if current.Status == newStatus {
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to update order status: %w", err)
	}

	s.publish(ctx, Event{Type: EventOrderStatusChanged, OrderID: orderID, Status: newStatus})

	log.Info().
		Stringer("order_id", orderID).
		Stringer("old_status", current.Status).
		Stringer("new_status", newStatus).
		Msg("service: order status updated")

	return nil
}

func (s *service) AssignCourier(ctx context.Context, orderID, courierID uuid.UUID) error {
	if courierID == uuid.Nil {
		return ErrInvalidCourier
	}

	current, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to get order for courier assignment: %w", err)
	}

	if current.Status.Terminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, current.Status)
	}

	if err := s.repo.AssignCourier(ctx, orderID, courierID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to assign courier: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("courier_id", courierID).Msg("service: courier assigned")
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch user orders: %w", err)
	}
	return orders, nil
}

func (s *service) ListAll(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch orders: %w", err)
	}
	return orders, nil
}

func (s *service) publish(ctx context.Context, event Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Stringer("order_id", event.OrderID).Str("event", event.Type).Msg("service: failed to publish order event")
	}
}
