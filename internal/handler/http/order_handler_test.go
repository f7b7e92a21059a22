package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handler "github.com/chaikhana/backend/internal/handler/http"
	"github.com/chaikhana/backend/internal/order"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, sessionID string, userID uuid.NullUUID, details order.DeliveryDetails, method order.PaymentMethod) (*order.Order, error) {
	args := m.Called(ctx, sessionID, userID, details, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}

func (m *MockOrderService) AssignCourier(ctx context.Context, orderID, courierID uuid.UUID) error {
	args := m.Called(ctx, orderID, courierID)
	return args.Error(0)
}

func (m *MockOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

const testSessionID = "11111111-2222-3333-4444-555555555555"

// newOrderRouter mounts the handler the way the real router does: public
// routes behind the session middleware, admin routes under /admin.
func newOrderRouter(h *handler.OrderHandler) chi.Router {
	router := chi.NewRouter()
	router.Use(handler.SessionID)
	h.RegisterRoutes(router)
	router.Route("/admin", func(r chi.Router) {
		h.RegisterAdminRoutes(r)
	})
	return router
}

func placeOrderRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/orders", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: testSessionID})
	return req
}

func TestOrderHandler_handlePlaceOrder_Success(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	placed := order.Order{
		ID:            uuid.Must(uuid.NewV4()),
		TotalAmount:   120000,
		Address:       "ул. Ленина 1",
		Phone:         "+79990000000",
		PaymentMethod: order.PaymentMethodCash,
		PaymentStatus: order.PaymentPending,
		Status:        order.StatusPending,
	}

	mockService.On("PlaceOrder", mock.Anything, testSessionID, uuid.NullUUID{}, order.DeliveryDetails{
		Address: "ул. Ленина 1",
		Phone:   "+79990000000",
		Comment: "без лука",
	}, order.PaymentMethodCash).Return(&placed, nil).Once()

	req := placeOrderRequest(t, handler.PlaceOrderRequest{
		Address:       "ул. Ленина 1",
		Phone:         "+79990000000",
		Comment:       "без лука",
		PaymentMethod: "cash",
	})
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var actual order.Order
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actual))
	assert.Equal(t, placed.ID, actual.ID)
	assert.Equal(t, int64(120000), actual.TotalAmount)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handlePlaceOrder_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body handler.PlaceOrderRequest
	}{
		{
			name: "missing_address",
			body: handler.PlaceOrderRequest{Phone: "+79990000000", PaymentMethod: "cash"},
		},
		{
			name: "missing_phone",
			body: handler.PlaceOrderRequest{Address: "ул. Ленина 1", PaymentMethod: "cash"},
		},
		{
			name: "unknown_payment_method",
			body: handler.PlaceOrderRequest{Address: "ул. Ленина 1", Phone: "+79990000000", PaymentMethod: "crypto"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			h := handler.NewOrderHandler(mockService)

			rr := httptest.NewRecorder()
			newOrderRouter(h).ServeHTTP(rr, placeOrderRequest(t, tt.body))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			mockService.AssertNotCalled(t, "PlaceOrder")
		})
	}
}

func TestOrderHandler_handlePlaceOrder_InvalidJSON(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"address": "ул. Ленина 1"`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: testSessionID})

	rr := httptest.NewRecorder()
	newOrderRouter(h).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorResponse map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errorResponse))
	assert.Contains(t, errorResponse["error"], "Invalid request payload")
	mockService.AssertNotCalled(t, "PlaceOrder")
}

func TestOrderHandler_handlePlaceOrder_EmptyCart(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	mockService.On("PlaceOrder", mock.Anything, testSessionID, uuid.NullUUID{}, mock.Anything, order.PaymentMethodCash).
		Return(nil, order.ErrEmptyCart).
		Once()

	req := placeOrderRequest(t, handler.PlaceOrderRequest{
		Address:       "ул. Ленина 1",
		Phone:         "+79990000000",
		PaymentMethod: "cash",
	})
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var errorResponse map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errorResponse))
	assert.Contains(t, errorResponse["error"], "cart is empty")
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handlePlaceOrder_PaymentDeclined(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	mockService.On("PlaceOrder", mock.Anything, testSessionID, uuid.NullUUID{}, mock.Anything, order.PaymentMethodCard).
		Return(nil, &order.PaymentDeclinedError{Message: "insufficient funds"}).
		Once()

	req := placeOrderRequest(t, handler.PlaceOrderRequest{
		Address:       "ул. Ленина 1",
		Phone:         "+79990000000",
		PaymentMethod: "card",
	})
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusPaymentRequired, rr.Code)

	var errorResponse map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&errorResponse))
	assert.Equal(t, "Payment failed", errorResponse["error"])
	assert.Equal(t, "insufficient funds", errorResponse["gateway_message"])
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handlePlaceOrder_DuplicateSubmission(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	mockService.On("PlaceOrder", mock.Anything, testSessionID, uuid.NullUUID{}, mock.Anything, order.PaymentMethodCard).
		Return(nil, order.ErrPlacementInProgress).
		Once()

	req := placeOrderRequest(t, handler.PlaceOrderRequest{
		Address:       "ул. Ленина 1",
		Phone:         "+79990000000",
		PaymentMethod: "card",
	})
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusConflict, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleListOwnOrders_Unauthenticated(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	mockService.AssertNotCalled(t, "ListForUser")
}

func TestOrderHandler_handleUpdateStatus_Success(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("UpdateStatus", mock.Anything, orderID, order.StatusCooking).
		Return(nil).
		Once()

	body, err := json.Marshal(handler.UpdateStatusRequest{Status: "cooking"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/"+orderID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		serviceErr error
		wantCode   int
	}{
		{
			name:       "terminal_order",
			status:     "cooking",
			serviceErr: order.ErrTerminalState,
			wantCode:   http.StatusConflict,
		},
		{
			name:       "unknown_status",
			status:     "shipped",
			serviceErr: order.ErrUnknownStatus,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:       "order_not_found",
			status:     "cooking",
			serviceErr: order.ErrOrderNotFound,
			wantCode:   http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			h := handler.NewOrderHandler(mockService)
			orderID := uuid.Must(uuid.NewV4())

			mockService.On("UpdateStatus", mock.Anything, orderID, order.Status(tt.status)).
				Return(tt.serviceErr).
				Once()

			body, err := json.Marshal(handler.UpdateStatusRequest{Status: tt.status})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPut, "/admin/orders/"+orderID.String()+"/status", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			newOrderRouter(h).ServeHTTP(rr, req)
			require.Equal(t, tt.wantCode, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_handleUpdateStatus_InvalidUUID(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)

	body, err := json.Marshal(handler.UpdateStatusRequest{Status: "cooking"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/not-a-uuid/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "UpdateStatus")
}

func TestOrderHandler_handleAssignCourier_Success(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)
	orderID := uuid.Must(uuid.NewV4())
	courierID := uuid.Must(uuid.NewV4())

	mockService.On("AssignCourier", mock.Anything, orderID, courierID).
		Return(nil).
		Once()

	body, err := json.Marshal(handler.AssignCourierRequest{CourierID: courierID.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/admin/orders/"+orderID.String()+"/courier", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_handleGetOrder_NotFound(t *testing.T) {
	mockService := new(MockOrderService)
	h := handler.NewOrderHandler(mockService)
	orderID := uuid.Must(uuid.NewV4())

	mockService.On("GetByID", mock.Anything, orderID).
		Return(nil, order.ErrOrderNotFound).
		Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/"+orderID.String(), nil)
	rr := httptest.NewRecorder()

	newOrderRouter(h).ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
	mockService.AssertExpectations(t)
}
