package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/order"
)

type PlaceOrderRequest struct {
	Address       string `json:"address" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	Comment       string `json:"comment"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card cash"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AssignCourierRequest struct {
	CourierID string `json:"courier_id" validate:"required,uuid4"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handlePlaceOrder)
	router.With(RequireAuth).Get("/orders", h.handleListOwnOrders)
}

func (h *OrderHandler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/orders", h.handleListAllOrders)
	router.Get("/orders/{id}", h.handleGetOrder)
	router.Put("/orders/{id}/status", h.handleUpdateStatus)
	router.Put("/orders/{id}/courier", h.handleAssignCourier)
}

// handlePlaceOrder converts the session cart into an order. Guest checkout
// is allowed; a signed-in shopper's id is attached when present.
func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	var userID uuid.NullUUID
	if p := profileFromContext(r.Context()); p != nil {
		userID = uuid.NullUUID{UUID: p.ID, Valid: true}
	}

	details := order.DeliveryDetails{
		Address: req.Address,
		Phone:   req.Phone,
		Comment: req.Comment,
	}

	o, err := h.service.PlaceOrder(
		r.Context(),
		sessionIDFromContext(r.Context()),
		userID,
		details,
		order.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		var declined *order.PaymentDeclinedError
		if errors.As(err, &declined) {
			respondWithJSON(w, http.StatusPaymentRequired, map[string]string{
				"error":           "Payment failed",
				"gateway_message": declined.Message,
			})
			return
		}
		log.Error().Err(err).Msg("Failed to place order via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to place order"))
		return
	}

	respondWithJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) handleListOwnOrders(w http.ResponseWriter, r *http.Request) {
	p := profileFromContext(r.Context())

	orders, err := h.service.ListForUser(r.Context(), p.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list user orders via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list orders via service")
		respondWithError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	o, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get order"))
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var req UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, order.Status(req.Status)); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update order status"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleAssignCourier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var req AssignCourierRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	courierID, err := uuid.FromString(req.CourierID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid courier_id")
		return
	}

	if err := h.service.AssignCourier(r.Context(), id, courierID); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to assign courier"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
