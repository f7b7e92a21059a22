package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"github.com/chaikhana/backend/internal/cart"
)

type AddItemRequest struct {
	DishID   string `json:"dish_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartResponse struct {
	Lines          []cart.Line `json:"lines"`
	TotalAmount    int64       `json:"total_amount"`
	TotalItemCount int         `json:"total_item_count"`
}

func newCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Lines:          c.Lines,
		TotalAmount:    c.TotalAmount(),
		TotalItemCount: c.TotalItemCount(),
	}
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router chi.Router) {
	router.Get("/cart", h.handleGetCart)
	router.Post("/cart/items", h.handleAddItem)
	router.Put("/cart/items/{dishID}", h.handleSetQuantity)
	router.Delete("/cart/items/{dishID}", h.handleRemoveItem)
	router.Delete("/cart", h.handleClearCart)
}

func (h *CartHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), sessionIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	respondWithJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
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

	dishID, err := uuid.FromString(req.DishID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid dish_id")
		return
	}

	c, err := h.service.AddItem(r.Context(), sessionIDFromContext(r.Context()), dishID, req.Quantity)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to add item to cart"))
		return
	}

	respondWithJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	dishID, err := uuid.FromString(chi.URLParam(r, "dishID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid dish id parameter")
		return
	}

	var req SetQuantityRequest
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

	c, err := h.service.SetQuantity(r.Context(), sessionIDFromContext(r.Context()), dishID, *req.Quantity)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update cart"))
		return
	}

	respondWithJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	dishID, err := uuid.FromString(chi.URLParam(r, "dishID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid dish id parameter")
		return
	}

	c, err := h.service.RemoveItem(r.Context(), sessionIDFromContext(r.Context()), dishID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	respondWithJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *CartHandler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
