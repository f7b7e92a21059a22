package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/catalog"
)

type DishRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=soups main salads drinks desserts"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type CatalogHandler struct {
	service  catalog.Service
	validate *validator.Validate
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes exposes the read-only menu.
func (h *CatalogHandler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/dishes", h.handleListDishes)
	router.Get("/dishes/{id}", h.handleGetDish)
}

// RegisterAdminRoutes exposes catalog mutation; the admin check happens in
// the router middleware, once at the boundary.
func (h *CatalogHandler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/dishes", h.handleListAllDishes)
	router.Post("/dishes", h.handleCreateDish)
	router.Put("/dishes/{id}", h.handleUpdateDish)
	router.Delete("/dishes/{id}", h.handleDeleteDish)
	router.Put("/dishes/{id}/availability", h.handleSetAvailability)
}

func (h *CatalogHandler) handleListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.List(r.Context(), true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list dishes")
		respondWithError(w, http.StatusInternalServerError, "Failed to list dishes")
		return
	}
	respondWithJSON(w, http.StatusOK, dishes)
}

func (h *CatalogHandler) handleListAllDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.List(r.Context(), false)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list dishes")
		respondWithError(w, http.StatusInternalServerError, "Failed to list dishes")
		return
	}
	respondWithJSON(w, http.StatusOK, dishes)
}

func (h *CatalogHandler) handleGetDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	dish, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get dish"))
		return
	}

	respondWithJSON(w, http.StatusOK, dish)
}

func (h *CatalogHandler) decodeDishRequest(w http.ResponseWriter, r *http.Request) (*DishRequest, bool) {
	var req DishRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return nil, false
	}
	return &req, true
}

func (h *CatalogHandler) handleCreateDish(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDishRequest(w, r)
	if !ok {
		return
	}

	dish := &catalog.Dish{
		Name:        req.Name,
		Category:    catalog.Category(req.Category),
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Available:   req.Available,
	}

	created, err := h.service.Create(r.Context(), dish)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create dish via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create dish"))
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandler) handleUpdateDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	req, ok := h.decodeDishRequest(w, r)
	if !ok {
		return
	}

	dish := &catalog.Dish{
		ID:          id,
		Name:        req.Name,
		Category:    catalog.Category(req.Category),
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Available:   req.Available,
	}

	updated, err := h.service.Update(r.Context(), dish)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update dish"))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) handleDeleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to delete dish"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	var req AvailabilityRequest
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

	if err := h.service.SetAvailability(r.Context(), id, *req.Available); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to set availability"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
