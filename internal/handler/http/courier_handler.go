package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"

	"github.com/chaikhana/backend/internal/courier"
)

type CourierRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Vehicle string `json:"vehicle"`
	Status  string `json:"status" validate:"omitempty,oneof=available busy offline"`
}

type CourierHandler struct {
	service  courier.Service
	validate *validator.Validate
}

func NewCourierHandler(service courier.Service) *CourierHandler {
	return &CourierHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CourierHandler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/couriers", h.handleListCouriers)
	router.Post("/couriers", h.handleCreateCourier)
	router.Put("/couriers/{id}", h.handleUpdateCourier)
	router.Delete("/couriers/{id}", h.handleDeleteCourier)
}

func (h *CourierHandler) handleListCouriers(w http.ResponseWriter, r *http.Request) {
	couriers, err := h.service.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list couriers")
		return
	}
	respondWithJSON(w, http.StatusOK, couriers)
}

func (h *CourierHandler) decodeCourierRequest(w http.ResponseWriter, r *http.Request) (*CourierRequest, bool) {
	var req CourierRequest
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

func (h *CourierHandler) handleCreateCourier(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCourierRequest(w, r)
	if !ok {
		return
	}

	c := &courier.Courier{
		Name:    req.Name,
		Phone:   req.Phone,
		Vehicle: req.Vehicle,
		Status:  courier.Status(req.Status),
	}

	created, err := h.service.Create(r.Context(), c)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create courier"))
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *CourierHandler) handleUpdateCourier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	req, ok := h.decodeCourierRequest(w, r)
	if !ok {
		return
	}

	c := &courier.Courier{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Vehicle: req.Vehicle,
		Status:  courier.Status(req.Status),
	}

	updated, err := h.service.Update(r.Context(), c)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update courier"))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *CourierHandler) handleDeleteCourier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to delete courier"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
