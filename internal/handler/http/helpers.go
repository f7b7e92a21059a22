package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/cart"
	"github.com/chaikhana/backend/internal/catalog"
	"github.com/chaikhana/backend/internal/courier"
	"github.com/chaikhana/backend/internal/order"
	"github.com/chaikhana/backend/internal/profile"
)

type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = fmt.Sprintf("failed on the '%s' rule", fieldErr.Tag())
	}
	return details
}

func respondValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:   "Validation failed",
			Details: formatValidationErrors(validationErrors),
		})
		return
	}
	log.Error().Err(err).Msg("Unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "Internal validation error")
}

func mapErrorToStatusCode(err error) int {
	var declined *order.PaymentDeclinedError
	switch {
	case errors.Is(err, catalog.ErrDishNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, courier.ErrCourierNotFound),
		errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, profile.ErrInvalidCredentials),
		errors.Is(err, profile.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrTerminalState),
		errors.Is(err, order.ErrPlacementInProgress):
		return http.StatusConflict
	case errors.As(err, &declined):
		return http.StatusPaymentRequired
	case errors.Is(err, cart.ErrDishUnavailable),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, courier.ErrInvalidStatus),
		errors.Is(err, courier.ErrEmptyName),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrMissingAddress),
		errors.Is(err, order.ErrMissingPhone),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrInvalidCourier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage picks a safe message for the response body: domain errors
// speak for themselves, everything else is masked.
func clientMessage(err error, fallback string) string {
	if mapErrorToStatusCode(err) != http.StatusInternalServerError {
		return err.Error()
	}
	return fallback
}
