package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/profile"
)

type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateContactRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type ProfileResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role"`
}

type SessionResponse struct {
	Profile ProfileResponse `json:"profile"`
	Token   string          `json:"token"`
}

func newProfileResponse(p *profile.Profile) ProfileResponse {
	return ProfileResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
		Role:    string(p.Role),
	}
}

type AuthHandler struct {
	service  profile.Service
	validate *validator.Validate
}

func NewAuthHandler(service profile.Service) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/signup", h.handleSignUp)
	router.Post("/auth/signin", h.handleSignIn)
	router.Post("/auth/signout", h.handleSignOut)
	router.Get("/auth/session", h.handleGetSession)
	router.With(RequireAuth).Put("/profile/contact", h.handleUpdateContact)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
}

func (h *AuthHandler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
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

	p, token, err := h.service.SignUp(r.Context(), profile.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign up via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to sign up"))
		return
	}

	h.setSessionCookie(w, token)
	respondWithJSON(w, http.StatusCreated, SessionResponse{Profile: newProfileResponse(p), Token: token})
}

func (h *AuthHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
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

	p, token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to sign in"))
		return
	}

	h.setSessionCookie(w, token)
	respondWithJSON(w, http.StatusOK, SessionResponse{Profile: newProfileResponse(p), Token: token})
}

// handleSignOut clears the session cookie. Tokens are stateless, so there
// is nothing to revoke server-side.
func (h *AuthHandler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	p := profileFromContext(r.Context())
	if p == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"profile": nil})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"profile": newProfileResponse(p)})
}

func (h *AuthHandler) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	p := profileFromContext(r.Context())

	var req UpdateContactRequest
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

	if err := h.service.UpdateContact(r.Context(), p.ID, req.Phone, req.Address); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update contact details"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
