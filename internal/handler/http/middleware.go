package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chaikhana/backend/internal/profile"
)

type contextKey string

const (
	sessionIDKey contextKey = "cart_session_id"
	profileKey   contextKey = "profile"
)

const sessionCookieName = "cart_session"

// SessionID issues an opaque session id cookie for anonymous shoppers; the
// cart is keyed by it. An existing cookie is reused so the cart survives
// reloads.
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			id, err := uuid.NewV4()
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to start session")
				return
			}
			sessionID = id.String()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int((30 * 24 * time.Hour).Seconds()),
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// Auth resolves the session token (Authorization header or cookie) to a
// profile and attaches it to the context. Anonymous requests pass through;
// handlers that require identity use RequireAuth.
func Auth(profiles profile.Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := profiles.GetSession(r.Context(), token)
			if err != nil {
				// Invalid token degrades to anonymous rather than blocking
				// the shopper out of the storefront.
				log.Debug().Err(err).Msg("Session token rejected, continuing as guest")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), profileKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

const authCookieName = "session_token"

func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(authCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func profileFromContext(ctx context.Context) *profile.Profile {
	p, _ := ctx.Value(profileKey).(*profile.Profile)
	return p
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if profileFromContext(r.Context()) == nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin is the single privilege check for the whole admin surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := profileFromContext(r.Context())
		if p == nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if p.Role != profile.RoleAdmin {
			respondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("http request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
