package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chaikhana/backend/internal/cart"
	"github.com/chaikhana/backend/internal/catalog"
	"github.com/chaikhana/backend/internal/courier"
	"github.com/chaikhana/backend/internal/order"
	"github.com/chaikhana/backend/internal/profile"
)

type RouterDeps struct {
	Catalog  catalog.Service
	Carts    cart.Service
	Orders   order.Service
	Couriers courier.Service
	Profiles profile.Service
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	catalogHandler := NewCatalogHandler(deps.Catalog)
	cartHandler := NewCartHandler(deps.Carts)
	orderHandler := NewOrderHandler(deps.Orders)
	courierHandler := NewCourierHandler(deps.Couriers)
	authHandler := NewAuthHandler(deps.Profiles)

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(deps.Profiles))
		r.Use(SessionID)

		catalogHandler.RegisterPublicRoutes(r)
		cartHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r)

		// Privilege is checked once here, not per handler.
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			catalogHandler.RegisterAdminRoutes(r)
			courierHandler.RegisterAdminRoutes(r)
			orderHandler.RegisterAdminRoutes(r)
		})
	})

	return r
}
