// Package router wires handlers and middleware into the HTTP surface.
package router

import (
	"net/http"

	"urban-kart/internal/handler"
	"urban-kart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	couponHandler *handler.CouponHandler,
	orderHandler *handler.OrderHandler,
	callbackHandler *handler.CallbackHandler,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Identity(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.GetAll)
		r.Get("/products/{slug}", productHandler.GetBySlug)

		r.Get("/cart", cartHandler.Get)
		r.Post("/cart", cartHandler.AddLine)
		r.Put("/cart", cartHandler.UpdateLine)
		r.Delete("/cart", cartHandler.RemoveLine)
		r.Post("/cart/merge", cartHandler.Merge)

		r.Post("/coupons/validate", couponHandler.Validate)

		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/orders", orderHandler.List)
		r.Get("/orders/ref/{ref}", orderHandler.GetByRef)
		r.Get("/orders/{id}", orderHandler.GetByID)

		r.Post("/payment/callback", callbackHandler.Handle)
	})

	return r
}
