// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/user-registry/internal/adapters/http/handlers"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	statusHandler *handlers.StatusHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health and status endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	r.Get("/status", statusHandler.Status)

	// API v1 routes. The static stats route is registered before the {id}
	// route; chi resolves static segments first either way, but keeping the
	// order explicit avoids surprises when routes are reshuffled.
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.RegisterUser)
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/stats", userHandler.Stats)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Delete("/users/{id}", userHandler.DeleteUser)
	})

	return r
}
