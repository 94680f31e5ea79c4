package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/BradenHooton/orderdesk/internal/auth"
	"github.com/BradenHooton/orderdesk/internal/handlers"
	"github.com/BradenHooton/orderdesk/internal/middleware"
	pkghttp "github.com/BradenHooton/orderdesk/pkg/http"
	"github.com/go-chi/chi/v5"
)

// HealthChecker is implemented by *database.DB
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies carries everything the API routes need
type Dependencies struct {
	Orders    *handlers.OrderHandler
	Customers *handlers.CustomerHandler
	// Verifier is nil when authentication is disabled.
	Verifier  *auth.TokenVerifier
	Health    HealthChecker
	RateLimit middleware.RateLimitConfig
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteNotFound(w, "route not found")
	})

	// Public, so limited per client IP
	router.With(middleware.RateLimitByIP(deps.RateLimit)).Get("/health", healthHandler(deps.Health))

	router.Route("/api/v1", func(r chi.Router) {
		if deps.Verifier != nil {
			r.Use(auth.AuthMiddleware(deps.Verifier))
		}
		r.Use(middleware.RateLimitByUser(deps.RateLimit))

		deps.Orders.RegisterRoutes(r)
		deps.Customers.RegisterRoutes(r)
	})
}

func healthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			pkghttp.WriteServiceUnavailable(w, "database down")
			return
		}
		pkghttp.WriteSuccess(w, http.StatusOK, map[string]string{"database": "up"})
	}
}
