package api

import (
	"net/http"

	"food_share/internal/api/handler"
	"food_share/internal/api/middleware"
	"food_share/internal/app/service"
	"food_share/internal/common/security"
	"food_share/internal/platform/config"
	"food_share/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth     *service.AuthService
	FoodPost *service.FoodPostService
	Claim    *service.ClaimService
	Admin    *service.AdminService
}

func NewRouter(cfg *config.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600, // seconds
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	// Verifies "Authorization: Bearer T" and stores the result in the context; Authenticator decides.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		authLimiter := middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMinute)
		api.Route("/users", func(users chi.Router) {
			users.Use(authLimiter.Handler)
			handler.NewAuthHandler(svc.Auth).RegisterRoutes(users)
		})

		api.Route("/food", handler.NewFoodPostHandler(svc.FoodPost).RegisterRoutes)
		api.Route("/claims", handler.NewClaimHandler(svc.Claim).RegisterRoutes)
		api.Route("/admin", handler.NewAdminHandler(svc.Admin).RegisterRoutes)
	})

	return r
}
