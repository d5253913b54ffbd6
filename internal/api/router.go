package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/russMightyMonk/rumi-analytica/internal/agent"
	"github.com/russMightyMonk/rumi-analytica/internal/api/middleware"
	"github.com/russMightyMonk/rumi-analytica/internal/auth"
	"github.com/russMightyMonk/rumi-analytica/internal/config"
	"github.com/russMightyMonk/rumi-analytica/internal/handlers"
)

// NewRouter creates and configures the HTTP router. All routes are
// registered statically here, with auth middleware declared per route
// group.
func NewRouter(cfg *config.Config, logger zerolog.Logger, authSvc *auth.Service, executor agent.Executor) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(64 * 1024))

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - restricted to the configured frontend origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(logger, authSvc, executor, cfg.AgentAppName)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Get("/health", h.Health)

	// Login, rate-limited per client IP
	limiter := middleware.NewLoginLimiter(10, 5, logger)
	r.With(limiter.Limit).Post("/token", h.Token)

	// Authenticated routes (require bearer token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authSvc))

		r.Post("/api/chat", h.Chat)
	})

	return r
}
