package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/iho/goasset/internal/adapter/http/handler"
	"github.com/iho/goasset/internal/adapter/http/middleware"
	"github.com/iho/goasset/internal/domain"
	"github.com/iho/goasset/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DepreciationHandler *handler.DepreciationHandler
	HealthHandler       *handler.HealthHandler
	IdempotencyStore    usecase.IdempotencyStore
	IdempotencyTTL      time.Duration
	RateLimiter         *middleware.RateLimiter
	// TokenVerifier enables bearer authentication when set.
	TokenVerifier  middleware.TokenVerifier
	MetricsHandler http.Handler
	// CORSAllowedOrigins enables CORS for browser clients when non-empty.
	CORSAllowedOrigins []string
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)

		authOn := cfg.TokenVerifier != nil
		if authOn {
			r.Use(middleware.Authenticate(cfg.TokenVerifier))
		}

		role := func(allowed func(domain.Role) bool) func(http.Handler) http.Handler {
			if !authOn {
				return func(next http.Handler) http.Handler { return next }
			}
			return middleware.RequireRole(allowed)
		}

		r.Route("/businesses/{businessID}/depreciation", func(r chi.Router) {
			if authOn {
				r.Use(middleware.RequireBusinessAccess)
			}

			// Idempotency runs after auth so replays are scoped to callers
			// who may see them.
			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).
					WithTTL(cfg.IdempotencyTTL).
					WithLogger(cfg.Logger)
				r.Use(idempotency.Wrap)
			}

			h := cfg.DepreciationHandler
			r.With(role(domain.Role.CanRun)).Post("/runs", h.Run)

			r.Route("/periods/{periodEnd}", func(r chi.Router) {
				r.Get("/entries", h.Entries)
				r.Get("/summary", h.Summary)
				r.Get("/export", h.Export)
				r.With(role(domain.Role.CanRun)).Post("/post", h.Post)
				r.With(role(domain.Role.CanReverse)).Post("/reverse", h.Reverse)
			})
		})
	})

	return r
}
