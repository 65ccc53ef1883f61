package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Logger  *slog.Logger
	Auth    *service.AuthService
	Recipes *service.RecipeService
	Tokens  middleware.TokenVerifier
	Health  HealthChecker
	// Metrics receives guard rejections. When it also implements
	// metrics.Snapshotter, /metrics serves its counters.
	Metrics metrics.Recorder

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := New()
	healthHandler := NewHealthHandler(cfg.Health, logger)
	authHandler := NewAuthHandler(cfg.Auth, logger)
	recipeHandler := NewRecipeHandler(cfg.Recipes, logger)

	var snapshotter metrics.Snapshotter
	if s, ok := cfg.Metrics.(metrics.Snapshotter); ok {
		snapshotter = s
	}
	metricsHandler := NewMetricsHandler(snapshotter)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	r.Use(middleware.CORS(corsCfg))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/", h.Root)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger:  logger,
		Tokens:  cfg.Tokens,
		Metrics: cfg.Metrics,
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/recipe", func(r chi.Router) {
		r.Get("/", recipeHandler.List)
		r.With(requireAuth).Post("/add", recipeHandler.Add)
		r.Get("/{id}", recipeHandler.Get)
		r.With(requireAuth).Delete("/{id}", recipeHandler.Delete)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
