// Package main is the entrypoint for the RecipeShare API server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/config"
	"github.com/recipeshare/recipeshare/internal/handler"
	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/repository"
	"github.com/recipeshare/recipeshare/internal/server"
	"github.com/recipeshare/recipeshare/internal/service"
	"github.com/recipeshare/recipeshare/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg, os.Stdout)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", sanitizeError(err, cfg.DatabaseURL))
		os.Exit(1)
	}

	srv := server.New(a.handler, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(context.Context) error { return a.store.Close() })
	srv.OnShutdown("tracing", server.ShutdownFunc(a.shutdownTracing))

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"database_url", redactURL(cfg.DatabaseURL),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// app holds the wired dependencies of a running instance.
type app struct {
	store           repository.Store
	handler         http.Handler
	shutdownTracing telemetry.ShutdownFunc
}

// newApp connects the store, applies migrations and builds the router.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	store, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database %s: %w", redactURL(cfg.DatabaseURL), err)
	}
	logger.Info("connected to database")

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTELServiceName, cfg.OTLPEndpoint)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	if cfg.OTLPEndpoint != "" {
		logger.Info("exporting traces", "endpoint", redactURL(cfg.OTLPEndpoint))
	}

	if !cfg.HasJWTSecret() {
		logger.Error("JWT_SECRET is not set; login and protected routes will fail")
	}

	recorder := metrics.NewInMemory()
	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
	})
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	router := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		Auth:               service.NewAuthService(store, hasher, tokens, recorder),
		Recipes:            service.NewRecipeService(store, recorder),
		Tokens:             tokens,
		Health:             store,
		Metrics:            recorder,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	return &app{
		store:           store,
		handler:         router,
		shutdownTracing: shutdownTracing,
	}, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return passwordPattern.ReplaceAllString(parsed.String(), "password=redacted")
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
