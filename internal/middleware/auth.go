package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/metrics"
)

// AuthorizationHeader carries the raw token, without a scheme prefix.
const AuthorizationHeader = "Authorization"

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  TokenVerifier
	Metrics metrics.Recorder
}

// Auth returns a middleware that rejects requests without a valid token
// and stores the token's user ID in the request context.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(AuthorizationHeader)
			if token == "" {
				logRejection(logger, r, metrics.ReasonMissingToken)
				recorder.IncAuthRejected(metrics.ReasonMissingToken)
				writeMessage(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			userID, err := cfg.Tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrMissingSecret) {
					logger.Error("token verification unavailable",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					recorder.IncAuthRejected(metrics.ReasonConfig)
					writeMessage(w, http.StatusInternalServerError, "Server config error")
					return
				}

				// Expired and malformed tokens get the same response.
				logRejection(logger, r, metrics.ReasonInvalidToken,
					slog.Bool("expired", errors.Is(err, auth.ErrTokenExpired)))
				recorder.IncAuthRejected(metrics.ReasonInvalidToken)
				writeMessage(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			recordUserID(r, userID)

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logRejection(logger *slog.Logger, r *http.Request, reason string, extra ...slog.Attr) {
	attrs := []slog.Attr{
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	}
	attrs = append(attrs, extra...)
	logger.LogAttrs(r.Context(), slog.LevelWarn, "authentication failed", attrs...)
}
