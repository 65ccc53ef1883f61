package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/metrics"
)

type authTestEnv struct {
	tokens  *auth.TokenService
	metrics *metrics.InMemoryRecorder
	logs    *bytes.Buffer
	handler http.Handler
	seen    *string
	now     *time.Time
}

func newAuthTestEnv(t *testing.T, secret string) *authTestEnv {
	t.Helper()

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	env := &authTestEnv{
		metrics: metrics.NewInMemory(),
		logs:    &bytes.Buffer{},
		seen:    new(string),
		now:     &now,
	}
	env.tokens = auth.NewTokenService(auth.TokenConfig{
		Secret: secret,
		Now:    func() time.Time { return *env.now },
	})

	guard := Auth(AuthConfig{
		Logger:  slog.New(slog.NewJSONHandler(env.logs, nil)),
		Tokens:  env.tokens,
		Metrics: env.metrics,
	})
	env.handler = guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*env.seen = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return env
}

func (e *authTestEnv) do(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recipe/add", nil)
	if token != "" {
		req.Header.Set(AuthorizationHeader, token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestAuth_ValidToken(t *testing.T) {
	env := newAuthTestEnv(t, "secret")

	token, err := env.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec := env.do(token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if *env.seen != "user-123" {
		t.Errorf("user ID in context = %q, want user-123", *env.seen)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	env := newAuthTestEnv(t, "secret")

	rec := env.do("")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "No token, authorization denied" {
		t.Errorf("message = %q", got)
	}
	if got := env.metrics.Snapshot().AuthMissingToken; got != 1 {
		t.Errorf("AuthMissingToken = %d, want 1", got)
	}
	if *env.seen != "" {
		t.Error("handler should not run without a token")
	}
}

func TestAuth_InvalidTokens(t *testing.T) {
	env := newAuthTestEnv(t, "secret")

	valid, err := env.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other := auth.NewTokenService(auth.TokenConfig{Secret: "other-secret"})
	foreign, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"bearer_prefix", "Bearer " + valid},
		{"wrong_secret", foreign},
		{"truncated", valid[:len(valid)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.token)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if got := decodeMessage(t, rec); got != "Token is not valid" {
				t.Errorf("message = %q", got)
			}
		})
	}

	if got := env.metrics.Snapshot().AuthInvalidToken; got != uint64(len(tests)) {
		t.Errorf("AuthInvalidToken = %d, want %d", got, len(tests))
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	env := newAuthTestEnv(t, "secret")

	token, err := env.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	*env.now = env.now.Add(auth.DefaultTokenTTL)

	rec := env.do(token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Token is not valid" {
		t.Errorf("message = %q", got)
	}
	if !strings.Contains(env.logs.String(), `"expired":true`) {
		t.Errorf("expected expired flag in logs: %s", env.logs.String())
	}
}

func TestAuth_MissingSecret(t *testing.T) {
	env := newAuthTestEnv(t, "")

	rec := env.do("anything")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Server config error" {
		t.Errorf("message = %q", got)
	}
	if got := env.metrics.Snapshot().AuthConfigErrors; got != 1 {
		t.Errorf("AuthConfigErrors = %d, want 1", got)
	}
}

func TestAuth_TokenNotLogged(t *testing.T) {
	env := newAuthTestEnv(t, "secret")

	token, err := env.tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	tampered := token + "x"

	env.do(tampered)

	if strings.Contains(env.logs.String(), tampered) {
		t.Error("rejected token was written to the log")
	}
}
