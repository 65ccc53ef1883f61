package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockHealthChecker is a mock implementation of HealthChecker for testing.
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(ctx context.Context) error {
	return m.err
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return response
}

func TestHealthHandler_Healthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if response := decodeHealth(t, rec); response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		db         HealthChecker
		wantCode   int
		wantStatus string
		wantCheck  string
	}{
		{"healthy", &mockHealthChecker{}, http.StatusOK, "ok", "ok"},
		{"database_down", &mockHealthChecker{err: errors.New("dial tcp db.internal:5432: connection refused")}, http.StatusServiceUnavailable, "unhealthy", "error"},
		{"not_configured", nil, http.StatusServiceUnavailable, "unhealthy", "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			h := NewHealthHandler(tt.db, slog.New(slog.NewJSONHandler(&logs, nil)))

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			h.Readyz(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}

			body := rec.Body.String()
			response := decodeHealth(t, rec)
			if response.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, response.Status)
			}
			if response.Checks["database"] != tt.wantCheck {
				t.Errorf("expected database check %q, got %q", tt.wantCheck, response.Checks["database"])
			}
			if strings.Contains(body, "db.internal") {
				t.Errorf("driver error leaked to the response: %s", body)
			}
			if tt.name == "database_down" && !strings.Contains(logs.String(), "db.internal:5432") {
				t.Errorf("expected driver error in logs, got: %s", logs.String())
			}
		})
	}
}
