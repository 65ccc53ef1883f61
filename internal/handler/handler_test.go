package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/recipeshare/recipeshare/internal/middleware"
)

func TestHandler_Root(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Root(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "API is running" {
		t.Errorf("unexpected body: %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain Content-Type, got %s", ct)
	}
}

func TestHandler_ErrorRoutes(t *testing.T) {
	h := New()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantMsg    string
	}{
		{"not_found", h.NotFound, http.StatusNotFound, "Not found"},
		{"method_not_allowed", h.MethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}

			var response map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response["message"] != tt.wantMsg {
				t.Errorf("unexpected message: %s", response["message"])
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		limit      int64
		wantOK     bool
		wantStatus int
	}{
		{"valid", `{"name":"Alice"}`, 0, true, 0},
		{"empty_body", ``, 0, true, 0},
		{"malformed", `{"name":`, 0, false, http.StatusBadRequest},
		{"wrong_type", `{"name":42}`, 0, false, http.StatusBadRequest},
		{"too_large", `{"name":"` + strings.Repeat("a", 64) + `"}`, 16, false, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst struct {
				Name string `json:"name"`
			}
			var ok bool

			var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ok = decodeJSON(w, r, &dst)
			})
			if tt.limit > 0 {
				handler = middleware.MaxBodySize(tt.limit)(handler)
			}

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.ContentLength = -1
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if ok != tt.wantOK {
				t.Fatalf("decodeJSON ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
