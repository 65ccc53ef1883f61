package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/recipeshare/recipeshare/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncUserRegistered()
	recorder.IncRecipeCreated()
	recorder.IncRecipeCreated()
	recorder.IncAuthRejected(metrics.ReasonMissingToken)

	h := NewMetricsHandler(recorder)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, line := range []string{
		"recipeshare_users_registered_total 1",
		"recipeshare_recipes_created_total 2",
		"recipeshare_recipes_deleted_total 0",
		`recipeshare_auth_rejections_total{reason="missing_token"} 1`,
		`recipeshare_logins_total{result="failure"} 0`,
	} {
		if !strings.Contains(body, line+"\n") {
			t.Errorf("metrics output missing %q:\n%s", line, body)
		}
	}
}

func TestMetricsHandler_NoSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
