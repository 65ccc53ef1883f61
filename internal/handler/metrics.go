package handler

import (
	"fmt"
	"net/http"

	"github.com/recipeshare/recipeshare/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "recipeshare_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "recipeshare_logins_total{result=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "recipeshare_logins_total{result=\"failure\"} %d\n", snap.LoginsFailed)

	writeMetric(w, "recipeshare_recipes_created_total %d\n", snap.RecipesCreated)
	writeMetric(w, "recipeshare_recipes_deleted_total %d\n", snap.RecipesDeleted)

	writeMetric(w, "recipeshare_auth_rejections_total{reason=%q} %d\n", metrics.ReasonMissingToken, snap.AuthMissingToken)
	writeMetric(w, "recipeshare_auth_rejections_total{reason=%q} %d\n", metrics.ReasonInvalidToken, snap.AuthInvalidToken)
	writeMetric(w, "recipeshare_auth_rejections_total{reason=%q} %d\n", metrics.ReasonConfig, snap.AuthConfigErrors)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
