package handler

import (
	"fmt"
	"net/http"

	"github.com/caltrack/caltrack/internal/metrics"
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

	writeMetric(w, "caltrack_food_entries_total{op=\"created\"} %d\n", snap.EntriesCreated)
	writeMetric(w, "caltrack_food_entries_total{op=\"updated\"} %d\n", snap.EntriesUpdated)
	writeMetric(w, "caltrack_food_entries_total{op=\"deleted\"} %d\n", snap.EntriesDeleted)

	writeMetric(w, "caltrack_limit_warnings_total{metric=\"calories\"} %d\n", snap.CalorieWarnings)
	writeMetric(w, "caltrack_limit_warnings_total{metric=\"price\"} %d\n", snap.PriceWarnings)

	writeMetric(w, "caltrack_aggregation_duration_seconds_count %d\n", snap.AggregationDurationCount)
	writeMetric(w, "caltrack_aggregation_duration_seconds_sum %.6f\n", float64(snap.AggregationDurationTotalNs)/1e9)

	writeMetric(w, "caltrack_users_total{op=\"created\"} %d\n", snap.UsersCreated)
	writeMetric(w, "caltrack_users_total{op=\"deleted\"} %d\n", snap.UsersDeleted)

	writeMetric(w, "caltrack_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "caltrack_user_cache_misses_total %d\n", snap.UserCacheMisses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
