package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caltrack/caltrack/internal/metrics"
)

func TestMetricsHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncEntryCreated()
	recorder.IncEntryCreated()
	recorder.IncWarningIssued("calories")
	recorder.ObserveAggregationDuration(1500 * time.Millisecond)

	h := NewMetricsHandler(recorder)
	rec := httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`caltrack_food_entries_total{op="created"} 2`,
		`caltrack_limit_warnings_total{metric="calories"} 1`,
		`caltrack_limit_warnings_total{metric="price"} 0`,
		`caltrack_aggregation_duration_seconds_count 1`,
		`caltrack_aggregation_duration_seconds_sum 1.500000`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
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
