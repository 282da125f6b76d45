package handler

import (
	"fmt"
	"net/http"

	"github.com/castleviz/castleviz/internal/metrics"
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

	for _, m := range snap.Mutations {
		writeMetric(w, "castleviz_record_mutations_total{action=%q,kind=%q} %d\n", m.Action, m.Kind, m.Count)
	}
	for _, q := range snap.Queries {
		writeMetric(w, "castleviz_query_duration_seconds_count{operation=%q} %d\n", q.Operation, q.Count)
		writeMetric(w, "castleviz_query_duration_seconds_sum{operation=%q} %.6f\n", q.Operation, float64(q.TotalNs)/1e9)
	}

	writeMetric(w, "castleviz_record_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "castleviz_record_events_published_total{status=\"dropped\"} %d\n", snap.EventsDropped)
	writeMetric(w, "castleviz_rate_limited_requests_total %d\n", snap.RateLimited)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
