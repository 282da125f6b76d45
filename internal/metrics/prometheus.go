package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "castleviz"

// PrometheusRecorder exports metrics through a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry    *prometheus.Registry
	mutations   *prometheus.CounterVec
	queries     *prometheus.HistogramVec
	events      *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// NewPrometheus creates a recorder with Go runtime and process collectors registered.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	p := &PrometheusRecorder{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Record mutations by kind and action.",
		}, []string{"kind", "action"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of expense feed and dashboard reads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_events_published_total",
			Help:      "Record events written to the event stream.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.mutations,
		p.queries,
		p.events,
		p.rateLimited,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// IncRecordMutation increments the mutation counter for kind and action.
func (p *PrometheusRecorder) IncRecordMutation(kind, action string) {
	p.mutations.WithLabelValues(kind, action).Inc()
}

// ObserveQueryDuration records a read operation duration.
func (p *PrometheusRecorder) ObserveQueryDuration(operation string, duration time.Duration) {
	p.queries.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncEventPublished increments the event counter for status.
func (p *PrometheusRecorder) IncEventPublished(status string) {
	p.events.WithLabelValues(status).Inc()
}

// IncRateLimited increments the rate-limited request counter.
func (p *PrometheusRecorder) IncRateLimited() {
	p.rateLimited.Inc()
}
