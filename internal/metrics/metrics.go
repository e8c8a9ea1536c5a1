package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	quoteLookups        *prometheus.CounterVec
	lookbackOffsetDays  prometheus.Histogram
	sourceFetchDuration prometheus.Histogram
	repliesSent         *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.quoteLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jinyue_quote_lookups_total",
			Help: "Total number of quote lookups by result",
		},
		[]string{"result"},
	)
	r.lookbackOffsetDays = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jinyue_quote_lookback_offset_days",
			Help:    "Days of lookback needed to find a usable record",
			Buckets: []float64{0, 1, 2, 3, 5, 7},
		},
	)
	r.sourceFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jinyue_source_fetch_duration_seconds",
			Help:    "Upstream feed fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.repliesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jinyue_replies_sent_total",
			Help: "Total number of replies sent by intent and status",
		},
		[]string{"intent", "status"},
	)

	reg.MustRegister(r.quoteLookups)
	reg.MustRegister(r.lookbackOffsetDays)
	reg.MustRegister(r.sourceFetchDuration)
	reg.MustRegister(r.repliesSent)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordLookup records a quote lookup outcome ("hit", "miss", "source_error").
func (r *Registry) RecordLookup(result string) {
	r.quoteLookups.WithLabelValues(result).Inc()
}

// RecordLookbackOffset records how stale the matched record was.
func (r *Registry) RecordLookbackOffset(days int) {
	r.lookbackOffsetDays.Observe(float64(days))
}

// RecordSourceFetch records an upstream fetch duration.
func (r *Registry) RecordSourceFetch(duration float64) {
	r.sourceFetchDuration.Observe(duration)
}

// RecordReply records a delivered (or failed) reply.
func (r *Registry) RecordReply(intent, status string) {
	r.repliesSent.WithLabelValues(intent, status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
