package observability

import (
	"time"

	"github.com/boddenberg/lamf-portal-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the portal.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	backendDuration *prometheus.HistogramVec
	backendCalls    *prometheus.CounterVec
	backendErrors   *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	staleViews      *prometheus.CounterVec
	calculations    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		backendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lamf_backend_request_duration_seconds",
				Help:    "Duration of LAMF service calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamf_backend_requests_total",
				Help: "Total LAMF service calls by service.",
			},
			[]string{"service"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamf_backend_errors_total",
				Help: "Total failed LAMF service calls by service.",
			},
			[]string{"service"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamf_mutations_total",
				Help: "Operator mutations submitted to the LAMF service.",
			},
			[]string{"entity", "action", "result"},
		),
		staleViews: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamf_stale_views_total",
				Help: "List fetches discarded because a newer fetch superseded them.",
			},
			[]string{"view"},
		),
		calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamf_calculations_total",
				Help: "Pure computations served (emi, ltv).",
			},
			[]string{"kind"},
		),
	}
}

// RecordBackendCall records one LAMF service call.
func (m *Metrics) RecordBackendCall(service, operation string, d time.Duration, err error) {
	m.backendDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.backendCalls.WithLabelValues(service).Inc()
	if err != nil {
		m.backendErrors.WithLabelValues(service).Inc()
	}
}

// IncrMutation counts an operator mutation by outcome ("ok" or "error").
func (m *Metrics) IncrMutation(entity, action, result string) {
	m.mutations.WithLabelValues(entity, action, result).Inc()
}

// IncrStaleView counts a superseded list fetch.
func (m *Metrics) IncrStaleView(view string) {
	m.staleViews.WithLabelValues(view).Inc()
}

// IncrCalculation counts a served computation.
func (m *Metrics) IncrCalculation(kind string) {
	m.calculations.WithLabelValues(kind).Inc()
}

// Services are the LAMF service labels the client reports under.
var Services = []string{"core", "collateral"}

// BackendSnapshot summarises backend counters for GET /api/v1/status.
func (m *Metrics) BackendSnapshot() *domain.BackendStats {
	var calls, errs float64
	for _, s := range Services {
		calls += getCounterValue(m.backendCalls.WithLabelValues(s))
		errs += getCounterValue(m.backendErrors.WithLabelValues(s))
	}

	stats := &domain.BackendStats{
		Calls:          int64(calls),
		Errors:         int64(errs),
		StaleDiscarded: int64(sumCounterVec(m.staleViews)),
		Mutations:      int64(sumCounterVec(m.mutations)),
		Period:         "since_start",
	}
	if calls > 0 {
		stats.ErrorRate = errs / calls
	}
	return stats
}

// getCounterValue extracts the current float64 value of a counter.
func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// sumCounterVec adds every child of a CounterVec.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	var total float64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil {
			continue
		}
		if m.Counter != nil && m.Counter.Value != nil {
			total += *m.Counter.Value
		}
	}
	return total
}
