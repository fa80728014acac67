package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for calculation counters.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics provides observability for inheritance calculations. Each instance
// owns its registry, so several servers can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	// Calculations by outcome
	Calculations *prometheus.CounterVec

	// Allocator latency per estate
	CalculateLatency prometheus.Histogram

	// Calculations that left residue without a residuary heir
	Unallocated prometheus.Counter

	// Calculations where fixed shares were scaled down
	Awl prometheus.Counter

	// Estates per batch request
	BatchSize prometheus.Histogram
}

// New creates a Metrics instance with every collector registered on a fresh
// registry, alongside the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "faraid_calculations_total",
			Help: "Total inheritance calculations by outcome",
		}, []string{"outcome"}), // outcome: "success", "invalid", "error"

		CalculateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "faraid_calculate_duration_seconds",
			Help:    "Duration of a single estate distribution",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),

		Unallocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "faraid_unallocated_residue_total",
			Help: "Total distributions that left residue unallocated",
		}),

		Awl: factory.NewCounter(prometheus.CounterOpts{
			Name: "faraid_awl_total",
			Help: "Total distributions where fixed shares were proportionally reduced",
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "faraid_batch_estates",
			Help:    "Number of estates per batch request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// ObserveCalculation records one calculation outcome and its duration.
func (m *Metrics) ObserveCalculation(outcome string, d time.Duration) {
	if m != nil {
		m.Calculations.WithLabelValues(outcome).Inc()
		m.CalculateLatency.Observe(d.Seconds())
	}
}

// IncrementUnallocated records a distribution with unclaimed residue.
func (m *Metrics) IncrementUnallocated() {
	if m != nil {
		m.Unallocated.Inc()
	}
}

// IncrementAwl records a proportionally reduced distribution.
func (m *Metrics) IncrementAwl() {
	if m != nil {
		m.Awl.Inc()
	}
}

// ObserveBatchSize records the number of estates in a batch request.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
