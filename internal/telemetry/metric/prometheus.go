package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "collstress"

// Operation results recorded on collstress_ops_total.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Registry holds all workload metrics.
type Registry struct {
	registry *prometheus.Registry

	OpsTotal      *prometheus.CounterVec
	OpDuration    *prometheus.HistogramVec
	Enumerations  *prometheus.CounterVec
	ContainerSize *Collector
}

// NewRegistry creates a registry with the workload metrics plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		OpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Container operations executed, by outcome.",
		}, []string{"variant", "shape", "op", "result"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "op_duration_seconds",
			Help:      "Latency of container operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"variant", "shape", "op"}),
		Enumerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enumerations_total",
			Help:      "Completed enumerations over a container.",
		}, []string{"variant", "shape"}),
		ContainerSize: NewCollector(),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.OpsTotal,
		r.OpDuration,
		r.Enumerations,
		r.ContainerSize,
	)
	return r
}

// RecordOp counts one operation and its outcome.
func (r *Registry) RecordOp(variant, shape, op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.OpsTotal.WithLabelValues(variant, shape, op, result).Inc()
}

// ObserveOpDuration records the latency of one operation in seconds.
func (r *Registry) ObserveOpDuration(variant, shape, op string, seconds float64) {
	r.OpDuration.WithLabelValues(variant, shape, op).Observe(seconds)
}

// IncEnumerations counts one completed enumeration.
func (r *Registry) IncEnumerations(variant, shape string) {
	r.Enumerations.WithLabelValues(variant, shape).Inc()
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, creating it on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}
