// Package metrics exposes router, selector and gateway counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/ports"
)

// Registry owns a private Prometheus registry so tests and multiple
// containers never collide on the default one.
type Registry struct {
	registry *prometheus.Registry

	queries   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	probes    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	rejected  prometheus.Counter
}

// New registers the firewatch collectors plus the Go runtime collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firewatch_queries_total",
				Help: "Questions answered, by backend mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firewatch_fallbacks_total",
				Help: "Answers served locally after a backend failure, by error kind",
			},
			[]string{"kind"},
		),
		probes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firewatch_backend_probe_total",
				Help: "Backend connectivity probes, by mode and result",
			},
			[]string{"mode", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "firewatch_query_duration_seconds",
				Help:    "Time to answer one question",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "firewatch_gateway_rejected_total",
			Help: "Statements refused by the read-only gateway",
		}),
	}
}

func (r *Registry) ObserveQuery(mode domain.BackendMode, outcome string, elapsed time.Duration) {
	r.queries.WithLabelValues(string(mode), outcome).Inc()
	r.duration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

func (r *Registry) IncFallback(kind domain.ErrorKind) {
	r.fallbacks.WithLabelValues(string(kind)).Inc()
}

func (r *Registry) ObserveProbe(mode domain.BackendMode, ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	r.probes.WithLabelValues(string(mode), result).Inc()
}

func (r *Registry) IncRejectedQuery() {
	r.rejected.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveQuery(domain.BackendMode, string, time.Duration) {}
func (Nop) IncFallback(domain.ErrorKind)                          {}
func (Nop) ObserveProbe(domain.BackendMode, bool)                 {}
func (Nop) IncRejectedQuery()                                     {}

var (
	_ ports.Metrics = (*Registry)(nil)
	_ ports.Metrics = Nop{}
)
