package monitoring

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/AgentOS/nucleus/internal/kernel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics on a private registry, so several
// instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Kernel metrics
	KernelOps  *prometheus.CounterVec
	ProcsFree  prometheus.Gauge
	SemsFree   prometheus.Gauge
	ASLLength  prometheus.Gauge
	Boots      prometheus.Counter
	LastBootTS prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSDropped     prometheus.Counter
}

// NewMetrics creates a metrics collector with its own registry, including
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nucleus_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nucleus_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		KernelOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nucleus_ops_total",
				Help: "Kernel operations by name and result",
			},
			[]string{"op", "result"},
		),
		ProcsFree: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nucleus_procs_free",
				Help: "Free process descriptors",
			},
		),
		SemsFree: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nucleus_sems_free",
				Help: "Free semaphore descriptors",
			},
		),
		ASLLength: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nucleus_asl_length",
				Help: "Semaphores on the active semaphore list",
			},
		),
		Boots: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nucleus_boots_total",
				Help: "Number of kernel boots",
			},
		),
		LastBootTS: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nucleus_last_boot_timestamp_seconds",
				Help: "Unix time of the last kernel boot",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nucleus_ws_connections",
				Help: "Number of active event stream subscribers",
			},
		),
		WSDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nucleus_ws_dropped_events_total",
				Help: "Events dropped for slow event stream subscribers",
			},
		),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Observe implements kernel.Observer.
func (m *Metrics) Observe(e kernel.Event) {
	m.KernelOps.WithLabelValues(string(e.Op), e.Result()).Inc()
	m.ProcsFree.Set(float64(e.Stats.ProcsFree))
	m.SemsFree.Set(float64(e.Stats.SemsFree))
	m.ASLLength.Set(float64(e.Stats.ASLLen))
	if e.Op == kernel.OpBoot {
		m.Boots.Inc()
		m.LastBootTS.Set(float64(e.Time.Unix()))
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// IncWSDropped counts an event dropped for a slow subscriber
func (m *Metrics) IncWSDropped() {
	m.WSDropped.Inc()
}
