package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stock_tracker"

// Metrics agrupa los colectores Prometheus del servicio sobre un registry propio.
// Todos los métodos aceptan receptor nil para que los tests puedan omitir métricas.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StoreDegraded        prometheus.Gauge
	StoreFallbacks       *prometheus.CounterVec
	ReportsSubmitted     *prometheus.CounterVec
	ReportsApplied       prometheus.Counter
	ExternalCalls        *prometheus.CounterVec
	ExternalCallDuration *prometheus.HistogramVec
	CircuitBreakerState  *prometheus.GaugeVec
}

// New crea el registry con los colectores estándar de Go y de proceso.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.StoreDegraded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_degraded",
		Help:      "1 si el almacenamiento opera sobre el snapshot local",
	})
	m.StoreFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fallbacks_total",
			Help:      "Cambios del almacenamiento principal al snapshot local",
		},
		[]string{"operation"},
	)
	m.ReportsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reports_submitted_total",
			Help:      "Reportes de stock recibidos",
		},
		[]string{"type", "status"},
	)
	m.ReportsApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_reports_applied_total",
		Help:      "Reportes de stock aplicados al inventario",
	})
	m.ExternalCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_api_calls_total",
			Help:      "Llamadas a la API externa de pedidos",
		},
		[]string{"operation", "result"},
	)
	m.ExternalCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_api_call_duration_seconds",
			Help:      "Duración de las llamadas a la API externa",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Estado del circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StoreDegraded,
		m.StoreFallbacks,
		m.ReportsSubmitted,
		m.ReportsApplied,
		m.ExternalCalls,
		m.ExternalCallDuration,
		m.CircuitBreakerState,
	)
	return m
}

// Registry expone el registry para tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler devuelve el handler HTTP de exposición.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordFallback marca el almacenamiento como degradado.
func (m *Metrics) RecordFallback(operation string) {
	if m == nil {
		return
	}
	m.StoreDegraded.Set(1)
	m.StoreFallbacks.WithLabelValues(operation).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.StoreDegraded.Set(1)
		return
	}
	m.StoreDegraded.Set(0)
}

func (m *Metrics) RecordReportSubmitted(reportType, status string) {
	if m == nil {
		return
	}
	m.ReportsSubmitted.WithLabelValues(reportType, status).Inc()
}

func (m *Metrics) RecordReportApplied() {
	if m == nil {
		return
	}
	m.ReportsApplied.Inc()
}

func (m *Metrics) RecordExternalCall(operation, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExternalCalls.WithLabelValues(operation, result).Inc()
	m.ExternalCallDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
