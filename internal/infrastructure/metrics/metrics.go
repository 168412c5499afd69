// Package metrics expone contadores Prometheus de transacciones y bitácora.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores del núcleo transaccional. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry *prometheus.Registry

	TxRetries       *prometheus.CounterVec
	TxConflicts     *prometheus.CounterVec
	AuditWritten    *prometheus.CounterVec
	AuditFailed     *prometheus.CounterVec
	AuditDropped    prometheus.Counter
	BreakerState    *prometheus.GaugeVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDurationSec *prometheus.HistogramVec
}

// New crea las métricas sobre un registro propio (no el global) con el namespace indicado.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		TxRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_retries_total",
			Help:      "Transacciones reejecutadas por conflicto de concurrencia.",
		}, []string{"backend"}),
		TxConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_conflicts_total",
			Help:      "Transacciones abortadas tras agotar los reintentos.",
		}, []string{"backend"}),
		AuditWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_written_total",
			Help:      "Registros de bitácora escritos por sink.",
		}, []string{"sink"}),
		AuditFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failed_total",
			Help:      "Escrituras de bitácora fallidas por sink.",
		}, []string{"sink"}),
		AuditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_dropped_total",
			Help:      "Registros de bitácora descartados por buffer lleno.",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Estado del circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por ruta y código.",
		}, []string{"method", "route", "status"}),
		HTTPDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(
		m.TxRetries, m.TxConflicts,
		m.AuditWritten, m.AuditFailed, m.AuditDropped,
		m.BreakerState, m.HTTPRequests, m.HTTPDurationSec,
	)
	return m
}

// Handler devuelve el handler HTTP de exposición.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry devuelve el registro (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// TxRetry cuenta un reintento de transacción.
func (m *Metrics) TxRetry(backend string) {
	if m != nil {
		m.TxRetries.WithLabelValues(backend).Inc()
	}
}

// TxConflict cuenta una transacción abortada por conflicto.
func (m *Metrics) TxConflict(backend string) {
	if m != nil {
		m.TxConflicts.WithLabelValues(backend).Inc()
	}
}

// AuditOK cuenta una escritura de bitácora exitosa.
func (m *Metrics) AuditOK(sink string) {
	if m != nil {
		m.AuditWritten.WithLabelValues(sink).Inc()
	}
}

// AuditError cuenta una escritura de bitácora fallida.
func (m *Metrics) AuditError(sink string) {
	if m != nil {
		m.AuditFailed.WithLabelValues(sink).Inc()
	}
}

// AuditDrop cuenta un registro descartado.
func (m *Metrics) AuditDrop() {
	if m != nil {
		m.AuditDropped.Inc()
	}
}

// Breaker publica el estado de un circuit breaker.
func (m *Metrics) Breaker(name string, state float64) {
	if m != nil {
		m.BreakerState.WithLabelValues(name).Set(state)
	}
}

// HTTPObserve registra una petición HTTP.
func (m *Metrics) HTTPObserve(method, route, status string, seconds float64) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPDurationSec.WithLabelValues(method, route).Observe(seconds)
	}
}
