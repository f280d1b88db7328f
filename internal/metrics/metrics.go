// Package metrics expone las métricas de Prometheus del servicio.
//
//	m := metrics.New()
//	router.Use(m.Middleware())
//	router.GET("/metrics", m.Handler())
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics agrupa los colectores registrados en un registro propio, así cada
// router de test puede tener su instancia sin colisiones de registro.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration  *prometheus.HistogramVec
	RequestTotal     *prometheus.CounterVec
	RequestsInFlight prometheus.Gauge
	PersistFailures  *prometheus.CounterVec
	BookingsPruned   prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
		PersistFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_failures_total",
				Help:      "Writes to the document store that failed after the response was decided.",
			},
			[]string{"resource"},
		),
		BookingsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_pruned_total",
			Help:      "Expired bookings removed while listing.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.RequestTotal,
		m.RequestsInFlight,
		m.PersistFailures,
		m.BookingsPruned,
	)
	return m
}

// Middleware registra duración y total por ruta (plantilla de gin, no URL real)
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler sirve el endpoint /metrics
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// PersistFailed cuenta una escritura perdida para el recurso dado
func (m *Metrics) PersistFailed(resource string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(resource).Inc()
}

// Pruned cuenta reservas expiradas eliminadas
func (m *Metrics) Pruned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BookingsPruned.Add(float64(n))
}
