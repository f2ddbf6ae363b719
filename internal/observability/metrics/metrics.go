// Package metrics exposes prometheus instruments for the HTTP surface
// and the store/export operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics captures per-route request counts and latency.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer)
}

func newHTTPMetrics(registerer prometheus.Registerer) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerpad_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledgerpad_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registerer.MustRegister(m.requests, m.duration)
	return m
}

// AppMetrics captures store mutations and export pipeline runs.
type AppMetrics struct {
	storeOps   *prometheus.CounterVec
	exportRuns *prometheus.CounterVec
}

func NewAppMetrics() *AppMetrics {
	return newAppMetrics(prometheus.DefaultRegisterer)
}

func newAppMetrics(registerer prometheus.Registerer) *AppMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &AppMetrics{
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerpad_store_operations_total",
			Help: "Store mutations by operation and result.",
		}, []string{"operation", "result"}),
		exportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerpad_export_runs_total",
			Help: "Export pipeline runs by kind and terminal stage.",
		}, []string{"kind", "stage"}),
	}

	registerer.MustRegister(m.storeOps, m.exportRuns)
	return m
}

// ObserveStoreOp records the outcome of one store mutation.
func (m *AppMetrics) ObserveStoreOp(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(operation, result).Inc()
}

// ObserveExportRun records the terminal stage of one export run.
func (m *AppMetrics) ObserveExportRun(kind, stage string) {
	if m == nil {
		return
	}
	m.exportRuns.WithLabelValues(kind, stage).Inc()
}

// GinMiddleware records request metrics for every handled route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requests.WithLabelValues(route, method, status).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
