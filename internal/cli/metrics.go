package cli

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics records export, delivery and HTTP counters for `skillflow serve`.
// It implements the observability export and sink hooks.
type metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec
	deliveries     *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

// newMetrics registers the collectors on a private registry so that
// several servers (or tests) never clash on the default one.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillflow_renders_total",
			Help: "Rendered artifacts by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillflow_render_duration_seconds",
			Help:    "Time spent rendering one artifact.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
		renderBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillflow_render_bytes",
			Help:    "Size of rendered artifacts.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}, []string{"format"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillflow_deliveries_total",
			Help: "Artifact deliveries by sink and result.",
		}, []string{"sink", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillflow_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}
	m.registry.MustRegister(
		m.renders, m.renderDuration, m.renderBytes, m.deliveries, m.requests,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *metrics) OnRenderStart(context.Context, string, int) {}

func (m *metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.renders.WithLabelValues(format, result(err)).Inc()
	if err != nil {
		return
	}
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	m.renderBytes.WithLabelValues(format).Observe(float64(size))
}

func (m *metrics) OnDeliver(_ context.Context, sink, _ string, _ int, _ time.Duration, err error) {
	m.deliveries.WithLabelValues(sink, result(err)).Inc()
}

// handler serves the registry in the Prometheus text format.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// countRequests is middleware that counts responses by status code.
func (m *metrics) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
