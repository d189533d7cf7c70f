package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akeren/launch-waitlist/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsPath       = "/metrics"
	unmatchedRouteTag = "unmatched"
)

type httpMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func metricsEnabled() bool {
	return utils.GetEnvBoolOrDefault("METRICS_ENABLED", true)
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	labels := []string{"method", "route", "status"}

	m := &httpMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			labels,
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			labels,
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// observe records every request except scrapes of the metrics endpoint itself.
func (m *httpMetrics) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == metricsPath {
			return
		}
		if route == "" {
			// Unmatched paths would otherwise give every probed URL its own series.
			route = unmatchedRouteTag
		}

		status := strconv.Itoa(c.Writer.Status())
		m.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// MetricsRegisterer lets controllers publish their own collectors on /metrics.
// It is nil when METRICS_ENABLED=false.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.registry == nil {
		return nil
	}
	return routerService.registry
}

func (routerService *RouterService) mountMetrics() {
	if !metricsEnabled() {
		routerService.logger.Info("Metrics disabled (METRICS_ENABLED=false)")
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	routerService.registry = reg

	routerService.engine.Use(newHTTPMetrics(reg).observe())

	routerService.engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Not exposed to cross-origin browser clients.
	routerService.engine.OPTIONS(metricsPath, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	routerService.logger.Info("Metrics endpoint mounted", "path", metricsPath)
}
