package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "setlab"

// Metrics holds all Prometheus metrics for the server
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	inFlight         prometheus.Gauge
	powerSetElements prometheus.Histogram
	powerSetSubsets  prometheus.Counter
	checkResults     *prometheus.CounterVec
	rateLimited      prometheus.Counter
}

// NewMetrics creates and registers all metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed",
		}),
		powerSetElements: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "powerset_input_elements",
			Help:      "Number of elements in power set requests",
			Buckets:   prometheus.LinearBuckets(0, 2, 12),
		}),
		powerSetSubsets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "powerset_subsets_total",
			Help:      "Total number of subsets returned by power set requests",
		}),
		checkResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_results_total",
			Help:      "Set equality checks by outcome",
		}, []string{"equal"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter",
		}),
	}
}

// Middleware records request count, latency and in-flight requests.
// Health checks are not recorded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			route := routeLabel(c)
			status := strconv.Itoa(c.Writer.Status())
			m.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(v)
			m.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		}))

		c.Next()
		timer.ObserveDuration()
	}
}

// routeLabel keeps label cardinality bounded by using the matched pattern
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
