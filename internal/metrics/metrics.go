// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers per-request HTTP metrics and contact mutation counters.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	contactsCreated prometheus.Counter
	contactsDeleted prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_manager_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contact_manager_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		contactsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_manager_contacts_created_total",
			Help: "Total number of contacts created",
		}),
		contactsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contact_manager_contacts_deleted_total",
			Help: "Total number of contacts deleted",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.contactsCreated,
		c.contactsDeleted,
	)

	return c
}

// RecordRequest records one handled HTTP request.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordContactCreated increments the created-contacts counter.
func (c *Collector) RecordContactCreated() {
	c.contactsCreated.Inc()
}

// RecordContactDeleted increments the deleted-contacts counter.
func (c *Collector) RecordContactDeleted() {
	c.contactsDeleted.Inc()
}

// Middleware returns a gin middleware that records request metrics.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
