// Package metrics exposes prometheus collectors for the store and the HTTP
// server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements store.Observer and records request metrics.
type Collector struct {
	registry      *prometheus.Registry
	mutations     *prometheus.CounterVec
	persistErrors *prometheus.CounterVec
	requests      *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusshare",
			Name:      "store_mutations_total",
			Help:      "Store mutations by operation.",
		}, []string{"op"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campusshare",
			Name:      "persist_failures_total",
			Help:      "Failed collection writes by collection.",
		}, []string{"collection"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campusshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	c.registry.MustRegister(c.mutations, c.persistErrors, c.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Mutated(op string) {
	c.mutations.WithLabelValues(op).Inc()
}

func (c *Collector) PersistFailed(collection string) {
	c.persistErrors.WithLabelValues(collection).Inc()
}

// Middleware observes request latency keyed by the matched route pattern.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}
