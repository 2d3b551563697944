package monitoring

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status_code"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status_code"},
	)

	ImageUploadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Total number of item images uploaded",
		},
	)

	OrphanedObjectsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storage_orphans_removed_total",
			Help: "Objects removed by the storage reconciliation sweep",
		},
	)
)

// Middleware records request count and duration per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		duration := time.Since(start).Seconds()

		HTTPRequestDuration.WithLabelValues(route, c.Method(), status).Observe(duration)
		HTTPRequestsTotal.WithLabelValues(route, c.Method(), status).Inc()

		return err
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
