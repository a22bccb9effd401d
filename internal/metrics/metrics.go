package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databrowser_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "databrowser_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// FilterResultRows is the size of each filtered view.
	FilterResultRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "databrowser_filter_result_rows",
			Help:    "Rows returned by a filter evaluation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	// Warnings counts user-visible advisories and failures by kind.
	Warnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "databrowser_warnings_total",
			Help: "User-visible warnings by kind",
		},
		[]string{"kind"},
	)
	// DatasetRows is the number of rows in the loaded table.
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "databrowser_dataset_rows",
			Help: "Rows in the loaded dataset",
		},
	)
)

// Middleware records request count and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			RequestTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
