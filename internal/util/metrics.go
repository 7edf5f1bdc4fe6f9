package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of order rows written at checkout",
	})

	CheckoutsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_completed_total",
		Help: "Total number of fully successful checkouts",
	})

	CheckoutsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_failed_total",
		Help: "Total number of failed checkouts",
	}, []string{"reason"})

	StockDecrementFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_decrement_failures_total",
		Help: "Total number of best-effort stock decrements that failed",
	})

	SensorSeriesSynthesized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sensor_series_synthesized_total",
		Help: "Total number of synthetic sensor series generated",
	})

	SensorSeriesReal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sensor_series_real_total",
		Help: "Total number of real sensor series served",
	})

	RowCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "row_cache_hits_total",
		Help: "Reference row-set cache hits",
	}, []string{"sheet"})

	RowCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "row_cache_misses_total",
		Help: "Reference row-set cache misses",
	}, []string{"sheet"})

	OrderStatusPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_polls_total",
		Help: "Total number of order status polls",
	}, []string{"result"})

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Latency of sheet gateway requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"action", "sheet"})

	GatewayRequestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_request_errors_total",
		Help: "Total number of failed sheet gateway requests",
	}, []string{"action", "sheet"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
