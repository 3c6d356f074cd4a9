package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors shared by the screener commands

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_runs_total",
			Help: "Total number of screening runs by outcome",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screener_run_duration_seconds",
			Help:    "Duration of a full screening run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	InstrumentsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_instruments_loaded",
			Help: "Number of instruments loaded by the last run",
		},
	)

	InstrumentsQualified = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screener_instruments_qualified",
			Help: "Number of instruments on the last shortlist",
		},
	)

	RenderErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_render_errors_total",
			Help: "Total number of instruments that failed to render",
		},
	)

	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections_active",
			Help: "Number of open websocket connections",
		},
	)
)
