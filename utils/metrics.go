package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// Total HTTP requests
	ReqCount *prometheus.CounterVec
	// Request latency in seconds
	ReqDuration *prometheus.HistogramVec
	// Errors by handler and type
	ErrorCount *prometheus.CounterVec
	// Habit toggles by resulting state (completed/uncompleted)
	HabitToggles *prometheus.CounterVec
}

// NewMetrics creates the application collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReqCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ReqDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_request_duration_seconds",
				Help:    "Request duration seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_errors_total",
				Help: "Total app errors",
			},
			[]string{"handler", "type"},
		),
		HabitToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_habit_toggles_total",
				Help: "Habit toggles by resulting state",
			},
			[]string{"state"},
		),
	}

	reg.MustRegister(m.ReqCount, m.ReqDuration, m.ErrorCount, m.HabitToggles)
	return m
}
