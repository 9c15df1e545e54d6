package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnaf_runs_started_total",
			Help: "Total number of audit runs started, by input mode",
		},
		[]string{"mode"},
	)

	Dispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnaf_dispatches_total",
			Help: "Total number of dispatch calls into the processing stage, by outcome",
		},
		[]string{"outcome"},
	)

	ParsersSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnaf_parsers_selected_total",
			Help: "Total number of times each parser was part of a selected set",
		},
		[]string{"parser"},
	)

	WarningsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pnaf_warnings_captured_total",
			Help: "Total number of warnings routed by the interceptor, by origin",
		},
		[]string{"origin"},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pnaf_dispatch_duration_seconds",
			Help:    "Time spent inside the processing-stage call",
			Buckets: prometheus.DefBuckets,
		},
	)
)
