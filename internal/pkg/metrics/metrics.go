package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trackwise"

// Mutation results
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// AttendanceMutations counts attendance writes by operation and result.
var AttendanceMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "attendance_mutations_total",
	Help:      "Total attendance mutations by operation and result.",
}, []string{"operation", "result"})

// AttendanceRetries counts load-modify-save retries after a stale write.
var AttendanceRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "attendance",
	Name:      "stale_retries_total",
	Help:      "Total retries caused by concurrent modification of a record.",
}, []string{"operation"})

// RealtimeEvents counts events handed to live sessions.
var RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "realtime_events_total",
	Help:      "Total realtime events delivered to session buffers.",
}, []string{"event"})

// RealtimeEventsDropped counts events skipped because a session buffer was full.
var RealtimeEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "realtime_events_dropped_total",
	Help:      "Total realtime events dropped for slow sessions.",
})

// RealtimeSessions tracks live SSE sessions.
var RealtimeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "realtime_sessions",
	Help:      "Current number of joined realtime sessions.",
})

// OverviewDuration tracks how long the admin overview takes to assemble.
var OverviewDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "overview",
	Name:      "duration_seconds",
	Help:      "Time spent computing the admin overview.",
	Buckets:   prometheus.DefBuckets,
})

// CronRuns counts scheduled job executions by job and result.
var CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "cron",
	Name:      "runs_total",
	Help:      "Total scheduled job runs by job and result.",
}, []string{"job", "result"})

// ObserveMutation records the outcome of one attendance mutation.
func ObserveMutation(operation string, err error, rejected bool) {
	result := ResultOK
	switch {
	case err != nil && rejected:
		result = ResultRejected
	case err != nil:
		result = ResultError
	}
	AttendanceMutations.WithLabelValues(operation, result).Inc()
}
