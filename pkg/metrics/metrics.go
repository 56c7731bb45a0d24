package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session lifecycle metrics
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jboxd_sessions_active",
			Help: "Number of sessions currently tracked in the liveness registry",
		},
	)

	SessionLaunchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jboxd_session_launches_total",
			Help: "Total number of launch_by_name calls, by outcome (created, reused, error)",
		},
		[]string{"outcome"},
	)

	SessionLaunchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jboxd_session_launch_duration_seconds",
			Help:    "Time taken by launch_by_name in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SessionStopDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jboxd_session_stop_duration_seconds",
			Help:    "Time taken to stop a session container in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SessionDeleteDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jboxd_session_delete_duration_seconds",
			Help:    "Time taken to delete a session container in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Backup/restore metrics
	BackupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jboxd_backups_total",
			Help: "Total number of backup attempts, by outcome (uploaded, skipped, failed)",
		},
		[]string{"outcome"},
	)

	BackupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jboxd_backup_duration_seconds",
			Help:    "Time taken by a single container backup in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RestoresPreparedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jboxd_restores_prepared_total",
			Help: "Total number of restore files prepared from a prior snapshot",
		},
	)

	// Maintenance sweep metrics
	SweepCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jboxd_sweep_cycles_total",
			Help: "Total number of maintenance sweep cycles completed",
		},
	)

	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jboxd_sweep_duration_seconds",
			Help:    "Time taken for one maintenance sweep cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SweepContainersDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jboxd_sweep_containers_deleted_total",
			Help: "Total number of containers deleted for exceeding delete_timeout_secs",
		},
	)

	SweepContainersStoppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jboxd_sweep_containers_stopped_total",
			Help: "Total number of containers stopped for exceeding stop_timeout_secs",
		},
	)
)

func init() {
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionLaunchesTotal)
	prometheus.MustRegister(SessionLaunchDuration)
	prometheus.MustRegister(SessionStopDuration)
	prometheus.MustRegister(SessionDeleteDuration)

	prometheus.MustRegister(BackupsTotal)
	prometheus.MustRegister(BackupDuration)
	prometheus.MustRegister(RestoresPreparedTotal)

	prometheus.MustRegister(SweepCyclesTotal)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(SweepContainersDeletedTotal)
	prometheus.MustRegister(SweepContainersStoppedTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
