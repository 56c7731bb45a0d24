// Package metrics provides Prometheus instrumentation, health/readiness
// reporting, and a periodic liveness-count collector for the session
// manager. Metric names and the session/backup/sweep groupings are
// specific to this process; the Timer helper, health-check machinery,
// and collector shape are general-purpose and reused as-is.
package metrics
