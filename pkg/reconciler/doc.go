// Package reconciler implements the maintenance sweep: a periodic
// pass that deletes over-aged containers, stops idle ones, and
// reconciles the liveness registry with the containers the runtime
// actually reports.
package reconciler
