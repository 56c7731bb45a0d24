package reconciler

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/barrygolden/juliabox/pkg/log"
	"github.com/barrygolden/juliabox/pkg/manager"
	"github.com/barrygolden/juliabox/pkg/metrics"
	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/session"
	"github.com/barrygolden/juliabox/pkg/types"
)

const defaultInterval = 30 * time.Second

// Reconciler runs the maintenance sweep: deletes containers past their
// hard lifetime, stops containers idle past the inactivity timeout,
// and reconciles the liveness registry with the containers the
// runtime actually reports.
type Reconciler struct {
	rt       runtime.Client
	mgr      *manager.Manager
	cfg      types.Config
	logger   zerolog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewReconciler creates a sweep against rt and mgr, ticking at
// cfg.SweepIntervalSecs (defaulting to 30s if unset).
func NewReconciler(rt runtime.Client, mgr *manager.Manager, cfg types.Config) *Reconciler {
	interval := time.Duration(cfg.SweepIntervalSecs) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Reconciler{
		rt:       rt,
		mgr:      mgr,
		cfg:      cfg,
		logger:   log.WithComponent("reconciler"),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop on its own goroutine.
func (r *Reconciler) Start() {
	go r.run()
}

// Stop ends the sweep loop.
func (r *Reconciler) Stop() {
	close(r.stopCh)
}

func (r *Reconciler) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("maintenance sweep started")

	for {
		select {
		case <-ticker.C:
			r.sweep(context.Background())
		case <-r.stopCh:
			r.logger.Info().Msg("maintenance sweep stopped")
			return
		}
	}
}

// sweep performs one maintenance cycle: list, delete/stop as needed,
// then reconcile the liveness registry against what was observed.
func (r *Reconciler) sweep(ctx context.Context) {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.SweepDuration)
		metrics.SweepCyclesTotal.Inc()
	}()

	now := time.Now().UTC()
	deleteBefore := before(now, r.cfg.DeleteTimeoutSecs)
	stopBefore := before(now, r.cfg.StopTimeoutSecs)

	containers, err := r.rt.List(ctx, true)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list containers for sweep")
		return
	}

	protected := make(map[string]struct{}, len(r.cfg.RuntimeProtectedNames))
	for _, name := range r.cfg.RuntimeProtectedNames {
		protected[name] = struct{}{}
	}

	observed := make(map[string]struct{}, len(containers))

	for _, c := range containers {
		var runtimeName string
		if len(c.Names) > 0 {
			runtimeName = c.Names[0]
		}
		if runtimeName == "" {
			r.logger.Debug().Str("id", c.ID).Msg("skipping container with no name")
			continue
		}
		safe := strings.TrimPrefix(runtimeName, "/")
		observed[safe] = struct{}{}

		if _, ok := protected[runtimeName]; ok {
			continue
		}

		r.sweepOne(ctx, c.ID, safe, deleteBefore, stopBefore, observed)
	}

	r.mgr.Liveness().Reconcile(observed)
}

func (r *Reconciler) sweepOne(ctx context.Context, id, safe string, deleteBefore, stopBefore time.Time, observed map[string]struct{}) {
	h := session.New(r.rt, id)

	running, err := h.IsRunning(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Str("session", safe).Msg("failed to inspect container during sweep")
		return
	}

	if _, ok := r.mgr.Liveness().LastPing(safe); !ok && running {
		r.mgr.Liveness().PingAt(safe, time.Now().UTC())
		r.logger.Info().Str("session", safe).Msg("discovered running container with no liveness entry")
	}

	started, err := h.TimeStarted(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Str("session", safe).Msg("failed to read start time during sweep")
		return
	}

	if started.Before(deleteBefore) {
		if err := r.mgr.Backup(ctx, h); err != nil {
			r.logger.Warn().Err(err).Str("session", safe).Msg("backup before delete failed, continuing")
		}

		r.logger.Info().Str("session", safe).Time("started", started).Msg("deleting container past its delete timeout")
		if err := r.mgr.Delete(ctx, h); err != nil {
			r.logger.Error().Err(err).Str("session", safe).Msg("failed to delete container during sweep")
			return
		}
		metrics.SweepContainersDeletedTotal.Inc()
		delete(observed, safe)
		return
	}

	if !running {
		return
	}

	lastPing, ok := r.mgr.Liveness().LastPing(safe)
	if !ok || !lastPing.Before(stopBefore) {
		return
	}

	if err := r.mgr.Backup(ctx, h); err != nil {
		r.logger.Warn().Err(err).Str("session", safe).Msg("backup before stop failed, continuing")
	}

	r.logger.Info().Str("session", safe).Time("last_ping", lastPing).Msg("stopping idle container")
	if err := r.mgr.Stop(ctx, h); err != nil {
		r.logger.Error().Err(err).Str("session", safe).Msg("failed to stop container during sweep")
		return
	}
	metrics.SweepContainersStoppedTotal.Inc()
}

// before computes now minus timeoutSecs, or the zero time when
// timeoutSecs is zero or negative. The zero time acts as -infinity in
// a subsequent Before comparison, so a zero timeout never triggers.
func before(now time.Time, timeoutSecs int) time.Time {
	if timeoutSecs <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(timeoutSecs) * time.Second)
}
