package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/barrygolden/juliabox/pkg/backup"
	"github.com/barrygolden/juliabox/pkg/log"
	"github.com/barrygolden/juliabox/pkg/metrics"
	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/session"
	"github.com/barrygolden/juliabox/pkg/types"
)

// Manager holds the dependencies lifecycle operations need and
// exposes launch_by_name, stop, and delete, plus the liveness registry
// the maintenance sweep reconciles against.
type Manager struct {
	rt      runtime.Client
	backup  *backup.Engine
	staging backup.Staging
	cfg     types.Config

	liveness *Liveness
	locks    *sessionLocks

	logger zerolog.Logger
}

// New builds a Manager against an already-connected runtime client and
// backup engine, configured per cfg.
func New(rt runtime.Client, be *backup.Engine, staging backup.Staging, cfg types.Config) *Manager {
	return &Manager{
		rt:       rt,
		backup:   be,
		staging:  staging,
		cfg:      cfg,
		liveness: NewLiveness(),
		locks:    newSessionLocks(),
		logger:   log.WithComponent("manager"),
	}
}

// Liveness returns the liveness registry, for the maintenance sweep to
// reconcile.
func (m *Manager) Liveness() *Liveness { return m.liveness }

// Ping records activity for session, e.g. on a front-end keepalive.
func (m *Manager) Ping(session string) { m.liveness.Ping(session) }

// LaunchByName finds or creates the container for a session name,
// starts it if necessary, and returns a handle to it.
func (m *Manager) LaunchByName(ctx context.Context, rawSession string, reuse bool) (_ *session.Handle, err error) {
	safe := types.SafeName(rawSession)
	runtimeName := types.RuntimeName(rawSession)

	timer := metrics.NewTimer()
	created := false
	defer func() {
		timer.ObserveDuration(metrics.SessionLaunchDuration)
		outcome := "reused"
		switch {
		case err != nil:
			outcome = "error"
		case created:
			outcome = "created"
		}
		metrics.SessionLaunchesTotal.WithLabelValues(outcome).Inc()
	}()

	unlock := m.locks.lock(safe)
	defer unlock()

	id, found, err := m.rt.LookupByName(ctx, runtimeName)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", safe, err)
	}

	if found && !reuse {
		if err := m.deleteByID(ctx, id, safe); err != nil {
			return nil, err
		}
		found = false
	}

	if !found {
		created = true
		if err := m.staging.EnsureMountPoint(safe); err != nil {
			return nil, fmt.Errorf("ensure mount point for %s: %w", safe, err)
		}
		prepared, err := m.backup.PrepareRestore(ctx, safe)
		if err != nil {
			m.logger.Warn().Err(err).Str("session", safe).Msg("restore preparation failed, continuing with a fresh home")
		} else if prepared {
			metrics.RestoresPreparedTotal.Inc()
		}

		id, err = m.rt.Create(ctx, m.createSpec(safe))
		if err != nil {
			return nil, fmt.Errorf("create container for %s: %w", safe, err)
		}
	}

	h := session.New(m.rt, id)
	running, err := h.IsRunning(ctx)
	if err != nil {
		return nil, err
	}
	if !running {
		if err := m.rt.Start(ctx, id); err != nil {
			return nil, fmt.Errorf("start container for %s: %w", safe, err)
		}
		h.Refresh()
	}

	m.liveness.Ping(safe)
	return h, nil
}

// createSpec builds the runtime create spec for a fresh session
// container, substituting ${CNAME} with safe in the configured host
// volume templates and binding every declared port to 127.0.0.1 with a
// runtime-chosen host port.
func (m *Manager) createSpec(safe string) runtime.CreateSpec {
	portBindings := make(types.PortBindings, len(m.cfg.Ports))
	for _, p := range m.cfg.Ports {
		portBindings[p] = "127.0.0.1"
	}

	mounts := make([]types.BindMount, len(m.cfg.ContainerVolumes))
	for i, containerPath := range m.cfg.ContainerVolumes {
		hostPath := strings.ReplaceAll(m.cfg.HostVolumes[i], "${CNAME}", safe)
		mounts[i] = types.BindMount{HostPath: hostPath, ContainerPath: containerPath}
	}

	return runtime.CreateSpec{
		Image:        m.cfg.DockerImage,
		Name:         safe,
		MemLimit:     m.cfg.MemLimit,
		Ports:        m.cfg.Ports,
		Volumes:      m.cfg.ContainerVolumes,
		PortBindings: portBindings,
		BindMounts:   mounts,
	}
}

// Backup runs the backup engine against h's session, serialized by the
// same per-session lock as launch/stop/delete. Backups are advisory:
// failures are logged by the caller and never abort a sweep.
func (m *Manager) Backup(ctx context.Context, h *session.Handle) error {
	name, err := h.Name(ctx)
	if err != nil {
		return err
	}
	safe := strings.TrimPrefix(name, "/")

	unlock := m.locks.lock(safe)
	defer unlock()

	timer := metrics.NewTimer()
	uploaded, err := m.backup.Backup(ctx, h)
	timer.ObserveDuration(metrics.BackupDuration)

	outcome := "skipped"
	if err != nil {
		outcome = "failed"
	} else if uploaded {
		outcome = "uploaded"
	}
	metrics.BackupsTotal.WithLabelValues(outcome).Inc()

	return err
}

// Stop stops h's container if running. Data already preserved by a
// prior backup; the maintenance sweep backs up before stopping an
// idle container.
func (m *Manager) Stop(ctx context.Context, h *session.Handle) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SessionStopDuration)

	name, err := h.Name(ctx)
	if err != nil {
		return err
	}
	safe := strings.TrimPrefix(name, "/")

	unlock := m.locks.lock(safe)
	defer unlock()

	if err := m.rt.Stop(ctx, h.ID()); err != nil {
		return fmt.Errorf("stop container %s: %w", h.ID(), err)
	}
	h.Refresh()
	return nil
}

// Delete kills (if running), removes, forgets the liveness entry, and
// removes the mount point for h's session.
func (m *Manager) Delete(ctx context.Context, h *session.Handle) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.SessionDeleteDuration)

	name, err := h.Name(ctx)
	if err != nil {
		return err
	}
	safe := strings.TrimPrefix(name, "/")

	unlock := m.locks.lock(safe)
	defer unlock()

	return m.deleteByID(ctx, h.ID(), safe)
}

func (m *Manager) deleteByID(ctx context.Context, id, safe string) error {
	h := session.New(m.rt, id)
	running, err := h.IsRunning(ctx)
	if err != nil {
		return err
	}
	if running {
		if err := m.rt.Kill(ctx, id); err != nil {
			return fmt.Errorf("kill container %s: %w", id, err)
		}
	}
	if err := m.rt.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove container %s: %w", id, err)
	}

	m.liveness.Forget(safe)

	if err := m.staging.RemoveMountPoint(safe); err != nil {
		m.logger.Warn().Err(err).Str("session", safe).Msg("failed to remove mount point, it may still hold an unuploaded backup")
	}
	return nil
}
