package backup

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/session"
	"github.com/barrygolden/juliabox/pkg/storage"
	"github.com/barrygolden/juliabox/pkg/types"
)

// Engine runs the backup and restore-preparation procedures against a
// container runtime, an object-store bucket, and a local staging root.
type Engine struct {
	Runtime runtime.Client
	Bucket  storage.Bucket
	Staging Staging

	// HomeUser is the user whose home directory is snapshotted and
	// restored, matching the original's /home/juser/.
	HomeUser string
}

// New builds an Engine. homeUser defaults to "juser" when empty.
func New(rt runtime.Client, bucket storage.Bucket, staging Staging, homeUser string) *Engine {
	if homeUser == "" {
		homeUser = "juser"
	}
	return &Engine{Runtime: rt, Bucket: bucket, Staging: staging, HomeUser: homeUser}
}

func (e *Engine) homePath() string {
	return "/home/" + e.HomeUser + "/"
}

// Backup snapshots h's home tree, if it has changed since the prior
// snapshot, and pushes it to the object store. uploaded is false when
// the freshness check found nothing new to upload.
func (e *Engine) Backup(ctx context.Context, h *session.Handle) (uploaded bool, err error) {
	name, err := h.Name(ctx)
	if err != nil {
		return false, err
	}
	sess := strings.TrimPrefix(name, "/")
	if sess == "" {
		return false, nil
	}

	priorTime, err := e.priorSnapshotTime(ctx, sess)
	if err != nil {
		return false, fmt.Errorf("determine prior snapshot time for %s: %w", sess, err)
	}
	changeTime, err := h.ChangeTime(ctx)
	if err != nil {
		return false, err
	}
	if !priorTime.Before(changeTime) {
		return false, nil
	}

	localPath := e.Staging.BackupPath(sess)
	if err := e.snapshotToFile(ctx, h.ID(), localPath); err != nil {
		return false, err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", localPath, err)
	}
	meta := types.BackupMetadata{BackupTime: info.ModTime().UTC()}
	uploaded, err := e.Bucket.Put(ctx, localPath, meta)
	if err != nil {
		return false, fmt.Errorf("upload backup for %s: %w", sess, err)
	}
	if !uploaded {
		// No object store configured: the snapshot stays in local
		// staging as the backup of record, same as the local-only
		// fallback.
		return true, nil
	}
	if err := os.Remove(localPath); err != nil {
		return false, fmt.Errorf("remove uploaded staging file %s: %w", localPath, err)
	}
	return true, nil
}

// priorSnapshotTime is -infinity (the zero time) if no prior snapshot
// exists anywhere, locally or remotely.
func (e *Engine) priorSnapshotTime(ctx context.Context, sess string) (time.Time, error) {
	if info, err := os.Stat(e.Staging.BackupPath(sess)); err == nil {
		return info.ModTime().UTC(), nil
	}
	meta, found, err := e.Bucket.Head(ctx, KeyFor(sess))
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Time{}, nil
	}
	return meta.BackupTime, nil
}

// snapshotToFile writes a gzipped tar of the container's home tree to
// localPath, leaving no partial file on error.
func (e *Engine) snapshotToFile(ctx context.Context, containerID, localPath string) (err error) {
	stream, err := e.Runtime.Snapshot(ctx, containerID, e.homePath())
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", containerID, err)
	}
	defer stream.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer func() {
		f.Close()
		if err != nil {
			os.Remove(localPath)
		}
	}()

	gz := gzip.NewWriter(f)
	if _, err = io.Copy(gz, stream); err != nil {
		return fmt.Errorf("write %s: %w", localPath, err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("close gzip writer for %s: %w", localPath, err)
	}
	return nil
}
