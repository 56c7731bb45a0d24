package backup

import (
	"os"
	"path/filepath"
)

// Staging is the local staging root: one subdirectory per session (its
// mount point, which also holds the restore file), plus, transiently,
// each session's backup artifact directly under the root.
type Staging struct {
	Root string
}

// MountPoint is the per-session directory the container's working
// volume is bind-mounted from.
func (s Staging) MountPoint(session string) string {
	return filepath.Join(s.Root, session)
}

// EnsureMountPoint creates the session's mount point, mode 0777, if it
// does not already exist. The mode is re-applied with an explicit
// Chmod, since MkdirAll's mode is subject to umask.
func (s Staging) EnsureMountPoint(session string) error {
	dir := s.MountPoint(session)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	return os.Chmod(dir, 0o777)
}

// RemoveMountPoint removes the session's mount point. It is
// non-recursive (os.Remove), so it fails, rather than destroys data,
// if the directory is not empty (for example, it still holds the
// restore file or files written through the container's volume). The
// session's backup file lives beside it under the root and is not
// touched.
func (s Staging) RemoveMountPoint(session string) error {
	return os.Remove(s.MountPoint(session))
}

// BackupPath is where a session's gzipped tar snapshot lives while
// staged locally, named <session>.tar.gz.
func (s Staging) BackupPath(session string) string {
	return filepath.Join(s.Root, session+".tar.gz")
}

// RestorePath is where the filtered restore file is written.
func (s Staging) RestorePath(session string) string {
	return filepath.Join(s.MountPoint(session), "restore.tar.gz")
}

// KeyFor is the object-store key a session's backup artifact is stored
// under.
func KeyFor(session string) string {
	return session + ".tar.gz"
}
