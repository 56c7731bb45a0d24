package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// PrepareRestore builds the filtered restore file for a session about
// to (re)create its container. prepared is false, with a nil error,
// when no backup exists remotely or locally.
func (e *Engine) PrepareRestore(ctx context.Context, sess string) (prepared bool, err error) {
	if err := e.Staging.EnsureMountPoint(sess); err != nil {
		return false, fmt.Errorf("ensure mount point for %s: %w", sess, err)
	}

	localPath := e.Staging.BackupPath(sess)
	fromRemote, err := e.Bucket.Get(ctx, KeyFor(sess), localPath)
	if err != nil {
		return false, fmt.Errorf("download backup for %s: %w", sess, err)
	}
	if !fromRemote {
		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			return false, nil
		}
	}

	if err := e.filterToRestoreFile(localPath, e.Staging.RestorePath(sess)); err != nil {
		return false, fmt.Errorf("filter restore file for %s: %w", sess, err)
	}

	if fromRemote {
		if err := os.Remove(localPath); err != nil {
			return false, fmt.Errorf("remove downloaded source tar %s: %w", localPath, err)
		}
	}
	return true, nil
}

// filterToRestoreFile copies src's juser/ subtree into dest, stripping
// the prefix and excluding dotfiles (except .ssh) and resty state.
func (e *Engine) filterToRestoreFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	gzIn, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("gzip reader for %s: %w", src, err)
	}
	defer gzIn.Close()
	tr := tar.NewReader(gzIn)

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	gzOut := gzip.NewWriter(out)
	tw := tar.NewWriter(gzOut)

	prefix := e.HomeUser + "/"
	dotPrefix := prefix + "."
	sshPrefix := prefix + ".ssh"
	restyPrefix := prefix + "resty"

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar entry from %s: %w", src, err)
		}

		if !strings.HasPrefix(header.Name, prefix) {
			continue
		}
		if strings.HasPrefix(header.Name, dotPrefix) && !strings.HasPrefix(header.Name, sshPrefix) {
			continue
		}
		if strings.HasPrefix(header.Name, restyPrefix) {
			continue
		}
		name := header.Name[len(prefix):]
		if name == "" {
			continue
		}
		header.Name = name

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header for %s: %w", name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := io.Copy(tw, tr); err != nil {
				return fmt.Errorf("copy tar entry %s: %w", name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer for %s: %w", dest, err)
	}
	if err := gzOut.Close(); err != nil {
		return fmt.Errorf("close gzip writer for %s: %w", dest, err)
	}
	return os.Chmod(dest, 0o666)
}
