package storage

import (
	"context"
	"path/filepath"

	"github.com/barrygolden/juliabox/pkg/types"
)

// Bucket addresses a single pre-selected object-store bucket. All
// operations are synchronous and may return a transport error; a nil
// error with a false found result means the key was simply absent,
// not a failure.
type Bucket interface {
	// Put uploads localPath, keyed by its basename, with meta recorded
	// as object metadata. uploaded is false on a nil-configured bucket,
	// where the call is a no-op: callers must not treat the local file
	// as durably stored when uploaded is false.
	Put(ctx context.Context, localPath string, meta types.BackupMetadata) (uploaded bool, err error)

	// Head returns the metadata of key without fetching its body.
	Head(ctx context.Context, key string) (meta types.BackupMetadata, found bool, err error)

	// Get downloads key to localPath. found is false if key is absent.
	Get(ctx context.Context, key, localPath string) (found bool, err error)
}

// KeyOf returns the object key a backup file is stored under: the
// basename of its local path, matching the original's use of
// os.path.basename(local_file) as the S3 key.
func KeyOf(localPath string) string {
	return filepath.Base(localPath)
}

// nilBucket is used when no backup_bucket is configured. Every
// operation is a no-op, matching the original's behavior when
// JBoxContainer.BACKUP_BUCKET is None.
type nilBucket struct{}

// Nil returns a Bucket whose operations always report absence without
// touching any network.
func Nil() Bucket { return nilBucket{} }

func (nilBucket) Put(context.Context, string, types.BackupMetadata) (bool, error) { return false, nil }

func (nilBucket) Head(context.Context, string) (types.BackupMetadata, bool, error) {
	return types.BackupMetadata{}, false, nil
}

func (nilBucket) Get(context.Context, string, string) (bool, error) {
	return false, nil
}
