// Package backup implements the backup/restore engine: snapshotting a
// container's home tree to a gzipped tar, comparing freshness against
// the prior snapshot, pushing it to the object store, and filtering a
// prior snapshot into a restore file a fresh container can mount. Tar
// and gzip handling is built directly on archive/tar and compress/gzip.
package backup
