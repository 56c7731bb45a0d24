// Package storage provides the object-store adapter: a single-blob
// put/head/get contract, backed by AWS S3, for the backup engine. A
// Bucket is optional — when no bucket is configured, callers get a
// nilBucket whose operations are no-ops.
package storage
