// Package manager implements the liveness registry and the lifecycle
// operations: launch-by-name, stop, and delete, each serialized per
// session by an advisory lock so a launch, a backup, and a delete on
// the same session never interleave.
package manager
