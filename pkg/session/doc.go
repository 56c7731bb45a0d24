// Package session implements the session-container handle: a cached
// view of one container's runtime-reported properties, with explicit
// invalidation and a fixed set of accessors. A Handle does not own its
// container — multiple handles for the same id are permitted and
// equivalent.
package session
