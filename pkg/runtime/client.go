package runtime

import (
	"context"
	"io"

	"github.com/barrygolden/juliabox/pkg/types"
)

// CreateSpec describes a new session container, including the host
// port bindings and bind mounts it will start with. The modern Docker
// Engine API fixes a container's HostConfig (bind mounts, port
// bindings) at create time rather than at each start, unlike the
// deprecated Remote API; Start therefore takes no spec of its own; a
// reused, previously-created container keeps the HostConfig it was
// created with across stop/start cycles, which is both correct Docker
// behavior and simpler than respecifying it on every start.
type CreateSpec struct {
	Image        string
	Name         string
	MemLimit     int64
	Ports        []int
	Volumes      []string
	PortBindings types.PortBindings
	BindMounts   []types.BindMount
}

// Client is the container-runtime client adapter. Every method is
// synchronous, blocking I/O against the runtime's native protocol;
// errors propagate to the caller as a runtime-unavailable condition.
type Client interface {
	// Create is idempotent only on name conflict: when the runtime
	// reports the name already exists, the caller is expected to look
	// the existing container up by name and treat it as the result.
	Create(ctx context.Context, spec CreateSpec) (id string, err error)

	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Kill(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error

	Inspect(ctx context.Context, id string) (*types.Properties, error)

	// List returns every container, running or not, when includeStopped
	// is true; only running containers otherwise.
	List(ctx context.Context, includeStopped bool) ([]types.ContainerSummary, error)

	// Snapshot returns an uncompressed tar stream of path inside the
	// container. The caller is responsible for closing the stream.
	Snapshot(ctx context.Context, id, path string) (io.ReadCloser, error)

	Images(ctx context.Context) ([]types.ImageSummary, error)

	// LookupByName returns the id of the container whose runtime name
	// matches runtimeName, or ("", false, nil) if none exists.
	LookupByName(ctx context.Context, runtimeName string) (id string, found bool, err error)

	Close() error
}
