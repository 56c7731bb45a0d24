package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/types"
)

// Handle is a cached view of one container's runtime-reported
// properties. The cache has no TTL; Refresh is the only invalidation
// point, so accessors are safe to call freely within one logical
// operation without repeated inspect round-trips.
type Handle struct {
	id  string
	rt  runtime.Client
	mu  sync.Mutex
	cur *types.Properties
}

// New wraps id in a Handle against rt. It does not inspect the
// container; the first accessor call does.
func New(rt runtime.Client, id string) *Handle {
	return &Handle{id: id, rt: rt}
}

// ID returns the runtime-assigned container id this handle wraps.
func (h *Handle) ID() string { return h.id }

// Refresh clears the property cache. The next accessor re-fetches via
// inspect.
func (h *Handle) Refresh() {
	h.mu.Lock()
	h.cur = nil
	h.mu.Unlock()
}

func (h *Handle) properties(ctx context.Context) (*types.Properties, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cur != nil {
		return h.cur, nil
	}
	props, err := h.rt.Inspect(ctx, h.id)
	if err != nil {
		return nil, fmt.Errorf("inspect handle %s: %w", h.id, err)
	}
	h.cur = props
	return h.cur, nil
}

// Name returns the container's runtime name (leading slash included),
// or the empty string if the container has none.
func (h *Handle) Name(ctx context.Context) (string, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return "", err
	}
	return props.Name, nil
}

// ImageTags returns the tags of the image the container was created
// from.
func (h *Handle) ImageTags(ctx context.Context) ([]string, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return nil, err
	}
	return props.ImageTags, nil
}

// HostPorts returns the container's published host ports as a tuple,
// in the order of the properties' ContainerPort list. That order is not
// the configured ports order: DockerClient builds ContainerPort from a
// map, so its order is not defined.
func (h *Handle) HostPorts(ctx context.Context) ([]int, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return nil, err
	}
	return props.HostPortTuple(), nil
}

// IsRunning reports whether the container is currently running.
func (h *Handle) IsRunning(ctx context.Context) (bool, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return false, err
	}
	return props.Running, nil
}

func (h *Handle) TimeCreated(ctx context.Context) (time.Time, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return props.Created, nil
}

func (h *Handle) TimeStarted(ctx context.Context) (time.Time, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return props.Started, nil
}

func (h *Handle) TimeFinished(ctx context.Context) (time.Time, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return props.Finished, nil
}

// ChangeTime is max(started, finished), falling back to created if the
// container has never started.
func (h *Handle) ChangeTime(ctx context.Context) (time.Time, error) {
	props, err := h.properties(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return props.ChangeTime(), nil
}
