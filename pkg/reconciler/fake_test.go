package reconciler

import (
	"context"
	"errors"
	"io"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/types"
)

// fakeRuntime is a minimal in-memory runtime.Client driving the
// reconciler's sweep against a fixed container set, with Kill/Remove
// recorded so tests can assert which ids were acted on.
type fakeRuntime struct {
	byID     map[string]*types.Properties
	order    []string // container ids, List order
	killed   []string
	removed  []string
	stopped  []string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{byID: make(map[string]*types.Properties)}
}

func (f *fakeRuntime) add(id string, props *types.Properties) {
	f.byID[id] = props
	f.order = append(f.order, id)
}

func (f *fakeRuntime) Create(ctx context.Context, spec runtime.CreateSpec) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeRuntime) Start(ctx context.Context, id string) error { return nil }

func (f *fakeRuntime) Stop(ctx context.Context, id string) error {
	f.stopped = append(f.stopped, id)
	if props, ok := f.byID[id]; ok {
		props.Running = false
	}
	return nil
}

func (f *fakeRuntime) Kill(ctx context.Context, id string) error {
	f.killed = append(f.killed, id)
	if props, ok := f.byID[id]; ok {
		props.Running = false
	}
	return nil
}

func (f *fakeRuntime) Remove(ctx context.Context, id string) error {
	f.removed = append(f.removed, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeRuntime) Inspect(ctx context.Context, id string) (*types.Properties, error) {
	props, ok := f.byID[id]
	if !ok {
		return nil, errors.New("no such container")
	}
	return props, nil
}

func (f *fakeRuntime) List(ctx context.Context, includeStopped bool) ([]types.ContainerSummary, error) {
	var out []types.ContainerSummary
	for _, id := range f.order {
		props, ok := f.byID[id]
		if !ok {
			continue
		}
		if !includeStopped && !props.Running {
			continue
		}
		out = append(out, types.ContainerSummary{ID: id, Names: []string{props.Name}})
	}
	return out, nil
}

func (f *fakeRuntime) Snapshot(ctx context.Context, id, path string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRuntime) Images(ctx context.Context) ([]types.ImageSummary, error) { return nil, nil }

func (f *fakeRuntime) LookupByName(ctx context.Context, runtimeName string) (string, bool, error) {
	for id, props := range f.byID {
		if props.Name == runtimeName {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeRuntime) Close() error { return nil }

var _ runtime.Client = (*fakeRuntime)(nil)
