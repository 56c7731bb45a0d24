package session

import (
	"context"
	"errors"
	"io"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/types"
)

// fakeRuntime is a minimal in-memory runtime.Client for exercising
// Handle's caching behavior without a real Docker daemon.
type fakeRuntime struct {
	inspectCalls int
	properties   map[string]*types.Properties
	inspectErr   error
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{properties: make(map[string]*types.Properties)}
}

func (f *fakeRuntime) Create(ctx context.Context, spec runtime.CreateSpec) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeRuntime) Start(ctx context.Context, id string) error { return nil }
func (f *fakeRuntime) Stop(ctx context.Context, id string) error  { return nil }
func (f *fakeRuntime) Kill(ctx context.Context, id string) error  { return nil }
func (f *fakeRuntime) Remove(ctx context.Context, id string) error { return nil }

func (f *fakeRuntime) Inspect(ctx context.Context, id string) (*types.Properties, error) {
	f.inspectCalls++
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	props, ok := f.properties[id]
	if !ok {
		return nil, errors.New("no such container")
	}
	return props, nil
}

func (f *fakeRuntime) List(ctx context.Context, includeStopped bool) ([]types.ContainerSummary, error) {
	return nil, nil
}

func (f *fakeRuntime) Snapshot(ctx context.Context, id, path string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRuntime) Images(ctx context.Context) ([]types.ImageSummary, error) { return nil, nil }

func (f *fakeRuntime) LookupByName(ctx context.Context, runtimeName string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeRuntime) Close() error { return nil }

var _ runtime.Client = (*fakeRuntime)(nil)
