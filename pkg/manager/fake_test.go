package manager

import (
	"context"
	"errors"
	"io"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/types"
)

// fakeRuntime is a minimal in-memory runtime.Client exercising the
// manager's create/start/stop/delete/lookup flow without a real Docker
// daemon. Container ids are assigned sequentially as "c<n>".
type fakeRuntime struct {
	nextID     int
	byID       map[string]*types.Properties
	nameToID   map[string]string
	createErr  error
	lookupErr  error
	removedIDs []string
	killedIDs  []string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{byID: make(map[string]*types.Properties), nameToID: make(map[string]string)}
}

func (f *fakeRuntime) Create(ctx context.Context, spec runtime.CreateSpec) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := "c" + string(rune('0'+f.nextID))
	f.byID[id] = &types.Properties{Name: "/" + spec.Name, Running: false}
	f.nameToID["/"+spec.Name] = id
	return id, nil
}

func (f *fakeRuntime) Start(ctx context.Context, id string) error {
	props, ok := f.byID[id]
	if !ok {
		return errors.New("no such container")
	}
	props.Running = true
	return nil
}

func (f *fakeRuntime) Stop(ctx context.Context, id string) error {
	props, ok := f.byID[id]
	if !ok {
		return errors.New("no such container")
	}
	props.Running = false
	return nil
}

func (f *fakeRuntime) Kill(ctx context.Context, id string) error {
	f.killedIDs = append(f.killedIDs, id)
	props, ok := f.byID[id]
	if !ok {
		return errors.New("no such container")
	}
	props.Running = false
	return nil
}

func (f *fakeRuntime) Remove(ctx context.Context, id string) error {
	props, ok := f.byID[id]
	if !ok {
		return errors.New("no such container")
	}
	f.removedIDs = append(f.removedIDs, id)
	delete(f.byID, id)
	delete(f.nameToID, props.Name)
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
	for id, props := range f.byID {
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
	if f.lookupErr != nil {
		return "", false, f.lookupErr
	}
	id, ok := f.nameToID[runtimeName]
	return id, ok, nil
}

func (f *fakeRuntime) Close() error { return nil }

var _ runtime.Client = (*fakeRuntime)(nil)
