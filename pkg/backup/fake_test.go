package backup

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"github.com/barrygolden/juliabox/pkg/runtime"
	"github.com/barrygolden/juliabox/pkg/storage"
	"github.com/barrygolden/juliabox/pkg/types"
)

// fakeRuntime serves a fixed set of properties and a canned tar stream
// for Snapshot, so the backup engine can be exercised without a real
// Docker daemon.
type fakeRuntime struct {
	properties map[string]*types.Properties
	snapshots  map[string][]byte // containerID -> uncompressed tar bytes
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		properties: make(map[string]*types.Properties),
		snapshots:  make(map[string][]byte),
	}
}

func (f *fakeRuntime) Create(ctx context.Context, spec runtime.CreateSpec) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeRuntime) Start(ctx context.Context, id string) error  { return nil }
func (f *fakeRuntime) Stop(ctx context.Context, id string) error   { return nil }
func (f *fakeRuntime) Kill(ctx context.Context, id string) error   { return nil }
func (f *fakeRuntime) Remove(ctx context.Context, id string) error { return nil }

func (f *fakeRuntime) Inspect(ctx context.Context, id string) (*types.Properties, error) {
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
	data, ok := f.snapshots[id]
	if !ok {
		return nil, errors.New("no snapshot data")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeRuntime) Images(ctx context.Context) ([]types.ImageSummary, error) { return nil, nil }

func (f *fakeRuntime) LookupByName(ctx context.Context, runtimeName string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeRuntime) Close() error { return nil }

var _ runtime.Client = (*fakeRuntime)(nil)

// fakeBucket is an in-memory storage.Bucket for testing the freshness
// check and restore-preparation flow without a real object store.
type fakeBucket struct {
	objects map[string][]byte
	meta    map[string]types.BackupMetadata
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte), meta: make(map[string]types.BackupMetadata)}
}

func (b *fakeBucket) Put(ctx context.Context, localPath string, meta types.BackupMetadata) (bool, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return false, err
	}
	key := storage.KeyOf(localPath)
	b.objects[key] = data
	b.meta[key] = meta
	return true, nil
}

func (b *fakeBucket) Head(ctx context.Context, key string) (types.BackupMetadata, bool, error) {
	meta, ok := b.meta[key]
	return meta, ok, nil
}

func (b *fakeBucket) Get(ctx context.Context, key, localPath string) (bool, error) {
	data, ok := b.objects[key]
	if !ok {
		return false, nil
	}
	return true, os.WriteFile(localPath, data, 0o644)
}

// buildTar constructs an uncompressed tar stream with the given
// name/contents pairs, as the runtime's Snapshot is documented to
// return.
func buildTar(entries map[string]string) []byte {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, contents := range entries {
		_ = tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Size:     int64(len(contents)),
			Mode:     0644,
		})
		_, _ = tw.Write([]byte(contents))
	}
	_ = tw.Close()
	return buf.Bytes()
}
