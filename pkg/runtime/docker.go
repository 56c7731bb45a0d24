package runtime

import (
	"context"
	"fmt"
	"io"
	"strconv"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/barrygolden/juliabox/pkg/types"
)

// DockerClient implements Client against a real Docker daemon over the
// Docker Engine API.
type DockerClient struct {
	cli *client.Client
}

// NewDockerClient connects to the Docker daemon described by the
// standard DOCKER_HOST/DOCKER_* environment, negotiating the API version
// the daemon supports.
func NewDockerClient() (*DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("connect to docker daemon: %w", err)
	}
	return &DockerClient{cli: cli}, nil
}

func (d *DockerClient) Close() error {
	return d.cli.Close()
}

func (d *DockerClient) Create(ctx context.Context, spec CreateSpec) (string, error) {
	exposed := make(nat.PortSet, len(spec.Ports))
	for _, p := range spec.Ports {
		exposed[nat.Port(fmt.Sprintf("%d/tcp", p))] = struct{}{}
	}

	volumes := make(map[string]struct{}, len(spec.Volumes))
	for _, v := range spec.Volumes {
		volumes[v] = struct{}{}
	}

	portBindings := make(nat.PortMap, len(spec.PortBindings))
	for containerPort, hostIP := range spec.PortBindings {
		port := nat.Port(fmt.Sprintf("%d/tcp", containerPort))
		portBindings[port] = []nat.PortBinding{{HostIP: hostIP, HostPort: ""}}
	}

	binds := make([]string, 0, len(spec.BindMounts))
	for _, m := range spec.BindMounts {
		binds = append(binds, fmt.Sprintf("%s:%s", m.HostPath, m.ContainerPath))
	}

	resp, err := d.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        spec.Image,
			ExposedPorts: exposed,
			Volumes:      volumes,
		},
		&container.HostConfig{
			Resources: container.Resources{
				Memory: spec.MemLimit,
			},
			Binds:        binds,
			PortBindings: portBindings,
		},
		nil, nil, spec.Name,
	)
	if err != nil {
		return "", fmt.Errorf("create container %s: %w", spec.Name, err)
	}
	return resp.ID, nil
}

// Start starts a container that was already created with its full
// HostConfig (bind mounts, port bindings). A reused container that was
// stopped, not removed, keeps the HostConfig from its original
// creation, so no new spec is needed here.
func (d *DockerClient) Start(ctx context.Context, id string) error {
	if err := d.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("start container %s: %w", id, err)
	}
	return nil
}

func (d *DockerClient) Stop(ctx context.Context, id string) error {
	if err := d.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		return fmt.Errorf("stop container %s: %w", id, err)
	}
	return nil
}

func (d *DockerClient) Kill(ctx context.Context, id string) error {
	if err := d.cli.ContainerKill(ctx, id, "SIGKILL"); err != nil {
		return fmt.Errorf("kill container %s: %w", id, err)
	}
	return nil
}

func (d *DockerClient) Remove(ctx context.Context, id string) error {
	if err := d.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("remove container %s: %w", id, err)
	}
	return nil
}

func (d *DockerClient) Inspect(ctx context.Context, id string) (*types.Properties, error) {
	json, err := d.cli.ContainerInspect(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inspect container %s: %w", id, err)
	}
	props := toProperties(json)

	resolvedImageID := json.Image
	if resolvedImageID != "" {
		images, err := d.Images(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve image tags for container %s: %w", id, err)
		}
		for _, img := range images {
			if img.ID == resolvedImageID {
				props.ImageTags = img.Tags
				break
			}
		}
	}
	return props, nil
}

func toProperties(json dockertypes.ContainerJSON) *types.Properties {
	props := &types.Properties{
		Name:      json.Name,
		HostPorts: map[int]int{},
	}
	if json.Config != nil {
		props.ImageID = json.Config.Image
	}
	if json.State != nil {
		props.Running = json.State.Running
		props.Started = types.ParseBackupTime(json.State.StartedAt)
		props.Finished = types.ParseBackupTime(json.State.FinishedAt)
	}
	props.Created = types.ParseBackupTime(json.Created)

	if json.NetworkSettings != nil {
		for port, bindings := range json.NetworkSettings.Ports {
			if len(bindings) == 0 {
				continue
			}
			hostPort, err := strconv.Atoi(bindings[0].HostPort)
			if err != nil {
				continue
			}
			props.HostPorts[port.Int()] = hostPort
			props.ContainerPort = append(props.ContainerPort, port.Int())
		}
	}
	return props
}

func (d *DockerClient) List(ctx context.Context, includeStopped bool) ([]types.ContainerSummary, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: includeStopped})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	summaries := make([]types.ContainerSummary, len(containers))
	for i, c := range containers {
		summaries[i] = types.ContainerSummary{ID: c.ID, Names: c.Names}
	}
	return summaries, nil
}

func (d *DockerClient) Snapshot(ctx context.Context, id, path string) (io.ReadCloser, error) {
	rc, _, err := d.cli.CopyFromContainer(ctx, id, path)
	if err != nil {
		return nil, fmt.Errorf("copy %s from container %s: %w", path, id, err)
	}
	return rc, nil
}

func (d *DockerClient) Images(ctx context.Context) ([]types.ImageSummary, error) {
	images, err := d.cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	summaries := make([]types.ImageSummary, len(images))
	for i, img := range images {
		summaries[i] = types.ImageSummary{ID: img.ID, Tags: img.RepoTags}
	}
	return summaries, nil
}

func (d *DockerClient) LookupByName(ctx context.Context, runtimeName string) (string, bool, error) {
	containers, err := d.List(ctx, true)
	if err != nil {
		return "", false, err
	}
	for _, c := range containers {
		for _, n := range c.Names {
			if n == runtimeName {
				return c.ID, true, nil
			}
		}
	}
	return "", false, nil
}
