package types

import "time"

// Properties is a cached snapshot of a container's runtime-reported
// state, as returned by the container-runtime adapter's Inspect call.
type Properties struct {
	Name          string
	ImageID       string
	ImageTags     []string
	Running       bool
	Created       time.Time
	Started       time.Time
	Finished      time.Time
	ContainerPort []int            // container ports with a host binding, in the order the runtime adapter lists them
	HostPorts     map[int]int      // container port -> host port, 127.0.0.1
}

// HostPortTuple returns the host ports bound to the declared container
// ports, in declared order.
func (p *Properties) HostPortTuple() []int {
	tuple := make([]int, len(p.ContainerPort))
	for i, port := range p.ContainerPort {
		tuple[i] = p.HostPorts[port]
	}
	return tuple
}

// ChangeTime is max(Started, Finished), with a zero Finished treated as
// -infinity, falling back to Created if the container has never started.
// This is the container's change time a prior snapshot's time is
// compared against to decide whether a new backup is needed.
func (p *Properties) ChangeTime() time.Time {
	if p.Started.IsZero() {
		return p.Created
	}
	if p.Finished.After(p.Started) {
		return p.Finished
	}
	return p.Started
}

// ContainerSummary is one entry of a runtime List call.
type ContainerSummary struct {
	ID    string
	Names []string
}

// ImageSummary is one entry of a runtime Images call.
type ImageSummary struct {
	ID   string
	Tags []string
}

// PortBindings maps a declared container port to the host address it
// should be published on. Every declared container port is bound to
// 127.0.0.1 with a runtime-chosen free host port.
type PortBindings map[int]string

// BindMount maps a host path to a container path, always read-write.
type BindMount struct {
	HostPath      string
	ContainerPath string
}
