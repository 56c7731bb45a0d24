// Package runtime defines the container-runtime client adapter: a
// thin, idempotent-on-conflict contract over create/start/stop/
// kill/remove/inspect/copy/list/images, implemented against the Docker
// Engine API. Callers depend on the Client interface, not *DockerClient
// directly, so tests can substitute an in-memory fake.
package runtime
