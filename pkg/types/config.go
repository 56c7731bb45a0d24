package types

// Config is the merged, typed view of the mandatory configuration
// document and the optional user-overrides document. It also carries
// the pre-computed safe/runtime forms of the admin and protected
// session lists, so hot paths never recompute them.
type Config struct {
	// DockerImage is the image reference for new session containers.
	DockerImage string `yaml:"docker_image"`

	// MemLimit is the per-container memory cap, in bytes.
	MemLimit int64 `yaml:"mem_limit"`

	// BackupLocation is the staging root path. Tilde-expanded at load time.
	BackupLocation string `yaml:"backup_location"`

	// BackupBucket is the optional object-store bucket name. Empty means
	// backup is local-only.
	BackupBucket string `yaml:"backup_bucket"`

	// CloudHost optionally overrides the object store's region/endpoint.
	CloudHost string `yaml:"cloud_host"`

	// AdminUsers and ProtectedSessions are raw session names as configured.
	AdminUsers        []string `yaml:"admin_users"`
	ProtectedSessions []string `yaml:"protected_sessions"`

	// DeleteTimeoutSecs and StopTimeoutSecs parameterize the maintenance
	// sweep. Zero means "no limit" (treated as -infinity).
	DeleteTimeoutSecs int `yaml:"delete_timeout_secs"`
	StopTimeoutSecs   int `yaml:"stop_timeout_secs"`

	// SweepIntervalSecs is how often the reconciler ticks.
	SweepIntervalSecs int `yaml:"sweep_interval_secs"`

	// ListenAddr is the metrics endpoint bind address.
	ListenAddr string `yaml:"listen_addr"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Ports are the container ports every session container exposes.
	// Host port tuples read back from the runtime do not follow this
	// order.
	Ports []int `yaml:"ports"`

	// ContainerVolumes are the container-side mount paths; HostVolumes
	// are the matching host-side path templates, containing the literal
	// substring "${CNAME}" to be replaced with the safe session name.
	ContainerVolumes []string `yaml:"volumes"`
	HostVolumes      []string `yaml:"-"`

	// SafeAdminSessions, SafeProtectedSessions and RuntimeProtectedNames
	// are computed by Finalize, mirroring jbox_util.py's read_config
	// precomputing admin_sessnames/protected_docknames.
	SafeAdminSessions     []string `yaml:"-"`
	SafeProtectedSessions []string `yaml:"-"`
	RuntimeProtectedNames []string `yaml:"-"`
}

// Finalize derives the safe/runtime forms of the admin and protected
// session lists and the host volume templates, and must be called once
// after the mandatory and override documents are merged.
func (c *Config) Finalize() {
	c.SafeAdminSessions = make([]string, len(c.AdminUsers))
	for i, u := range c.AdminUsers {
		c.SafeAdminSessions[i] = SafeName(u)
	}

	c.SafeProtectedSessions = make([]string, len(c.ProtectedSessions))
	c.RuntimeProtectedNames = make([]string, len(c.ProtectedSessions))
	for i, s := range c.ProtectedSessions {
		c.SafeProtectedSessions[i] = SafeName(s)
		c.RuntimeProtectedNames[i] = RuntimeName(s)
	}

	if len(c.HostVolumes) == 0 {
		c.HostVolumes = make([]string, len(c.ContainerVolumes))
		for i := range c.ContainerVolumes {
			c.HostVolumes[i] = c.BackupLocation + "/${CNAME}"
		}
	}
}
