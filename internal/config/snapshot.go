package config

import (
	"os"
	"path/filepath"

	"github.com/zjrosen/homestead/internal/paths"
)

// ServiceState is the read-only per-service view exposed to gate conditions.
type ServiceState struct {
	Enabled bool
	DataDir string
}

// Snapshot is an immutable view of the loaded configuration plus ambient
// identity, taken once per evaluation. Gate conditions and change messages
// read from it instead of reaching into mutable global state, so their data
// dependencies stay explicit and testable.
type Snapshot struct {
	username           string
	homeDir            string
	compatVersion      string
	services           map[string]ServiceState
	hasRelativeDataDir bool
}

// NewSnapshot builds a snapshot from a loaded config and an explicit
// identity. Pure; used directly by tests.
func NewSnapshot(cfg Config, username, homeDir string) Snapshot {
	services := make(map[string]ServiceState, len(cfg.Services))
	hasRelative := false
	for _, svc := range cfg.Services {
		dataDir := svc.DataDir
		if dataDir == "" {
			dataDir = paths.DefaultServiceDataDir(homeDir, svc.Name)
		} else if !filepath.IsAbs(dataDir) {
			hasRelative = true
		}
		services[svc.Name] = ServiceState{
			Enabled: svc.IsEnabled(),
			DataDir: dataDir,
		}
	}
	return Snapshot{
		username:           username,
		homeDir:            homeDir,
		compatVersion:      cfg.CompatVersion,
		services:           services,
		hasRelativeDataDir: hasRelative,
	}
}

// CurrentSnapshot builds a snapshot for the invoking user.
func CurrentSnapshot(cfg Config) Snapshot {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	username := os.Getenv("USER")
	if username == "" {
		username = filepath.Base(home)
	}
	return NewSnapshot(cfg, username, home)
}

// Username returns the invoking user's name.
func (s Snapshot) Username() string { return s.username }

// HomeDir returns the invoking user's home directory.
func (s Snapshot) HomeDir() string { return s.homeDir }

// CompatVersion returns the declared compatibility version, or "" when the
// manifest never pinned one.
func (s Snapshot) CompatVersion() string { return s.compatVersion }

// ServiceEnabled reports whether the named service is configured and enabled.
func (s Snapshot) ServiceEnabled(name string) bool {
	return s.services[name].Enabled
}

// ServiceDataDir returns the effective data directory for the named service.
// Returns the default location for services the manifest does not configure.
func (s Snapshot) ServiceDataDir(name string) string {
	if state, ok := s.services[name]; ok {
		return state.DataDir
	}
	return paths.DefaultServiceDataDir(s.homeDir, name)
}

// HasRelativeDataDir reports whether any configured service sets a relative
// data_dir. Such manifests predate strict path validation; the gate surfaces
// the migration notice for them before validation rejects the paths.
func (s Snapshot) HasRelativeDataDir() bool {
	return s.hasRelativeDataDir
}

// ServiceNames returns the configured service names. Order is not
// guaranteed; callers needing a stable order must sort.
func (s Snapshot) ServiceNames() []string {
	names := make([]string, 0, len(s.services))
	for name := range s.services {
		names = append(names, name)
	}
	return names
}
