// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the user configuration directory for homestead,
// ~/.config/homestead (or $XDG_CONFIG_HOME/homestead when set).
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "homestead")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "homestead")
}

// StateDir returns the state directory for homestead (logs, run artifacts),
// ~/.local/state/homestead (or $XDG_STATE_HOME/homestead when set).
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "homestead")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "homestead")
}

// DefaultServiceDataDir returns the default data directory for a managed
// service under the given home directory. Used when the manifest does not
// set an explicit data_dir for the service.
func DefaultServiceDataDir(home, service string) string {
	return filepath.Join(home, ".local", "share", "homestead", service)
}

// ResolveManifestPath resolves the manifest path from user input.
// It normalizes the input (accepting either a project dir or a manifest file),
// and follows redirect files so several checkouts can share one manifest.
//
// Input normalization:
//   - "/path/to/dir"              -> "/path/to/dir/.homestead/config.yaml"
//   - "/path/to/config.yaml"      -> "/path/to/config.yaml"
//   - ""                          -> "./.homestead/config.yaml"
//
// Redirect handling:
//   - If .homestead/redirect exists next to the manifest, follows it to the
//     actual manifest location.
func ResolveManifestPath(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	// A direct file reference is used as-is
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return followRedirect(path)
	}

	return followRedirect(filepath.Join(path, ".homestead", "config.yaml"))
}

// followRedirect checks for a redirect file next to the manifest and follows
// it if present.
func followRedirect(manifestPath string) string {
	redirectPath := filepath.Join(filepath.Dir(manifestPath), "redirect")

	content, err := os.ReadFile(redirectPath) //nolint:gosec // redirect path is within the manifest dir
	if err != nil {
		return manifestPath
	}

	redirectTarget := strings.TrimSpace(string(content))
	if redirectTarget == "" {
		return manifestPath
	}

	resolvedPath := filepath.Join(filepath.Dir(manifestPath), redirectTarget)
	return filepath.Clean(resolvedPath)
}
