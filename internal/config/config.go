// Package config provides configuration types and defaults for homestead.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/homestead/internal/log"
)

// ServiceConfig defines a single managed user service.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Enabled *bool  `mapstructure:"enabled"`  // nil = true (default enabled)
	DataDir string `mapstructure:"data_dir"` // absolute path; empty uses the default data dir
}

// IsEnabled returns whether the service is enabled (defaults to true if nil).
func (s ServiceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Config holds all configuration options for homestead.
type Config struct {
	// CompatVersion is the homestead version this manifest declares
	// compatibility with. Empty means the user never pinned a version.
	CompatVersion string          `mapstructure:"compat_version"`
	AutoReload    bool            `mapstructure:"auto_reload"`
	Services      []ServiceConfig `mapstructure:"services"`
	Tracing       TracingConfig   `mapstructure:"tracing"`
	Flags         map[string]bool `mapstructure:"flags"`
}

// TracingConfig holds distributed tracing configuration for evaluation runs.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/homestead/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/homestead/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "homestead", "traces", "traces.jsonl")
}

// ValidateServices checks service configuration for errors.
// Returns nil if services are valid or empty.
func ValidateServices(services []ServiceConfig) error {
	seen := make(map[string]bool, len(services))
	for i, svc := range services {
		if svc.Name == "" {
			return fmt.Errorf("service %d: name is required", i)
		}
		if seen[svc.Name] {
			return fmt.Errorf("service %d (%s): duplicate service name", i, svc.Name)
		}
		seen[svc.Name] = true

		if svc.DataDir != "" && !filepath.IsAbs(svc.DataDir) {
			return fmt.Errorf("service %d (%s): data_dir must be an absolute path, got %q", i, svc.Name, svc.DataDir)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the whole configuration for errors.
func (c Config) Validate() error {
	if err := ValidateServices(c.Services); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		CompatVersion: "",
		AutoReload:    true,
		Services:      nil,
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Homestead Manifest

# Version of homestead this manifest is known to be compatible with.
# Homestead refuses to evaluate a manifest pinned to an older version when
# breaking changes have shipped since; each refusal lists the manual
# migration steps. After performing them, bump this value (or run
# 'homestead pin').
# compat_version: "0.0.41"

# Re-check the manifest automatically when it changes ('homestead watch')
auto_reload: true

# Managed user services
# services:
#   - name: syncthing
#     enabled: true
#
#   - name: backup
#     enabled: true
#     data_dir: /var/lib/homestead/backup
#
#   - name: webserver
#     enabled: false
#
# Service options:
#   name: Service identifier (required)
#   enabled: Whether the service is evaluated (default: true)
#   data_dir: Absolute data directory (default: ~/.local/share/homestead/<name>)
services: []

# Feature flags for experimental behavior
# flags:
#   trace-conditions: true   # Log every gate condition evaluation
#   verbose-plan: true       # Log each planned action during evaluation

# Distributed tracing for evaluation runs
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/homestead/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a manifest at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default manifest", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create manifest directory", err, "dir", dir)
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write manifest", err, "path", configPath)
		return fmt.Errorf("writing manifest: %w", err)
	}

	log.Info(log.CatConfig, "Created default manifest", "path", configPath)
	return nil
}
