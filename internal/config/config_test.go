package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Empty(t, cfg.CompatVersion, "fresh config must not pin a version")
	require.True(t, cfg.AutoReload)
	require.NoError(t, cfg.Validate())
}

func TestServiceConfig_IsEnabled(t *testing.T) {
	require.True(t, ServiceConfig{Name: "syncthing"}.IsEnabled(), "nil enabled defaults to true")
	require.True(t, ServiceConfig{Name: "syncthing", Enabled: boolPtr(true)}.IsEnabled())
	require.False(t, ServiceConfig{Name: "syncthing", Enabled: boolPtr(false)}.IsEnabled())
}

func TestValidateServices(t *testing.T) {
	tests := []struct {
		name        string
		services    []ServiceConfig
		errContains string
	}{
		{
			name:     "empty is valid",
			services: nil,
		},
		{
			name: "valid services",
			services: []ServiceConfig{
				{Name: "syncthing"},
				{Name: "backup", DataDir: "/var/lib/homestead/backup"},
			},
		},
		{
			name:        "missing name",
			services:    []ServiceConfig{{DataDir: "/tmp/x"}},
			errContains: "name is required",
		},
		{
			name: "duplicate name",
			services: []ServiceConfig{
				{Name: "syncthing"},
				{Name: "syncthing"},
			},
			errContains: "duplicate service name",
		},
		{
			name:        "relative data dir",
			services:    []ServiceConfig{{Name: "backup", DataDir: "data/backup"}},
			errContains: "absolute path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServices(tt.services)
			if tt.errContains == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name        string
		tracing     TracingConfig
		errContains string
	}{
		{"defaults valid", Defaults().Tracing, ""},
		{"sample rate too high", TracingConfig{SampleRate: 1.5}, "sample_rate"},
		{"sample rate negative", TracingConfig{SampleRate: -0.1}, "sample_rate"},
		{"unknown exporter", TracingConfig{Exporter: "jaeger", SampleRate: 1.0}, "exporter"},
		{"file exporter needs path when enabled", TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1.0}, "file_path"},
		{"otlp exporter needs endpoint when enabled", TracingConfig{Enabled: true, Exporter: "otlp", SampleRate: 1.0}, "otlp_endpoint"},
		{"disabled skips path checks", TracingConfig{Enabled: false, Exporter: "file", SampleRate: 1.0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.errContains == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.errContains)
			}
		})
	}
}

func TestDefaultConfigTemplate(t *testing.T) {
	tmpl := DefaultConfigTemplate()

	require.True(t, strings.Contains(tmpl, "compat_version"), "template must document the compat pin")
	require.True(t, strings.Contains(tmpl, "services:"), "template must include the services section")
}

func TestSnapshot(t *testing.T) {
	cfg := Config{
		CompatVersion: "0.0.30",
		Services: []ServiceConfig{
			{Name: "syncthing"},
			{Name: "backup", Enabled: boolPtr(false), DataDir: "/srv/backup"},
		},
	}
	snap := NewSnapshot(cfg, "alice", "/home/alice")

	require.Equal(t, "alice", snap.Username())
	require.Equal(t, "/home/alice", snap.HomeDir())
	require.Equal(t, "0.0.30", snap.CompatVersion())

	require.True(t, snap.ServiceEnabled("syncthing"))
	require.False(t, snap.ServiceEnabled("backup"), "explicitly disabled")
	require.False(t, snap.ServiceEnabled("unknown"), "unconfigured service is not enabled")

	require.Equal(t, "/srv/backup", snap.ServiceDataDir("backup"), "explicit data_dir wins")
	require.Equal(t, "/home/alice/.local/share/homestead/syncthing", snap.ServiceDataDir("syncthing"))
	require.Equal(t, "/home/alice/.local/share/homestead/caddy", snap.ServiceDataDir("caddy"), "default for unconfigured service")

	require.ElementsMatch(t, []string{"syncthing", "backup"}, snap.ServiceNames())
}
