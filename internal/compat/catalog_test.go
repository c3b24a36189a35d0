package compat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/homestead/internal/config"
)

func catalogSnapshot(services ...config.ServiceConfig) config.Snapshot {
	return config.NewSnapshot(config.Config{Services: services}, "alice", "/home/alice")
}

func TestNewCatalog_ValidatesOrdering(t *testing.T) {
	reg, err := NewCatalog(catalogSnapshot())
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	require.GreaterOrEqual(t, reg.Len(), 5)

	latest, err := reg.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, "0.0.41", latest)
}

func TestNewCatalog_MessagesExpandAgainstSnapshot(t *testing.T) {
	reg, err := NewCatalog(catalogSnapshot(config.ServiceConfig{Name: "backup", DataDir: "/srv/backup"}))
	require.NoError(t, err)

	var backupChange *Change
	for _, c := range reg.All() {
		if c.Version == "0.0.19" {
			backupChange = &c
			break
		}
	}
	require.NotNil(t, backupChange)
	require.Contains(t, backupChange.Message, "/srv/backup", "message must name the deployment's actual data dir")
	require.NotContains(t, backupChange.Message, "{{", "templates must be fully resolved at construction")
}

func TestNewCatalog_ConditionsScopeToEnabledServices(t *testing.T) {
	snap := catalogSnapshot(config.ServiceConfig{Name: "syncthing"})
	reg, err := NewCatalog(snap)
	require.NoError(t, err)

	res, err := Check("0.0.1", reg, snap)
	require.NoError(t, err)
	require.False(t, res.OK)

	listed := make(map[string]bool)
	for _, c := range res.Incompatible {
		listed[c.Version] = true
	}
	require.True(t, listed["0.0.14"], "syncthing rename applies to this deployment")
	require.False(t, listed["0.0.19"], "backup change is scoped to deployments running backup")
	require.False(t, listed["0.0.30"], "mpd change is scoped to deployments running mpd")
	require.True(t, listed["0.0.33"], "unconditional changes always apply")
}

func TestNewCatalog_UnconditionalChangesIgnoreServices(t *testing.T) {
	snap := catalogSnapshot()
	reg, err := NewCatalog(snap)
	require.NoError(t, err)

	res, err := Check("0.0.1", reg, snap)
	require.NoError(t, err)
	require.False(t, res.OK, "even an empty manifest hits the unconditional changes")

	for _, c := range res.Incompatible {
		require.True(t, strings.HasPrefix(c.Version, "0.0."))
	}
}
