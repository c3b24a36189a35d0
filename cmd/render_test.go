package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/homestead/internal/compat"
	"github.com/zjrosen/homestead/internal/config"
)

func TestRenderNotice_KeepsNoticeStructure(t *testing.T) {
	res := compat.Result{
		OK: false,
		Message: "This manifest is pinned to homestead 0.0.10. Changes since then require manual migration steps:\n\n" +
			"  - Backup archives switched format.\n" +
			"    [introduced in 0.0.19]\n" +
			"\nAfter working through the items above, set compat_version to \"0.0.41\" (or run 'homestead pin 0.0.41') to resume evaluation.",
	}

	out := renderNotice(res)

	require.Contains(t, out, "Manifest incompatible")
	require.Contains(t, out, "  - Backup archives switched format.")
	require.Contains(t, out, "[introduced in 0.0.19]")
	require.Contains(t, out, "homestead pin 0.0.41")
}

func TestRenderNotice_WrapsLongLines(t *testing.T) {
	long := strings.Repeat("migrate the thing ", 20)
	out := renderNotice(compat.Result{Message: long})

	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, len(line), noticeWidth+20, "lines should wrap near the notice width")
	}
}

func TestNewTraceProvider_DisabledIsNoop(t *testing.T) {
	provider, err := newTraceProvider(config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, provider.Tracer())
	require.NoError(t, provider.Shutdown(t.Context()))
}
