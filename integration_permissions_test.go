package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
	"github.com/mozilla-ai/mcpcheck/internal/perms"
	"github.com/mozilla-ai/mcpcheck/internal/report"
)

// TestReportPermissions verifies that saved health reports and the directory
// holding them are created with regular permissions.
func TestReportPermissions(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "reports")

	w, err := report.NewWriter(hclog.NewNullLogger(), dir)
	require.NoError(t, err)

	path, err := w.Write(report.HealthReport{Timestamp: time.UnixMilli(1_700_000_000_000)})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "health-1700000000000.json"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.False(t, info.IsDir())
	require.Equal(t, perms.RegularFile, info.Mode().Perm(), "report file should be created with 0644")

	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, dirInfo.IsDir())
	require.Equal(t, perms.RegularDir, dirInfo.Mode().Perm(), "report directory should be created with 0755")
}

// TestReportDirectoryTightenedPermissionsKept verifies that a report directory the
// user already locked down is reused without being widened.
func TestReportDirectoryTightenedPermissionsKept(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "reports")
	require.NoError(t, os.Mkdir(dir, 0o700))

	w, err := report.NewWriter(hclog.NewNullLogger(), dir)
	require.NoError(t, err)

	_, err = w.Write(report.HealthReport{Timestamp: time.Now()})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

// TestLogFilePermissions verifies that the log file named by --log-path is created
// with regular permissions. It mutates package level flags so it does not run in parallel.
func TestLogFilePermissions(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mcpcheck.log")

	prev := flags.LogPath
	flags.LogPath = logPath
	t.Cleanup(func() { flags.LogPath = prev })

	base := &cmd.BaseCmd{}
	base.Logger().Info("permissions check")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	require.Equal(t, perms.RegularFile, info.Mode().Perm(), "log file should be created with 0644")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "permissions check")
}
