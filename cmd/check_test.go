package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcheck/internal/cmd/options"
	"github.com/mozilla-ai/mcpcheck/internal/config"
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
	"github.com/mozilla-ai/mcpcheck/internal/report"
)

// staticLoader returns the same configuration whatever path it is asked for.
type staticLoader struct {
	data string
	err  error
}

func (l staticLoader) Load(string) (*config.Config, error) {
	if l.err != nil {
		return nil, l.err
	}
	return config.Parse("test.mcp.json", []byte(l.data))
}

// sseServer serves /ok with 200 and /down with 503, recording the User-Agent of each request.
type sseServer struct {
	*httptest.Server
	mu         sync.Mutex
	userAgents []string
}

func newSSEServer(t *testing.T) *sseServer {
	t.Helper()

	s := &sseServer{}
	r := chi.NewRouter()
	r.Get("/ok/sse", func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.userAgents = append(s.userAgents, req.Header.Get("User-Agent"))
		s.mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/down/sse", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

func remoteConfig(global string, servers map[string]string) string {
	entries := ""
	for name, url := range servers {
		if entries != "" {
			entries += ","
		}
		entries += fmt.Sprintf("%q: {\"serverUrl\": %q}", name, url)
	}

	if global != "" {
		return fmt.Sprintf(`{"global": %s, "mcpServers": {%s}}`, global, entries)
	}
	return fmt.Sprintf(`{"mcpServers": {%s}}`, entries)
}

func testSnapshot() report.System {
	return report.System{Platform: "test", Arch: "amd64", CPUs: 2, GoVersion: "go1.25.6"}
}

func runCheck(t *testing.T, cfg string, args ...string) (stdout string, stderr string, err error) {
	t.Helper()

	base := &cmd.BaseCmd{}
	base.SetLogger(hclog.NewNullLogger())

	c, err := NewCheckCmd(
		base,
		cmdopts.WithConfigLoader(staticLoader{data: cfg}),
		cmdopts.WithSnapshot(testSnapshot),
	)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&errOut)
	c.SetArgs(args)

	err = c.Execute()

	return out.String(), errOut.String(), err
}

func decodeReport(t *testing.T, out string) report.HealthReport {
	t.Helper()

	var payload struct {
		Result report.HealthReport `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	return payload.Result
}

func TestCheckCmd_JSON(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	cfg := remoteConfig("", map[string]string{
		"github": srv.URL + "/ok/sse",
		"extra":  srv.URL + "/ok/sse",
	})

	out, _, err := runCheck(t, cfg, "--output", "json", "--fast", "--save=false")
	require.NoError(t, err)

	r := decodeReport(t, out)
	require.Equal(t, 2, r.Summary.Total)
	require.Equal(t, 2, r.Summary.Healthy)
	require.Equal(t, 1, r.Summary.Critical)
	require.Equal(t, float64(100), r.Summary.SuccessRate)
	require.Equal(t, "test", r.System.Platform)
	require.Equal(t, "test.mcp.json", r.Run.ConfigPath)
	require.True(t, r.Run.Fast)
	require.Contains(t, r.Servers, "github")
	require.Equal(t, config.KindRemote, r.Servers["github"].Kind)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Len(t, srv.userAgents, 2)
	require.Equal(t, "mcpcheck/"+version, srv.userAgents[0])
}

func TestCheckCmd_CriticalFailure(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	cfg := remoteConfig("", map[string]string{
		"github": srv.URL + "/down/sse",
		"extra":  srv.URL + "/ok/sse",
	})

	out, stderr, err := runCheck(t, cfg, "--fast", "--save=false")
	require.ErrorIs(t, err, mcperrors.ErrCriticalServerFailed)
	require.ErrorContains(t, err, "github")

	require.Contains(t, out, "Healthy servers: 1/2 (50.00%)")
	require.Contains(t, out, "Critical failures: github")
	require.Contains(t, stderr, "Group 1/1: extra, github")
	require.Contains(t, stderr, "github: error")
}

func TestCheckCmd_NonCriticalFailure(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	cfg := remoteConfig("", map[string]string{
		"github": srv.URL + "/ok/sse",
		"extra":  srv.URL + "/down/sse",
	})

	out, stderr, err := runCheck(t, cfg, "--output", "detailed", "--fast", "--save=false")
	require.NoError(t, err)
	require.Contains(t, out, "Healthy servers: 1/2 (50.00%)")
	require.Contains(t, out, "Message: HTTP 503 Service Unavailable")
	require.NotContains(t, out, "Critical failures")
	require.NotEmpty(t, stderr)
}

func TestCheckCmd_GlobalSettings(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	servers := map[string]string{"a": srv.URL + "/ok/sse", "b": srv.URL + "/ok/sse"}
	cfg := remoteConfig(`{"timeoutMs": 2000, "maxConcurrentServers": 1}`, servers)

	tests := []struct {
		name            string
		args            []string
		wantConcurrency int
		wantTimeoutMs   int64
	}{
		{name: "config values", wantConcurrency: 1, wantTimeoutMs: 2000},
		{name: "flags win", args: []string{"--concurrency", "3", "--timeout", "4"}, wantConcurrency: 3, wantTimeoutMs: 4000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"--output", "json", "--fast", "--save=false"}, tc.args...)
			out, _, err := runCheck(t, cfg, args...)
			require.NoError(t, err)

			r := decodeReport(t, out)
			require.Equal(t, tc.wantConcurrency, r.Run.Concurrency)
			require.Equal(t, tc.wantTimeoutMs, r.Run.TimeoutMs)
		})
	}
}

func TestCheckCmd_Save(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	dir := filepath.Join(t.TempDir(), "reports")
	cfg := remoteConfig("", map[string]string{"a": srv.URL + "/ok/sse"})

	_, stderr, err := runCheck(t, cfg, "--fast", "--reports-dir", dir)
	require.NoError(t, err)
	require.Contains(t, stderr, "Report saved to")

	matches, err := filepath.Glob(filepath.Join(dir, "health-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestCheckCmd_JQ(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	cfg := remoteConfig("", map[string]string{"a": srv.URL + "/ok/sse", "b": srv.URL + "/down/sse"})

	out, _, err := runCheck(t, cfg, "--output", "json", "--jq", ".result.summary.healthy", "--fast", "--save=false")
	require.NoError(t, err)
	require.Equal(t, "1\n", out)
}

func TestCheckCmd_StructureCheckedBeforeProbing(t *testing.T) {
	t.Parallel()

	srv := newSSEServer(t)
	cfg := fmt.Sprintf(`{"unexpected": true, "mcpServers": {"a": {"serverUrl": %q}}}`, srv.URL+"/ok/sse")

	out, _, err := runCheck(t, cfg, "--output", "json", "--save=false")
	require.ErrorIs(t, err, mcperrors.ErrInvalidConfiguration)
	require.ErrorContains(t, err, mcperrors.ErrSchemaViolation.Error())
	require.Contains(t, out, `"error"`)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Empty(t, srv.userAgents)
}

func TestCheckCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		loader  staticLoader
		wantErr string
	}{
		{
			name:    "config error",
			loader:  staticLoader{err: mcperrors.ErrConfigNotFound},
			wantErr: mcperrors.ErrConfigNotFound.Error(),
		},
		{
			name:    "envelope schema violation",
			args:    []string{"--save=false"},
			loader:  staticLoader{data: `{"version": 3, "mcpServers": {"a": {"serverUrl": "http://127.0.0.1:1"}}}`},
			wantErr: mcperrors.ErrInvalidConfiguration.Error(),
		},
		{
			name:    "jq without json",
			args:    []string{"--jq", ".result"},
			loader:  staticLoader{data: `{"mcpServers": {"a": {"serverUrl": "http://127.0.0.1:1"}}}`},
			wantErr: "--jq can only be used with JSON output",
		},
		{
			name:    "invalid output",
			args:    []string{"--output", "text"},
			loader:  staticLoader{data: `{"mcpServers": {"a": {"serverUrl": "http://127.0.0.1:1"}}}`},
			wantErr: "invalid format",
		},
		{
			name:    "invalid retries",
			args:    []string{"--retries=-1", "--save=false"},
			loader:  staticLoader{data: `{"mcpServers": {"a": {"serverUrl": "http://127.0.0.1:1"}}}`},
			wantErr: "retries cannot be negative",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			base := &cmd.BaseCmd{}
			base.SetLogger(hclog.NewNullLogger())

			c, err := NewCheckCmd(base, cmdopts.WithConfigLoader(tc.loader), cmdopts.WithSnapshot(testSnapshot))
			require.NoError(t, err)

			var out bytes.Buffer
			c.SetOut(&out)
			c.SetErr(&out)
			c.SetArgs(tc.args)

			err = c.Execute()
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}
