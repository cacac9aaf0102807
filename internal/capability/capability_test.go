package capability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// fakeRunner is a test double for CommandRunner.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	envs  [][]string
	res   CommandResult
	err   error
}

func (f *fakeRunner) Run(_ context.Context, env []string, name string, args ...string) (CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, args...))
	f.envs = append(f.envs, env)
	return f.res, f.err
}

func newTestRegistry(t *testing.T, env *environment.Environment, opt ...Option) *Registry {
	t.Helper()

	r, err := DefaultRegistry(hclog.NewNullLogger(), env, opt...)
	require.NoError(t, err)

	return r
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(nil, environment.New(nil, nil))
	require.Error(t, err)

	_, err = NewRegistry(hclog.NewNullLogger(), nil)
	require.Error(t, err)

	_, err = NewRegistry(hclog.NewNullLogger(), environment.New(nil, nil), WithTimeout(0))
	require.Error(t, err)

	r, err := NewRegistry(hclog.NewNullLogger(), environment.New(nil, nil))
	require.NoError(t, err)
	require.Empty(t, r.Names())
}

func TestDefaultRegistry_Names(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, environment.New(nil, nil))

	require.Equal(t, []string{
		"filesystem",
		"github",
		"kubernetes",
		"memory",
		"playwright",
		"prometheus",
		"ssh",
		"turso",
	}, r.Names())
}

func TestRegistry_Check_Unknown(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, environment.New(nil, nil))
	res := r.Check(context.Background(), config.ServerEntry{Name: "context7"})

	require.NotNil(t, res)
	require.Empty(t, res)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(hclog.NewNullLogger(), environment.New(nil, nil))
	require.NoError(t, err)

	require.Error(t, r.Register(" ", func(context.Context, config.ServerEntry, Deps) map[string]Result { return nil }))
	require.Error(t, r.Register("custom", nil))

	require.NoError(t, r.Register("custom", func(context.Context, config.ServerEntry, Deps) map[string]Result { return nil }))
	require.True(t, r.Has("custom"))

	res := r.Check(context.Background(), config.ServerEntry{Name: "custom"})
	require.NotNil(t, res, "a nil result is normalised")
}

func TestCheckFilesystem(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	projects := filepath.Join(home, "projects")
	require.NoError(t, os.MkdirAll(filepath.Join(projects, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projects, "b.txt"), nil, 0o644))

	env := environment.New([]string{"HOME=" + home}, nil)
	r := newTestRegistry(t, env)

	tests := []struct {
		name    string
		args    []string
		status  domain.CapabilityStatus
		message string
	}{
		{
			name:    "accessible",
			args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "${HOME}/projects", "~/missing"},
			status:  domain.CapabilityStatusHealthy,
			message: "1/2 paths accessible, 2 items",
		},
		{
			name:    "none accessible",
			args:    []string{"-y", "@modelcontextprotocol/server-filesystem", "/definitely/missing"},
			status:  domain.CapabilityStatusUnavailable,
			message: "0/1 paths accessible, 0 items",
		},
		{
			name:    "no paths",
			args:    []string{"-y", "@modelcontextprotocol/server-filesystem"},
			status:  domain.CapabilityStatusNeedsConfig,
			message: "no directories configured",
		},
		{
			name:    "custom package",
			args:    []string{"run", "fs-server", "~/projects"},
			status:  domain.CapabilityStatusHealthy,
			message: "1/1 paths accessible, 2 items",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res := r.Check(context.Background(), config.ServerEntry{Name: "filesystem", Command: "bunx", Args: tc.args})

			require.Contains(t, res, "paths")
			require.Equal(t, tc.status, res["paths"].Status)
			require.Equal(t, tc.message, res["paths"].Message)
		})
	}
}

func TestCheckGitHub(t *testing.T) {
	t.Parallel()

	valid := "ghp_" + strings.Repeat("a", 36)

	tests := []struct {
		name     string
		parent   []string
		entryEnv map[string]string
		status   domain.CapabilityStatus
	}{
		{name: "from entry env", parent: []string{"TOKEN=" + valid}, entryEnv: map[string]string{"GITHUB_PERSONAL_ACCESS_TOKEN": "${TOKEN}"}, status: domain.CapabilityStatusHealthy},
		{name: "from environment", parent: []string{"GITHUB_PERSONAL_ACCESS_TOKEN=" + valid}, status: domain.CapabilityStatusHealthy},
		{name: "unresolved placeholder", entryEnv: map[string]string{"GITHUB_PERSONAL_ACCESS_TOKEN": "${TOKEN}"}, status: domain.CapabilityStatusNeedsConfig},
		{name: "placeholder value", parent: []string{"GITHUB_PERSONAL_ACCESS_TOKEN=your_token_here"}, status: domain.CapabilityStatusNeedsConfig},
		{name: "unset", status: domain.CapabilityStatusNeedsConfig},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRegistry(t, environment.New(tc.parent, nil))
			res := r.Check(context.Background(), config.ServerEntry{Name: "github", Env: tc.entryEnv})

			require.Equal(t, tc.status, res["auth"].Status, res["auth"].Message)
		})
	}
}

func TestCheckTurso(t *testing.T) {
	t.Parallel()

	configured := environment.New([]string{"TURSO_DATABASE_URL=libsql://db.turso.io", "TURSO_AUTH_TOKEN=eyJ"}, nil)
	res := newTestRegistry(t, configured).Check(context.Background(), config.ServerEntry{Name: "turso"})
	require.Equal(t, domain.CapabilityStatusHealthy, res["database"].Status)

	placeholder := environment.New([]string{"TURSO_DATABASE_URL=libsql://your-database-name.turso.io", "TURSO_AUTH_TOKEN=eyJ"}, nil)
	res = newTestRegistry(t, placeholder).Check(context.Background(), config.ServerEntry{Name: "turso"})
	require.Equal(t, domain.CapabilityStatusOptional, res["database"].Status)

	res = newTestRegistry(t, environment.New(nil, nil)).Check(context.Background(), config.ServerEntry{Name: "turso"})
	require.Equal(t, domain.CapabilityStatusOptional, res["database"].Status)
}

func TestCheckPlaywright(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		res    CommandResult
		err    error
		status domain.CapabilityStatus
	}{
		{name: "exit zero", res: CommandResult{ExitCode: 0}, status: domain.CapabilityStatusHealthy},
		{name: "already installed", res: CommandResult{ExitCode: 1, Output: "All Browsers are already installed"}, status: domain.CapabilityStatusHealthy},
		{name: "needs install", res: CommandResult{ExitCode: 1, Output: "downloading chromium"}, status: domain.CapabilityStatusNeedsSetup},
		{name: "timeout", err: context.DeadlineExceeded, status: domain.CapabilityStatusTimeout},
		{name: "bunx missing", err: &exec.Error{Name: "bunx", Err: exec.ErrNotFound}, status: domain.CapabilityStatusUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{res: tc.res, err: tc.err}
			r := newTestRegistry(t, environment.New(nil, nil), WithCommandRunner(runner))

			res := r.Check(context.Background(), config.ServerEntry{Name: "playwright"})

			require.Equal(t, tc.status, res["browsers"].Status)
			require.Equal(t, [][]string{{"bunx", "playwright", "install", "--dry-run"}}, runner.calls)
		})
	}
}

func TestCheckKubernetes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		res    CommandResult
		err    error
		status domain.CapabilityStatus
	}{
		{name: "accessible", res: CommandResult{ExitCode: 0}, status: domain.CapabilityStatusHealthy},
		{name: "no access", res: CommandResult{ExitCode: 1}, status: domain.CapabilityStatusUnavailable},
		{name: "timeout", err: context.DeadlineExceeded, status: domain.CapabilityStatusTimeout},
		{name: "kubectl missing", err: &exec.Error{Name: "kubectl", Err: exec.ErrNotFound}, status: domain.CapabilityStatusUnavailable},
		{name: "other failure", err: errors.New("boom"), status: domain.CapabilityStatusUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			runner := &fakeRunner{res: tc.res, err: tc.err}
			env := environment.New([]string{"HOME=/home/test"}, nil)
			r := newTestRegistry(t, env, WithCommandRunner(runner))

			res := r.Check(context.Background(), config.ServerEntry{
				Name: "kubernetes",
				Env:  map[string]string{"KUBECONFIG": "${HOME}/.kube/config"},
			})

			require.Equal(t, tc.status, res["cluster"].Status)
			require.Equal(t, [][]string{{"kubectl", "cluster-info"}}, runner.calls)
			require.Contains(t, runner.envs[0], "KUBECONFIG=/home/test/.kube/config")
		})
	}
}

func TestCheckMemory(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	env := environment.New([]string{"HOME=" + home}, nil)
	r := newTestRegistry(t, env)

	res := r.Check(context.Background(), config.ServerEntry{Name: "memory"})
	require.Equal(t, domain.CapabilityStatusHealthy, res["storage"].Status)
	require.DirExists(t, filepath.Join(home, ".cache"))

	res = r.Check(context.Background(), config.ServerEntry{
		Name: "memory",
		Env:  map[string]string{"MEMORY_FILE_PATH": "${HOME}/data/memory.json"},
	})
	require.Equal(t, domain.CapabilityStatusHealthy, res["storage"].Status)
	require.Contains(t, res["storage"].Message, filepath.Join(home, "data", "memory.json"))
	require.DirExists(t, filepath.Join(home, "data"))

	blocker := filepath.Join(home, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	res = r.Check(context.Background(), config.ServerEntry{
		Name: "memory",
		Env:  map[string]string{"MEMORY_FILE_PATH": filepath.Join(blocker, "memory.json")},
	})
	require.Equal(t, domain.CapabilityStatusUnavailable, res["storage"].Status)
}

func TestCheckSSH(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	r := newTestRegistry(t, environment.New([]string{"HOME=" + home}, nil))

	res := r.Check(context.Background(), config.ServerEntry{Name: "ssh"})
	require.Equal(t, domain.CapabilityStatusOptional, res["keys"].Status)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".ssh"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".ssh", "id_ed25519"), nil, 0o600))

	res = r.Check(context.Background(), config.ServerEntry{Name: "ssh"})
	require.Equal(t, domain.CapabilityStatusHealthy, res["keys"].Status)
}

func TestCheckPrometheus(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/ok/api/v1/query", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "up" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	router.Get("/broken/api/v1/query", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	router.Get("/slow/api/v1/query", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tests := []struct {
		name   string
		url    string
		status domain.CapabilityStatus
	}{
		{name: "healthy", url: srv.URL + "/ok/", status: domain.CapabilityStatusHealthy},
		{name: "server error", url: srv.URL + "/broken", status: domain.CapabilityStatusUnavailable},
		{name: "timeout", url: srv.URL + "/slow", status: domain.CapabilityStatusTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := environment.New([]string{"PROMETHEUS_URL=" + tc.url}, nil)
			r := newTestRegistry(t, env, WithTimeout(200*time.Millisecond))

			res := r.Check(context.Background(), config.ServerEntry{Name: "prometheus"})
			require.Equal(t, tc.status, res["metrics"].Status, res["metrics"].Message)
		})
	}
}

func TestExecRunner(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res, err := ExecRunner{}.Run(context.Background(), nil, "sh", "-c", "echo out; echo err >&2; exit 4")
	require.NoError(t, err)
	require.Equal(t, 4, res.ExitCode)
	require.Contains(t, res.Output, "out")
	require.Contains(t, res.Output, "err")

	_, err = ExecRunner{}.Run(context.Background(), nil, "mcpcheck-definitely-not-a-command")
	require.True(t, commandNotFound(err))
}
