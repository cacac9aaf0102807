package capability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/credentials"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/files"
)

const (
	filesystemPackage    = "server-filesystem"
	defaultPrometheusURL = "http://localhost:9090"
	prometheusQueryPath  = "/api/v1/query?query=up"
	memoryFileVar        = "MEMORY_FILE_PATH"
	defaultMemoryFile    = "~/.cache/mcp-memory.json"
	browsersInstalled    = "browsers are already installed"
)

var sshKeyNames = []string{"id_rsa", "id_ed25519"}

func builtins() map[string]CheckFunc {
	return map[string]CheckFunc{
		"filesystem": checkFilesystem,
		"github":     checkGitHub,
		"turso":      checkTurso,
		"playwright": checkPlaywright,
		"memory":     checkMemory,
		"ssh":        checkSSH,
		"kubernetes": checkKubernetes,
		"prometheus": checkPrometheus,
	}
}

// resolve returns the value of variable as the server would see it: the entry's own
// 'env' block, expanded, takes precedence over the environment.
func resolve(entry config.ServerEntry, deps Deps, variable string) string {
	if v, ok := entry.Env[variable]; ok {
		return deps.Env.Expand(v)
	}
	return deps.Env.Get(variable)
}

func expandPath(path string, deps Deps) string {
	return files.ExpandHome(deps.Env.Expand(path), deps.Env.Get("HOME"))
}

// filesystemPaths returns the directory arguments of a filesystem server:
// the arguments after the package name, or every path-like argument when the package is not found.
func filesystemPaths(args []string) []string {
	start := -1
	for i, a := range args {
		if strings.Contains(a, filesystemPackage) {
			start = i + 1
			break
		}
	}

	var paths []string
	if start >= 0 {
		for _, a := range args[start:] {
			if !strings.HasPrefix(a, "-") {
				paths = append(paths, a)
			}
		}
		return paths
	}

	for _, a := range args {
		if strings.HasPrefix(a, "/") || strings.HasPrefix(a, "~") || strings.HasPrefix(a, ".") || strings.HasPrefix(a, "$") {
			paths = append(paths, a)
		}
	}

	return paths
}

func checkFilesystem(_ context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	paths := filesystemPaths(entry.Args)
	if len(paths) == 0 {
		return map[string]Result{"paths": {
			Status:  domain.CapabilityStatusNeedsConfig,
			Message: "no directories configured",
		}}
	}

	accessible := 0
	items := 0
	for _, p := range paths {
		expanded := expandPath(p, deps)
		info, err := os.Stat(expanded)
		if err != nil {
			continue
		}
		accessible++
		if info.IsDir() {
			if n, err := files.CountEntries(expanded); err == nil {
				items += n
			}
		}
	}

	status := domain.CapabilityStatusHealthy
	if accessible == 0 {
		status = domain.CapabilityStatusUnavailable
	}

	return map[string]Result{"paths": {
		Status:  status,
		Message: fmt.Sprintf("%d/%d paths accessible, %d items", accessible, len(paths), items),
	}}
}

func checkGitHub(_ context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	token := resolve(entry, deps, credentials.VarGitHubToken)
	if token == "" || strings.Contains(token, "${") {
		return map[string]Result{"auth": {
			Status:  domain.CapabilityStatusNeedsConfig,
			Message: fmt.Sprintf("%s is not set", credentials.VarGitHubToken),
		}}
	}

	if findings := deps.Credentials.Check(credentials.VarGitHubToken, token, deps.Env); len(findings) > 0 {
		return map[string]Result{"auth": {
			Status:  domain.CapabilityStatusNeedsConfig,
			Message: findings[0].Message,
		}}
	}

	return map[string]Result{"auth": {
		Status:  domain.CapabilityStatusHealthy,
		Message: "token configured",
	}}
}

func checkTurso(_ context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	dbURL := resolve(entry, deps, credentials.VarTursoURL)
	token := resolve(entry, deps, credentials.VarTursoToken)

	configured := dbURL != "" && token != "" &&
		!credentials.IsPlaceholderValue(dbURL) && !credentials.IsPlaceholderValue(token) &&
		!strings.Contains(dbURL, "${") && !strings.Contains(token, "${")

	if !configured {
		return map[string]Result{"database": {
			Status:  domain.CapabilityStatusOptional,
			Message: "database credentials not configured",
		}}
	}

	return map[string]Result{"database": {
		Status:  domain.CapabilityStatusHealthy,
		Message: "database credentials configured",
	}}
}

func checkPlaywright(ctx context.Context, _ config.ServerEntry, deps Deps) map[string]Result {
	ctx, cancel := context.WithTimeout(ctx, deps.Timeout)
	defer cancel()

	res, err := deps.Commands.Run(ctx, deps.Env.Environ(), "bunx", "playwright", "install", "--dry-run")
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return map[string]Result{"browsers": {Status: domain.CapabilityStatusTimeout, Message: "browser check timed out"}}
	case err != nil && commandNotFound(err):
		return map[string]Result{"browsers": {Status: domain.CapabilityStatusUnavailable, Message: "bunx not found"}}
	case err != nil:
		return map[string]Result{"browsers": {Status: domain.CapabilityStatusUnavailable, Message: fmt.Sprintf("browser check failed: %v", err)}}
	case res.ExitCode == 0 || strings.Contains(strings.ToLower(res.Output), browsersInstalled):
		return map[string]Result{"browsers": {Status: domain.CapabilityStatusHealthy, Message: "browsers available"}}
	default:
		return map[string]Result{"browsers": {Status: domain.CapabilityStatusNeedsSetup, Message: "browsers need installation"}}
	}
}

func checkMemory(_ context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	path := defaultMemoryFile
	if v, ok := entry.Env[memoryFileVar]; ok && strings.TrimSpace(v) != "" {
		path = v
	}
	path = expandPath(path, deps)

	if err := files.EnsureWritableDir(filepath.Dir(path)); err != nil {
		return map[string]Result{"storage": {
			Status:  domain.CapabilityStatusUnavailable,
			Message: fmt.Sprintf("memory storage not accessible: %v", err),
		}}
	}

	return map[string]Result{"storage": {
		Status:  domain.CapabilityStatusHealthy,
		Message: fmt.Sprintf("memory storage accessible at %s", path),
	}}
}

func checkSSH(_ context.Context, _ config.ServerEntry, deps Deps) map[string]Result {
	home := deps.Env.Get("HOME")
	if home != "" {
		for _, name := range sshKeyNames {
			if _, err := os.Stat(filepath.Join(home, ".ssh", name)); err == nil {
				return map[string]Result{"keys": {
					Status:  domain.CapabilityStatusHealthy,
					Message: "SSH keys available",
				}}
			}
		}
	}

	return map[string]Result{"keys": {
		Status:  domain.CapabilityStatusOptional,
		Message: "no SSH keys found",
	}}
}

func checkKubernetes(ctx context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	ctx, cancel := context.WithTimeout(ctx, deps.Timeout)
	defer cancel()

	env := deps.Env
	if kubeconfig := resolve(entry, deps, credentials.VarKubeconfig); kubeconfig != "" {
		env = env.With(map[string]string{credentials.VarKubeconfig: expandPath(kubeconfig, deps)})
	}

	res, err := deps.Commands.Run(ctx, env.Environ(), "kubectl", "cluster-info")
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return map[string]Result{"cluster": {Status: domain.CapabilityStatusTimeout, Message: "kubectl timed out"}}
	case err != nil && commandNotFound(err):
		return map[string]Result{"cluster": {Status: domain.CapabilityStatusUnavailable, Message: "kubectl not found"}}
	case err != nil || res.ExitCode != 0:
		return map[string]Result{"cluster": {Status: domain.CapabilityStatusUnavailable, Message: "no cluster access"}}
	default:
		return map[string]Result{"cluster": {Status: domain.CapabilityStatusHealthy, Message: "cluster accessible"}}
	}
}

func checkPrometheus(ctx context.Context, entry config.ServerEntry, deps Deps) map[string]Result {
	base := resolve(entry, deps, credentials.VarPrometheusURL)
	if base == "" || strings.Contains(base, "${") {
		base = defaultPrometheusURL
	}
	base = strings.TrimRight(base, "/")

	ctx, cancel := context.WithTimeout(ctx, deps.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+prometheusQueryPath, nil)
	if err != nil {
		return map[string]Result{"metrics": {Status: domain.CapabilityStatusUnavailable, Message: fmt.Sprintf("invalid URL %s", base)}}
	}

	resp, err := deps.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return map[string]Result{"metrics": {Status: domain.CapabilityStatusTimeout, Message: fmt.Sprintf("%s timed out", base)}}
		}
		return map[string]Result{"metrics": {Status: domain.CapabilityStatusUnavailable, Message: fmt.Sprintf("%s unreachable", base)}}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return map[string]Result{"metrics": {Status: domain.CapabilityStatusUnavailable, Message: fmt.Sprintf("%s returned HTTP %d", base, resp.StatusCode)}}
	}

	return map[string]Result{"metrics": {Status: domain.CapabilityStatusHealthy, Message: fmt.Sprintf("%s accessible", base)}}
}
