package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/files"
)

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 2 * time.Second

func (p *Prober) probeLocal(ctx context.Context, entry config.ServerEntry) Result {
	args := p.env.ExpandAll(entry.Args)
	if p.opts.HelpFlag != "" {
		args = append(args, p.opts.HelpFlag)
	}

	res := Result{Target: entry.Target()}

	dir := ""
	if entry.Cwd != "" {
		dir = files.ExpandHome(p.env.Expand(entry.Cwd), p.env.Get("HOME"))
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			res.Status = domain.ProbeStatusError
			res.Message = fmt.Sprintf("working directory not found: %s", dir)
			return res
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	childEnv := p.env.With(p.env.ExpandMap(entry.Env))
	path, defined := childEnv.Lookup("PATH")

	command, err := lookPath(entry.Command, path, defined)
	if err != nil {
		if isNotFound(err) {
			res.Status = domain.ProbeStatusMissing
			res.Message = fmt.Sprintf("command not found: %s", entry.Command)
		} else {
			res.Status = domain.ProbeStatusError
			res.Message = err.Error()
		}
		return res
	}

	var stdout, stderr limitedBuffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = childEnv.Environ()
	cmd.Dir = dir
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err = cmd.Run()

	res.Stdout = sample(stdout.String())
	res.Stderr = sample(stderr.String())

	if cmd.ProcessState != nil {
		code := cmd.ProcessState.ExitCode()
		res.ExitCode = &code
	}

	switch {
	case err == nil:
		res.Success = true
		res.Status = domain.ProbeStatusOK
		res.Message = "command exited successfully"
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Status = domain.ProbeStatusTimeout
		res.Message = "timeout"
	case isNotFound(err):
		res.Status = domain.ProbeStatusMissing
		res.Message = fmt.Sprintf("command not found: %s", entry.Command)
	case isExitError(err):
		code := -1
		if res.ExitCode != nil {
			code = *res.ExitCode
		}
		if IsHelpLikeOutput(stdout.String()) || IsHelpLikeOutput(stderr.String()) {
			res.Success = true
			res.Status = domain.ProbeStatusOK
			res.Message = fmt.Sprintf("command exited with code %d after printing help text", code)
		} else {
			res.Status = domain.ProbeStatusError
			res.Message = fmt.Sprintf("command exited with code %d", code)
		}
	default:
		res.Status = domain.ProbeStatusError
		res.Message = err.Error()
	}

	return res
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
