package capability

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"
)

// CommandResult is the outcome of an external command.
type CommandResult struct {
	Output   string
	ExitCode int
}

// CommandRunner runs an external command and returns its combined output.
// The error is non-nil only when the command could not be started or did not finish.
type CommandRunner interface {
	Run(ctx context.Context, env []string, name string, args ...string) (CommandResult, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, env []string, name string, args ...string) (CommandResult, error) {
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	err := cmd.Run()

	res := CommandResult{Output: out.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	if err != nil && errors.As(err, &exitErr) && ctx.Err() == nil {
		return res, nil
	}

	if err != nil && ctx.Err() != nil {
		return res, ctx.Err()
	}

	return res, err
}

func commandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
