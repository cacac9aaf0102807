package options

import (
	"fmt"
	"net/http"
	"os/exec"

	"github.com/mozilla-ai/mcpcheck/internal/capability"
	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/report"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

// SnapshotFunc captures the host information attached to a health report.
type SnapshotFunc func() report.System

type CmdOption func(*CmdOptions) error

// CmdOptions holds the dependencies shared by commands, so tests can replace them.
type CmdOptions struct {
	ConfigLoader config.Loader

	// HTTPClient is used by probes, capability checks and connectivity checks.
	// When nil, each component uses its own default client.
	HTTPClient *http.Client

	CommandRunner capability.CommandRunner
	LookPath      validate.LookPathFunc
	Snapshot      SnapshotFunc
}

func defaultOptions() CmdOptions {
	return CmdOptions{
		ConfigLoader:  config.NewValidatingLoader(&config.DefaultLoader{}, config.ValidateGlobal),
		CommandRunner: &capability.ExecRunner{},
		LookPath:      exec.LookPath,
		Snapshot:      report.Snapshot,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithHTTPClient(c *http.Client) CmdOption {
	return func(o *CmdOptions) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

func WithCommandRunner(r capability.CommandRunner) CmdOption {
	return func(o *CmdOptions) error {
		if r == nil {
			return fmt.Errorf("command runner cannot be nil")
		}
		o.CommandRunner = r
		return nil
	}
}

func WithLookPath(fn validate.LookPathFunc) CmdOption {
	return func(o *CmdOptions) error {
		if fn == nil {
			return fmt.Errorf("look path function cannot be nil")
		}
		o.LookPath = fn
		return nil
	}
}

func WithSnapshot(fn SnapshotFunc) CmdOption {
	return func(o *CmdOptions) error {
		if fn == nil {
			return fmt.Errorf("snapshot function cannot be nil")
		}
		o.Snapshot = fn
		return nil
	}
}
