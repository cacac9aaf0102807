// Package probe checks whether a declared server can be reached.
//
// Local servers are started with a help flag and judged by their exit code and output.
// Remote servers receive a single GET request asking for an event stream.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// sampleLimit is the maximum number of bytes of captured output kept in a Result.
const sampleLimit = 200

// Result is the outcome of probing one server.
type Result struct {
	Success    bool               `json:"success" yaml:"success"`
	Status     domain.ProbeStatus `json:"status" yaml:"status"`
	Message    string             `json:"message" yaml:"message"`
	DurationMs int64              `json:"durationMs" yaml:"durationMs"`
	Attempt    int                `json:"attempt" yaml:"attempt"`
	Target     string             `json:"target,omitempty" yaml:"target,omitempty"`

	// Local servers only.
	ExitCode *int   `json:"exitCode,omitempty" yaml:"exitCode,omitempty"`
	Stdout   string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty" yaml:"stderr,omitempty"`

	// Remote servers only.
	HTTPStatus int `json:"httpStatus,omitempty" yaml:"httpStatus,omitempty"`
}

// Err returns the domain error for a failed probe, or nil.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if err := r.Status.Err(); err != nil {
		return fmt.Errorf("%w: %s", err, r.Message)
	}
	return nil
}

// Prober probes servers using a fixed environment.
type Prober struct {
	logger hclog.Logger
	env    *environment.Environment
	opts   Options
}

// NewProber returns a Prober that resolves placeholders and child environments from env.
func NewProber(logger hclog.Logger, env *environment.Environment, opt ...Option) (*Prober, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if env == nil {
		return nil, fmt.Errorf("environment cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Prober{
		logger: logger.Named("probe"),
		env:    env,
		opts:   opts,
	}, nil
}

// Options returns the options the Prober was created with.
func (p *Prober) Options() Options {
	return p.opts
}

// Probe checks a single entry, retrying failed attempts as configured.
// Outcomes that cannot change on a retry, such as a missing executable, are returned immediately.
// DurationMs covers every attempt, Attempt records which attempt produced the Result.
func (p *Prober) Probe(ctx context.Context, entry config.ServerEntry) Result {
	logger := p.logger.With("server", entry.Name)
	start := time.Now()

	var res Result
	for attempt := 1; ; attempt++ {
		res = p.probeOnce(ctx, entry)
		res.Attempt = attempt
		res.DurationMs = time.Since(start).Milliseconds()

		if res.Success || !res.Status.Retryable() || attempt > p.opts.Retries {
			break
		}

		logger.Debug("Probe failed, retrying", "attempt", attempt, "status", res.Status, "message", res.Message)

		select {
		case <-ctx.Done():
			return res
		case <-time.After(p.opts.RetryDelay):
		}
	}

	logger.Debug("Probe finished", "status", res.Status, "attempt", res.Attempt, "durationMs", res.DurationMs)

	return res
}

func (p *Prober) probeOnce(ctx context.Context, entry config.ServerEntry) Result {
	switch entry.Kind() {
	case config.KindRemote:
		return p.probeRemote(ctx, entry)
	case config.KindLocal:
		return p.probeLocal(ctx, entry)
	default:
		return Result{
			Status:  domain.ProbeStatusError,
			Message: fmt.Sprintf("server '%s' declares neither %s nor %s", entry.Name, config.FieldCommand, config.FieldServerURL),
		}
	}
}
