// Package runner drives probes and capability checks over every declared server
// in consecutive, fixed-size groups.
//
// Servers inside a group run concurrently and a group fully settles before the next
// one starts, which bounds the number of child processes and sockets open at once.
package runner

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpcheck/internal/capability"
	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/probe"
	"github.com/mozilla-ai/mcpcheck/internal/requirements"
)

// Prober probes a single server.
type Prober interface {
	Probe(ctx context.Context, entry config.ServerEntry) probe.Result
}

// CapabilityChecker runs the capability checks for a single server.
type CapabilityChecker interface {
	Check(ctx context.Context, entry config.ServerEntry) map[string]capability.Result
}

// RequirementSource describes what is expected of a named server.
type RequirementSource interface {
	For(name string) requirements.Requirement
}

// ServerResult is everything known about one server after a run.
type ServerResult struct {
	Name         string                       `json:"name" yaml:"name"`
	Kind         config.Kind                  `json:"kind" yaml:"kind"`
	Critical     bool                         `json:"critical" yaml:"critical"`
	Description  string                       `json:"description" yaml:"description"`
	Group        int                          `json:"group" yaml:"group"`
	Probe        probe.Result                 `json:"probe" yaml:"probe"`
	Capabilities map[string]capability.Result `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	EnvCheck     requirements.EnvCheck        `json:"envCheck" yaml:"envCheck"`
}

// Healthy reports whether the server's probe succeeded.
func (r ServerResult) Healthy() bool {
	return r.Probe.Success
}

// Runner probes all servers of a configuration.
type Runner struct {
	logger       hclog.Logger
	prober       Prober
	capabilities CapabilityChecker
	requirements RequirementSource
	opts         Options
}

// NewRunner returns a Runner. capabilities may be nil, in which case no capability checks are run.
func NewRunner(
	logger hclog.Logger,
	prober Prober,
	capabilities CapabilityChecker,
	reqs RequirementSource,
	opt ...Option,
) (*Runner, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if prober == nil {
		return nil, fmt.Errorf("prober cannot be nil")
	}
	if reqs == nil {
		return nil, fmt.Errorf("requirements cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Runner{
		logger:       logger.Named("runner"),
		prober:       prober,
		capabilities: capabilities,
		requirements: reqs,
		opts:         opts,
	}, nil
}

// Groups partitions names into consecutive groups of at most size names.
func Groups(names []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	groups := make([][]string, 0, (len(names)+size-1)/size)
	for start := 0; start < len(names); start += size {
		end := min(start+size, len(names))
		groups = append(groups, names[start:end])
	}

	return groups
}

// Run probes every server in cfg and returns the results sorted by name.
// A failure of one server never prevents the others from being probed.
// When ctx is cancelled, servers in groups that have not started are reported as skipped.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) []ServerResult {
	names := cfg.ServerNames()
	groups := Groups(names, r.opts.Concurrency)
	tracker := NewTracker(names)

	r.logger.Info("Starting run", "servers", len(names), "groups", len(groups), "concurrency", r.opts.Concurrency)

	for i, group := range groups {
		if ctx.Err() != nil {
			break
		}

		if r.opts.OnGroupStart != nil {
			r.opts.OnGroupStart(i, len(groups), group)
		}

		start := time.Now()

		var g errgroup.Group
		for _, name := range group {
			g.Go(func() error {
				res := r.runOne(ctx, cfg, name, i)
				if err := tracker.Record(res); err != nil {
					return err
				}
				if r.opts.OnResult != nil {
					r.opts.OnResult(res)
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			r.logger.Error("Failed to record result", "group", i, "error", err)
		}

		r.logger.Debug("Group settled", "group", i, "servers", len(group), "duration", time.Since(start))
	}

	for _, name := range tracker.Pending() {
		res := r.skipped(cfg, name, "run cancelled before the server was probed")
		_ = tracker.Record(res)
		if r.opts.OnResult != nil {
			r.opts.OnResult(res)
		}
	}

	return tracker.List()
}

func (r *Runner) runOne(ctx context.Context, cfg *config.Config, name string, group int) ServerResult {
	req := r.requirements.For(name)
	res := ServerResult{
		Name:        name,
		Kind:        config.KindUnknown,
		Critical:    req.Critical,
		Description: req.Description,
		Group:       group,
	}

	entry, err := cfg.Entry(name)
	if err != nil {
		r.logger.Warn("Server entry could not be decoded", "server", name, "error", err)
		res.Probe = probe.Result{Status: domain.ProbeStatusError, Message: err.Error(), Attempt: 1}
		res.EnvCheck = req.CheckEnv(nil)
		return res
	}

	res.Kind = entry.Kind()
	res.EnvCheck = req.CheckEnv(entry.Env)
	res.Probe = r.prober.Probe(ctx, entry)
	if err := res.Probe.Err(); err != nil {
		r.logger.Warn("Server probe failed", "server", name, "critical", res.Critical, "error", err)
	}

	if res.Probe.Success && !r.opts.Fast && r.capabilities != nil {
		res.Capabilities = r.capabilities.Check(ctx, entry)
		for _, capName := range slices.Sorted(maps.Keys(res.Capabilities)) {
			c := res.Capabilities[capName]
			if err := c.Status.Err(); err != nil {
				r.logger.Info("Capability not ready", "server", name, "capability", capName, "error", fmt.Errorf("%w: %s", err, c.Message))
			}
		}
	}

	return res
}

func (r *Runner) skipped(cfg *config.Config, name string, reason string) ServerResult {
	req := r.requirements.For(name)
	res := ServerResult{
		Name:        name,
		Kind:        config.KindUnknown,
		Critical:    req.Critical,
		Description: req.Description,
		Group:       -1,
		Probe:       probe.Result{Status: domain.ProbeStatusSkipped, Message: reason},
	}

	if entry, err := cfg.Entry(name); err == nil {
		res.Kind = entry.Kind()
		res.EnvCheck = req.CheckEnv(entry.Env)
		res.Probe.Target = entry.Target()
	}

	return res
}
