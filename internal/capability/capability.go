// Package capability runs server-specific checks that go beyond a basic probe,
// such as whether a filesystem server's directories exist or a cluster is reachable.
//
// Checks are looked up by server name in a Registry. Their results enrich reports
// and never change whether a probe passed.
package capability

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/credentials"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// Result is the outcome of a single capability check.
type Result struct {
	Status  domain.CapabilityStatus `json:"status" yaml:"status"`
	Message string                  `json:"message" yaml:"message"`
}

// Deps holds what capability checks may use.
type Deps struct {
	Env         *environment.Environment
	Commands    CommandRunner
	HTTPClient  *http.Client
	Credentials *credentials.Checker
	Timeout     time.Duration
}

// CheckFunc checks the capabilities of one server and returns results keyed by capability name.
type CheckFunc func(ctx context.Context, entry config.ServerEntry, deps Deps) map[string]Result

// Options contains optional configuration for a Registry.
type Options struct {
	Commands    CommandRunner
	HTTPClient  *http.Client
	Credentials *credentials.Checker
	Timeout     time.Duration
}

// Option defines a functional option for configuring Options.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
func NewOptions(opts ...Option) (Options, error) {
	options := defaultOptions()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&options); err != nil {
			return Options{}, err
		}
	}

	return options, nil
}

// WithCommandRunner configures how external commands are run.
func WithCommandRunner(r CommandRunner) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("command runner cannot be nil")
		}
		o.Commands = r
		return nil
	}
}

// WithHTTPClient configures the client used by HTTP based checks.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

// WithCredentials configures the credential rules used by token checks.
func WithCredentials(c *credentials.Checker) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("credentials checker cannot be nil")
		}
		o.Credentials = c
		return nil
	}
}

// WithTimeout configures how long a single external command or request may take.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("capability timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// DefaultTimeout is the default timeout for external commands and requests.
func DefaultTimeout() time.Duration {
	return 5 * time.Second
}

func defaultOptions() Options {
	return Options{
		Commands:    &ExecRunner{},
		HTTPClient:  &http.Client{},
		Credentials: credentials.NewChecker(),
		Timeout:     DefaultTimeout(),
	}
}

// Registry maps server names to capability checks.
type Registry struct {
	logger hclog.Logger
	deps   Deps
	checks map[string]CheckFunc
}

// NewRegistry returns a Registry without any checks.
func NewRegistry(logger hclog.Logger, env *environment.Environment, opt ...Option) (*Registry, error) {
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

	return &Registry{
		logger: logger.Named("capability"),
		deps: Deps{
			Env:         env,
			Commands:    opts.Commands,
			HTTPClient:  opts.HTTPClient,
			Credentials: opts.Credentials,
			Timeout:     opts.Timeout,
		},
		checks: map[string]CheckFunc{},
	}, nil
}

// DefaultRegistry returns a Registry with the built-in checks registered.
func DefaultRegistry(logger hclog.Logger, env *environment.Environment, opt ...Option) (*Registry, error) {
	r, err := NewRegistry(logger, env, opt...)
	if err != nil {
		return nil, err
	}

	for name, fn := range builtins() {
		if err := r.Register(name, fn); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds the check for a server name, replacing any existing one.
func (r *Registry) Register(name string, fn CheckFunc) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("capability check name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("capability check for '%s' cannot be nil", name)
	}

	r.checks[name] = fn
	return nil
}

// Has reports whether a check is registered for name.
func (r *Registry) Has(name string) bool {
	_, ok := r.checks[name]
	return ok
}

// Names returns the server names with a registered check, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.checks))
}

// Check runs the check registered for the entry's name.
// Servers without a registered check yield an empty, non-nil map.
func (r *Registry) Check(ctx context.Context, entry config.ServerEntry) map[string]Result {
	fn, ok := r.checks[entry.Name]
	if !ok {
		return map[string]Result{}
	}

	results := fn(ctx, entry, r.deps)
	if results == nil {
		results = map[string]Result{}
	}

	for capName, res := range results {
		r.logger.Debug("Capability checked", "server", entry.Name, "capability", capName, "status", res.Status)
	}

	return results
}
