package validate

import (
	"fmt"
	"net/http"
	"os/exec"
	"time"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/credentials"
	"github.com/mozilla-ai/mcpcheck/internal/requirements"
)

// LookPathFunc resolves a command name to an executable path.
type LookPathFunc func(file string) (string, error)

// RequirementSource describes what is expected of a named server.
type RequirementSource interface {
	For(name string) requirements.Requirement
}

// Options contains optional configuration for the Validator.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Loader reads the configuration file.
	Loader config.Loader

	// LookPath is used for best-effort command resolution.
	LookPath LookPathFunc

	// HTTPClient is used for connectivity checks of remote servers.
	HTTPClient *http.Client

	// ConnectivityTimeout bounds each connectivity check.
	ConnectivityTimeout time.Duration

	// SkipConnectivity disables the connectivity category.
	SkipConnectivity bool

	// Requirements supplies expected packages and event-stream flags.
	Requirements RequirementSource

	// Credentials applies format rules to well-known variables.
	Credentials *credentials.Checker

	// EnvFile is the path checked for the env file hint, empty disables the hint.
	EnvFile string
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

// WithLoader configures the configuration loader.
func WithLoader(l config.Loader) Option {
	return func(o *Options) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		o.Loader = l
		return nil
	}
}

// WithLookPath configures command resolution.
func WithLookPath(fn LookPathFunc) Option {
	return func(o *Options) error {
		if fn == nil {
			return fmt.Errorf("look path function cannot be nil")
		}
		o.LookPath = fn
		return nil
	}
}

// WithHTTPClient configures the client used for connectivity checks.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.HTTPClient = c
		return nil
	}
}

// WithConnectivityTimeout configures the timeout of each connectivity check.
func WithConnectivityTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("connectivity timeout must be positive, got %s", timeout)
		}
		o.ConnectivityTimeout = timeout
		return nil
	}
}

// WithSkipConnectivity configures whether the connectivity category is skipped.
func WithSkipConnectivity(skip bool) Option {
	return func(o *Options) error {
		o.SkipConnectivity = skip
		return nil
	}
}

// WithRequirements configures the source of per-server expectations.
func WithRequirements(r RequirementSource) Option {
	return func(o *Options) error {
		if r == nil {
			return fmt.Errorf("requirements cannot be nil")
		}
		o.Requirements = r
		return nil
	}
}

// WithCredentials configures the credential format rules.
func WithCredentials(c *credentials.Checker) Option {
	return func(o *Options) error {
		if c == nil {
			return fmt.Errorf("credentials checker cannot be nil")
		}
		o.Credentials = c
		return nil
	}
}

// WithEnvFile configures the env file path used for the missing variables hint.
func WithEnvFile(path string) Option {
	return func(o *Options) error {
		o.EnvFile = path
		return nil
	}
}

// DefaultConnectivityTimeout is the default timeout for each connectivity check.
func DefaultConnectivityTimeout() time.Duration {
	return 10 * time.Second
}

func defaultOptions() Options {
	return Options{
		Loader:              &config.DefaultLoader{},
		LookPath:            exec.LookPath,
		HTTPClient:          &http.Client{CheckRedirect: noRedirect},
		ConnectivityTimeout: DefaultConnectivityTimeout(),
		Requirements:        requirements.Defaults(),
		Credentials:         credentials.NewChecker(),
	}
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
