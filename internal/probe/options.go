package probe

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Options contains optional configuration for the Prober.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Timeout bounds a single probe attempt.
	Timeout time.Duration

	// Retries is the number of extra attempts after a failed probe.
	Retries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration

	// UserAgent is sent with every HTTP probe.
	UserAgent string

	// HelpFlag is appended to the arguments of local commands.
	HelpFlag string

	// HTTPClient is used for remote probes, its own timeout is ignored in favour of Timeout.
	HTTPClient *http.Client
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
type Option func(*Options) error

// NewOptions creates Options with optional configurations applied.
// Starts with default values, then applies options in order with later options overriding earlier ones.
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

// WithTimeout configures the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) error {
		if timeout <= 0 {
			return fmt.Errorf("probe timeout must be positive, got %v", timeout)
		}
		o.Timeout = timeout
		return nil
	}
}

// WithRetries configures how many times a failed probe is retried.
func WithRetries(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("retries cannot be negative, got %d", n)
		}
		o.Retries = n
		return nil
	}
}

// WithRetryDelay configures the pause between attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *Options) error {
		if delay < 0 {
			return fmt.Errorf("retry delay cannot be negative, got %v", delay)
		}
		o.RetryDelay = delay
		return nil
	}
}

// WithUserAgent configures the User-Agent header for HTTP probes.
func WithUserAgent(ua string) Option {
	return func(o *Options) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		o.UserAgent = ua
		return nil
	}
}

// WithHelpFlag configures the flag appended to local commands.
func WithHelpFlag(flag string) Option {
	return func(o *Options) error {
		o.HelpFlag = strings.TrimSpace(flag)
		return nil
	}
}

// WithHTTPClient configures the client used for remote probes.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) error {
		if client == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		o.HTTPClient = client
		return nil
	}
}

// DefaultTimeout is the default per-attempt probe timeout.
func DefaultTimeout() time.Duration {
	return 10 * time.Second
}

// DefaultRetryDelay is the default pause between attempts.
func DefaultRetryDelay() time.Duration {
	return 1 * time.Second
}

// DefaultUserAgent is the default User-Agent for HTTP probes.
func DefaultUserAgent() string {
	return "mcpcheck"
}

// DefaultHelpFlag is the default flag appended to local commands.
func DefaultHelpFlag() string {
	return "--help"
}

// defaultHTTPClient returns a client that reports redirects instead of following them.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		Timeout:    DefaultTimeout(),
		Retries:    0,
		RetryDelay: DefaultRetryDelay(),
		UserAgent:  DefaultUserAgent(),
		HelpFlag:   DefaultHelpFlag(),
		HTTPClient: defaultHTTPClient(),
	}
}
