package runner

import (
	"fmt"
)

// GroupStartFunc is called before a group of servers is probed.
// group is zero-based, total is the number of groups in the run.
type GroupStartFunc func(group int, total int, names []string)

// ResultFunc is called as soon as a server's result is known.
// It may be called concurrently for servers in the same group.
type ResultFunc func(res ServerResult)

// Options contains optional configuration for the Runner.
// NewOptions should be used to create instances of Options.
type Options struct {
	// Concurrency is the number of servers probed at the same time.
	Concurrency int

	// Fast skips capability checks.
	Fast bool

	// OnGroupStart is called before each group starts.
	OnGroupStart GroupStartFunc

	// OnResult is called for each completed server.
	OnResult ResultFunc
}

// Option defines a functional option for configuring Options.
// Options are applied in order, with later options overriding earlier ones.
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

// WithConcurrency configures how many servers are probed at the same time.
func WithConcurrency(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		o.Concurrency = n
		return nil
	}
}

// WithFast configures whether capability checks are skipped.
func WithFast(fast bool) Option {
	return func(o *Options) error {
		o.Fast = fast
		return nil
	}
}

// WithOnGroupStart configures a hook called before each group starts.
func WithOnGroupStart(fn GroupStartFunc) Option {
	return func(o *Options) error {
		o.OnGroupStart = fn
		return nil
	}
}

// WithOnResult configures a hook called for each completed server.
func WithOnResult(fn ResultFunc) Option {
	return func(o *Options) error {
		o.OnResult = fn
		return nil
	}
}

// DefaultConcurrency is the default number of servers probed at the same time.
func DefaultConcurrency() int {
	return 5
}

// defaultOptions returns Options with default values.
func defaultOptions() Options {
	return Options{
		Concurrency: DefaultConcurrency(),
	}
}
