package config

import (
	"errors"
	"fmt"
)

// ValidationPredicate evaluates a loaded Config and returns an error if invalid.
type ValidationPredicate func(*Config) error

// validatingLoader runs extra checks over every Config its Loader produces.
type validatingLoader struct {
	Loader
	predicates []ValidationPredicate
}

// NewValidatingLoader returns a Loader rejecting configurations that fail any predicate.
// Nil predicates are ignored.
func NewValidatingLoader(inner Loader, predicates ...ValidationPredicate) Loader {
	return &validatingLoader{
		Loader:     inner,
		predicates: predicates,
	}
}

// Load loads path and runs every predicate, reporting all failures together.
func (l *validatingLoader) Load(path string) (*Config, error) {
	cfg, err := l.Loader.Load(path)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, predicate := range l.predicates {
		if predicate == nil {
			continue
		}
		if err := predicate(cfg); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration '%s': %w", cfg.Path(), err)
	}

	return cfg, nil
}
