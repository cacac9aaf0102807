package config

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidValue     = errors.New("config value invalid")
	ErrMissingServers   = errors.New(`missing required "mcpServers" property`)
	ErrServersNotObject = errors.New(`"mcpServers" must be an object`)
	ErrServerNotFound   = errors.New("server not declared in configuration")
)

// NewErrOutOfRange returns an ErrInvalidValue for a numeric setting outside [lo, hi].
func NewErrOutOfRange[N int | int64](key string, value, lo, hi N) error {
	return fmt.Errorf("%w: '%s' is %d, must be between %d and %d", ErrInvalidValue, key, value, lo, hi)
}
