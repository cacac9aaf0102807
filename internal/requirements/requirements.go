// Package requirements describes what the checker expects of each well-known server:
// whether it is critical, which credentials it needs, which package it should run
// and whether it is reached as an event stream.
package requirements

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrLoadFailed is returned when the requirements file exists but cannot be decoded.
var ErrLoadFailed = errors.New("failed to load requirements")

// unknownDescription is used for servers without a requirement.
const unknownDescription = "Unknown"

// Requirement captures expectations about a named server.
type Requirement struct {
	Name string `json:"name" toml:"-" yaml:"name"`

	// Description is shown in reports.
	Description string `json:"description" toml:"description" yaml:"description"`

	// Critical servers decide the exit status of a health check.
	Critical bool `json:"critical" toml:"critical" yaml:"critical"`

	// EnvVars are the variables the server needs in its 'env' block.
	EnvVars []string `json:"envVars,omitempty" toml:"env_vars,omitempty" yaml:"env_vars,omitempty"`

	// Package is expected to appear in one of a local server's args.
	Package string `json:"package,omitempty" toml:"package,omitempty" yaml:"package,omitempty"`

	// EventStream servers should expose an SSE endpoint.
	EventStream bool `json:"eventStream,omitempty" toml:"event_stream,omitempty" yaml:"event_stream,omitempty"`
}

// Registry holds requirements keyed by server name.
type Registry struct {
	entries map[string]Requirement
}

// override is the on-disk form of a requirement, unset fields keep their built-in value.
type override struct {
	Description *string   `toml:"description"`
	Critical    *bool     `toml:"critical"`
	EnvVars     *[]string `toml:"env_vars"`
	Package     *string   `toml:"package"`
	EventStream *bool     `toml:"event_stream"`
}

type file struct {
	Servers map[string]override `toml:"servers"`
}

// Defaults returns a Registry populated with the built-in requirements.
func Defaults() *Registry {
	r := &Registry{entries: make(map[string]Requirement, len(builtin))}
	for _, req := range builtin {
		r.entries[req.Name] = req
	}
	return r
}

// Load returns the built-in requirements with overrides from the TOML file at path applied.
// A missing file yields the built-ins unchanged.
func Load(path string) (*Registry, error) {
	r := Defaults()

	path = strings.TrimSpace(path)
	if path == "" {
		return r, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("%w: failed to stat requirements file (%s): %w", ErrLoadFailed, path, err)
	}

	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("%w: failed to decode requirements from file (%s): %w", ErrLoadFailed, path, err)
	}

	for name, o := range f.Servers {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: server name cannot be empty (%s)", ErrLoadFailed, path)
		}
		r.apply(name, o)
	}

	return r, nil
}

func (r *Registry) apply(name string, o override) {
	req, ok := r.entries[name]
	if !ok {
		req = Requirement{Name: name}
	}

	if o.Description != nil {
		req.Description = *o.Description
	}
	if o.Critical != nil {
		req.Critical = *o.Critical
	}
	if o.EnvVars != nil {
		req.EnvVars = slices.Clone(*o.EnvVars)
	}
	if o.Package != nil {
		req.Package = *o.Package
	}
	if o.EventStream != nil {
		req.EventStream = *o.EventStream
	}

	r.entries[name] = req
}

// Get returns the requirement for name, if one exists.
func (r *Registry) Get(name string) (Requirement, bool) {
	req, ok := r.entries[name]
	if !ok {
		return Requirement{}, false
	}
	req.EnvVars = slices.Clone(req.EnvVars)
	return req, true
}

// For returns the requirement for name, or a non-critical placeholder for unknown servers.
func (r *Registry) For(name string) Requirement {
	if req, ok := r.Get(name); ok {
		return req
	}
	return Requirement{Name: name, Description: unknownDescription}
}

// Names returns all names with a requirement, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}
