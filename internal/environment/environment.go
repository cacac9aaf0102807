// Package environment resolves the variables that server entries reference.
//
// An Environment is an immutable snapshot built once per run from the parent
// process environment and an optional dotenv file. It is passed explicitly to
// the validator, probes and capability checks, nothing in the pipeline reads
// the process environment on its own.
package environment

import (
	"maps"
	"os"
	"slices"
	"strings"
)

const (
	// OriginUnset means the variable is not defined.
	OriginUnset Origin = "unset"

	// OriginProcess means the variable was inherited from the parent process.
	OriginProcess Origin = "process"

	// OriginFile means the variable was loaded from the env file.
	OriginFile Origin = "file"

	// OriginOverride means the variable was supplied through With.
	OriginOverride Origin = "override"
)

// Origin describes where a resolved variable came from.
type Origin string

// Environment holds resolved variable values.
type Environment struct {
	values  map[string]string
	origins map[string]Origin
}

// New builds an Environment from parent, given as KEY=VALUE pairs such as os.Environ() returns,
// and the values read from an env file. A key declared in the file replaces the parent value.
func New(parent []string, file map[string]string) *Environment {
	e := &Environment{
		values:  make(map[string]string, len(parent)+len(file)),
		origins: make(map[string]Origin, len(parent)+len(file)),
	}

	for _, kv := range parent {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.values[k] = v
		e.origins[k] = OriginProcess
	}

	for k, v := range file {
		e.values[k] = v
		e.origins[k] = OriginFile
	}

	return e
}

// FromProcess builds an Environment from the current process environment and file values.
func FromProcess(file map[string]string) *Environment {
	return New(os.Environ(), file)
}

// Lookup returns the value of key and whether it is defined.
func (e *Environment) Lookup(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Get returns the value of key, or an empty string when it is not defined.
func (e *Environment) Get(key string) string {
	v, _ := e.Lookup(key)
	return v
}

// IsSet reports whether key is defined with a non-empty value.
func (e *Environment) IsSet(key string) bool {
	v, ok := e.Lookup(key)
	return ok && v != ""
}

// Origin reports where the value for key came from.
func (e *Environment) Origin(key string) Origin {
	if e == nil {
		return OriginUnset
	}
	if o, ok := e.origins[key]; ok {
		return o
	}
	return OriginUnset
}

// Environ returns the environment as sorted KEY=VALUE pairs, suitable for exec.Cmd.Env.
func (e *Environment) Environ() []string {
	if e == nil {
		return nil
	}

	keys := slices.Sorted(maps.Keys(e.values))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+e.values[k])
	}

	return env
}

// With returns a copy of the Environment with overrides applied on top.
func (e *Environment) With(overrides map[string]string) *Environment {
	c := &Environment{
		values:  map[string]string{},
		origins: map[string]Origin{},
	}
	if e != nil {
		c.values = maps.Clone(e.values)
		c.origins = maps.Clone(e.origins)
	}

	for k, v := range overrides {
		c.values[k] = v
		c.origins[k] = OriginOverride
	}

	return c
}
