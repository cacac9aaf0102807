package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
)

// Load reads and parses the configuration file at path.
// Only syntax and the presence of a non-empty 'mcpServers' object are checked here,
// schema checks are left to the validator.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", mcperrors.ErrConfigNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", mcperrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file (%s): %w", path, err)
	}

	return Parse(path, data)
}

// Parse decodes configuration content that was read from path.
func Parse(path string, data []byte) (*Config, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", mcperrors.ErrInvalidJSON, err)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", mcperrors.ErrInvalidJSON)
	}

	rawServers, ok := doc[FieldServers]
	if !ok || rawServers == nil {
		return nil, fmt.Errorf("%w: %w", mcperrors.ErrSchemaViolation, ErrMissingServers)
	}

	servers, ok := rawServers.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %w", mcperrors.ErrSchemaViolation, ErrServersNotObject)
	}

	if len(servers) == 0 {
		return nil, fmt.Errorf("%w (%s is empty)", mcperrors.ErrEmptyConfig, FieldServers)
	}

	return &Config{
		path:     path,
		document: doc,
		servers:  servers,
	}, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Document returns the generic decoded document.
func (c *Config) Document() map[string]any {
	return c.document
}

// ServerNames returns the declared server names in a stable, sorted order.
func (c *Config) ServerNames() []string {
	return slices.Sorted(maps.Keys(c.servers))
}

// RawEntry returns the undecoded entry for a server.
func (c *Config) RawEntry(name string) (any, bool) {
	v, ok := c.servers[name]
	return v, ok
}

// Entry decodes the named server entry.
func (c *Config) Entry(name string) (ServerEntry, error) {
	raw, ok := c.servers[name]
	if !ok {
		return ServerEntry{}, fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}

	var entry ServerEntry
	if err := redecode(raw, &entry); err != nil {
		return ServerEntry{}, fmt.Errorf("%w: server '%s': %w", mcperrors.ErrSchemaViolation, name, err)
	}
	entry.Name = name

	return entry, nil
}

// Global decodes the optional 'global' section, returning a zero value when it is absent.
func (c *Config) Global() (GlobalConfig, error) {
	var g GlobalConfig

	raw, ok := c.document[FieldGlobal]
	if !ok || raw == nil {
		return g, nil
	}

	if err := redecode(raw, &g); err != nil {
		return GlobalConfig{}, fmt.Errorf("%w: %s: %w", mcperrors.ErrSchemaViolation, FieldGlobal, err)
	}

	return g, nil
}

// Version returns the declared document version, or an empty string.
func (c *Config) Version() string {
	if v, ok := c.document[FieldVersion].(string); ok {
		return v
	}
	return ""
}

// ValidateGlobal is a ValidationPredicate rejecting out-of-range global settings.
func ValidateGlobal(c *Config) error {
	g, err := c.Global()
	if err != nil {
		return err
	}

	var errs []error
	if g.TimeoutMs != nil && (*g.TimeoutMs < 1000 || *g.TimeoutMs > 300000) {
		errs = append(errs, NewErrOutOfRange("global.timeoutMs", *g.TimeoutMs, 1000, 300000))
	}
	if g.MaxConcurrentServers != nil && (*g.MaxConcurrentServers < 1 || *g.MaxConcurrentServers > 50) {
		errs = append(errs, NewErrOutOfRange("global.maxConcurrentServers", *g.MaxConcurrentServers, 1, 50))
	}

	return errors.Join(errs...)
}

// redecode round-trips a generic value through JSON into a typed destination.
func redecode(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
