// Package schema validates documents against the JSON schemas embedded in the binary.
//
// Schemas are compiled on first use and cached by name for the lifetime of the process.
package schema

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// MCPConfiguration describes the top-level configuration envelope.
	MCPConfiguration = "MCPConfiguration"

	// StdioServer describes a server started as a local command.
	StdioServer = "StdioServer"

	// HTTPServer describes a server reached over HTTP(S).
	HTTPServer = "HttpServer"
)

const schemaDir = "schemas"

// ErrUnknownSchema is returned when no embedded schema exists for a name.
var ErrUnknownSchema = errors.New("unknown schema")

//go:embed schemas/*.json
var schemaFS embed.FS

// Violation is a single schema validation failure.
type Violation struct {
	// Field is the dotted path to the failing value, '(root)' for the document itself.
	Field string `json:"field"`

	// Description explains the failure.
	Description string `json:"description"`
}

// String implements fmt.Stringer.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Description)
}

// Cache compiles schemas lazily and keeps them.
type Cache struct {
	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{compiled: map[string]*gojsonschema.Schema{}}
}

var defaultCache = NewCache()

// Validate checks document against the named schema using the process-wide cache.
func Validate(name string, document any) ([]Violation, error) {
	return defaultCache.Validate(name, document)
}

// Names returns the names of all embedded schemas, sorted.
func Names() []string {
	entries, err := fs.ReadDir(schemaFS, schemaDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)

	return names
}

// Source returns the raw JSON of the named schema.
func Source(name string) ([]byte, error) {
	data, err := schemaFS.ReadFile(path.Join(schemaDir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return data, nil
}

// Get returns the compiled schema for name, compiling it on first use.
func (c *Cache) Get(name string) (*gojsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.compiled[name]; ok {
		return s, nil
	}

	data, err := Source(name)
	if err != nil {
		return nil, err
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema '%s': %w", name, err)
	}
	c.compiled[name] = s

	return s, nil
}

// Len returns the number of compiled schemas held by the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.compiled)
}

// Validate checks document against the named schema.
// An empty slice means the document is valid, the error is reserved for schema or document loading failures.
func (c *Cache) Validate(name string, document any) ([]Violation, error) {
	s, err := c.Get(name)
	if err != nil {
		return nil, err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to validate against schema '%s': %w", name, err)
	}

	if result.Valid() {
		return []Violation{}, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, Violation{
			Field:       re.Field(),
			Description: re.Description(),
		})
	}

	return violations, nil
}
