package environment

import (
	"regexp"
	"strings"
)

// placeholderPattern matches ${NAME} and ${NAME:-default}.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// defaultSeparator separates a variable name from its default value inside a placeholder.
const defaultSeparator = ":-"

// Placeholder is a variable reference found inside a configuration string.
type Placeholder struct {
	Name       string `json:"name"`
	Default    string `json:"default,omitempty"`
	HasDefault bool   `json:"hasDefault"`
}

// Required reports whether the placeholder must be resolved from the environment.
func (p Placeholder) Required() bool {
	return !p.HasDefault
}

// ParsePlaceholders returns every placeholder in s, in order of appearance.
func ParsePlaceholders(s string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	placeholders := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		placeholders = append(placeholders, parsePlaceholder(m[1]))
	}

	return placeholders
}

func parsePlaceholder(body string) Placeholder {
	name, def, found := strings.Cut(body, defaultSeparator)
	return Placeholder{
		Name:       strings.TrimSpace(name),
		Default:    def,
		HasDefault: found,
	}
}

// Expand replaces placeholders in s with values from the environment.
// A placeholder whose variable is unset or empty falls back to its default.
// An unset placeholder without a default is left verbatim.
func (e *Environment) Expand(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		p := parsePlaceholder(match[2 : len(match)-1])

		if v, ok := e.Lookup(p.Name); ok && (v != "" || !p.HasDefault) {
			return v
		}

		if p.HasDefault {
			return p.Default
		}

		return match
	})
}

// ExpandAll expands every element of values, returning a new slice.
func (e *Environment) ExpandAll(values []string) []string {
	if values == nil {
		return nil
	}

	expanded := make([]string, len(values))
	for i, v := range values {
		expanded[i] = e.Expand(v)
	}

	return expanded
}

// ExpandMap expands every value of m, returning a new map.
func (e *Environment) ExpandMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}

	expanded := make(map[string]string, len(m))
	for k, v := range m {
		expanded[k] = e.Expand(v)
	}

	return expanded
}
