package validate

import (
	"maps"
	"slices"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// Reference is an environment variable named by a placeholder in the 'env' block of one or more servers.
// A variable used both with and without a default yields two references.
type Reference struct {
	Name     string   `json:"name" yaml:"name"`
	Required bool     `json:"required" yaml:"required"`
	Default  string   `json:"default,omitempty" yaml:"default,omitempty"`
	Servers  []string `json:"servers" yaml:"servers"`
}

// refKey identifies a Reference by variable name and whether it carries a default.
type refKey struct {
	name     string
	required bool
}

// References collects the placeholder variables of every server's 'env' values.
// Servers and keys are visited in sorted order and references keep the order they were first seen in.
func References(cfg *config.Config) []Reference {
	var refs []Reference
	index := map[refKey]int{}

	for _, name := range cfg.ServerNames() {
		raw, _ := cfg.RawEntry(name)
		fields, _ := raw.(map[string]any)
		env, _ := fields["env"].(map[string]any)

		for _, key := range slices.Sorted(maps.Keys(env)) {
			value, ok := env[key].(string)
			if !ok {
				continue
			}

			for _, p := range environment.ParsePlaceholders(value) {
				k := refKey{name: p.Name, required: p.Required()}
				i, seen := index[k]
				if !seen {
					i = len(refs)
					index[k] = i
					refs = append(refs, Reference{Name: p.Name, Required: p.Required(), Default: p.Default})
				}
				if !slices.Contains(refs[i].Servers, name) {
					refs[i].Servers = append(refs[i].Servers, name)
				}
			}
		}
	}

	return refs
}
