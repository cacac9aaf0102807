package requirements

import (
	"fmt"

	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// EnvCheck reports which of a requirement's variables an entry configures.
type EnvCheck struct {
	Configured []string `json:"configured" yaml:"configured"`
	Missing    []string `json:"missing" yaml:"missing"`
	Notes      []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// OK reports whether every required variable is configured.
func (c EnvCheck) OK() bool {
	return len(c.Missing) == 0
}

// CheckEnv compares the requirement's variables with the 'env' block of an entry.
func (r Requirement) CheckEnv(entryEnv map[string]string) EnvCheck {
	check := EnvCheck{
		Configured: []string{},
		Missing:    []string{},
	}

	for _, name := range r.EnvVars {
		value, ok := entryEnv[name]
		if !ok || value == "" {
			check.Missing = append(check.Missing, name)
			continue
		}

		check.Configured = append(check.Configured, name)

		placeholders := environment.ParsePlaceholders(value)
		if len(placeholders) == 0 {
			continue
		}

		optional := true
		for _, p := range placeholders {
			optional = optional && p.HasDefault
		}

		if optional {
			check.Notes = append(check.Notes, fmt.Sprintf("%s: optional (has default fallback)", name))
		} else {
			check.Notes = append(check.Notes, fmt.Sprintf("%s: uses environment substitution", name))
		}
	}

	return check
}
