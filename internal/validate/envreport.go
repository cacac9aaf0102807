package validate

import (
	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
)

// EnvStatus is the resolution state of one referenced variable.
type EnvStatus struct {
	Reference `yaml:",inline"`

	Set    bool               `json:"set" yaml:"set"`
	Origin environment.Origin `json:"origin" yaml:"origin"`
}

// EnvReport lists every variable referenced by a configuration and whether it resolves.
type EnvReport struct {
	ConfigPath      string      `json:"configPath" yaml:"configPath"`
	EnvFile         string      `json:"envFile,omitempty" yaml:"envFile,omitempty"`
	EnvFileFound    bool        `json:"envFileFound" yaml:"envFileFound"`
	Variables       []EnvStatus `json:"variables" yaml:"variables"`
	MissingRequired []string    `json:"missingRequired" yaml:"missingRequired"`
}

// OK reports whether every required variable is set.
func (r EnvReport) OK() bool {
	return len(r.MissingRequired) == 0
}

// BuildEnvReport resolves the references of cfg against env.
func BuildEnvReport(cfg *config.Config, env *environment.Environment, envFile string, envFileFound bool) EnvReport {
	r := EnvReport{
		ConfigPath:      cfg.Path(),
		EnvFile:         envFile,
		EnvFileFound:    envFileFound,
		Variables:       []EnvStatus{},
		MissingRequired: []string{},
	}

	for _, ref := range References(cfg) {
		set := env.IsSet(ref.Name)
		r.Variables = append(r.Variables, EnvStatus{
			Reference: ref,
			Set:       set,
			Origin:    env.Origin(ref.Name),
		})
		if ref.Required && !set {
			r.MissingRequired = append(r.MissingRequired, ref.Name)
		}
	}

	return r
}
