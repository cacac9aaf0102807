// Package credentials applies format rules to well-known credential variables.
// Findings are advisory: a value that fails a rule may still be valid for a newer
// credential format, so callers report them as warnings only.
package credentials

import (
	"fmt"
	"maps"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpcheck/internal/environment"
	"github.com/mozilla-ai/mcpcheck/internal/files"
)

const (
	VarGitHubToken   = "GITHUB_PERSONAL_ACCESS_TOKEN"
	VarTursoURL      = "TURSO_DATABASE_URL"
	VarTursoToken    = "TURSO_AUTH_TOKEN"
	VarPrometheusURL = "PROMETHEUS_URL"
	VarKubeconfig    = "KUBECONFIG"
)

const (
	gitHubTokenPrefix = "ghp_"
	gitHubTokenLength = 40
	tursoScheme       = "libsql://"
	tursoDomain       = ".turso.io"
)

// placeholderMarkers are substrings commonly left in example credential values.
var placeholderMarkers = []string{
	"your_token_here",
	"your-auth-token-here",
	"your-database-name",
	"xxxx",
	"changeme",
	"replace_me",
	"<your",
}

// Rule checks the value of a single variable and returns a warning message, or an empty string.
type Rule func(value string, env *environment.Environment) string

// Finding is a rule violation for a variable.
type Finding struct {
	Variable string `json:"variable"`
	Message  string `json:"message"`
}

// String implements fmt.Stringer.
func (f Finding) String() string {
	return f.Message
}

// Checker holds the rules to apply, keyed by variable name.
type Checker struct {
	rules map[string]Rule
}

// NewChecker returns a Checker with the built-in rules.
func NewChecker() *Checker {
	return &Checker{
		rules: map[string]Rule{
			VarGitHubToken:   checkGitHubToken,
			VarTursoURL:      checkTursoURL,
			VarTursoToken:    checkTursoToken,
			VarPrometheusURL: checkPrometheusURL,
			VarKubeconfig:    checkKubeconfig,
		},
	}
}

// Register adds or replaces the rule for a variable.
func (c *Checker) Register(variable string, rule Rule) {
	if rule == nil {
		return
	}
	c.rules[variable] = rule
}

// Known returns the variable names that have rules, sorted.
func (c *Checker) Known() []string {
	return slices.Sorted(maps.Keys(c.rules))
}

// Check applies the rule for variable to value.
// Variables without a rule only get the generic placeholder check.
func (c *Checker) Check(variable string, value string, env *environment.Environment) []Finding {
	if value == "" {
		return nil
	}

	if rule, ok := c.rules[variable]; ok {
		if msg := rule(value, env); msg != "" {
			return []Finding{{Variable: variable, Message: msg}}
		}
		return nil
	}

	if IsPlaceholderValue(value) {
		return []Finding{{Variable: variable, Message: placeholderMessage(variable)}}
	}

	return nil
}

// CheckEnvironment applies every rule to the well-known variables that are set in env,
// followed by the generic placeholder check for each of the extra variables.
// The result is ordered by variable name and never contains the same variable twice.
func (c *Checker) CheckEnvironment(env *environment.Environment, extra ...string) []Finding {
	names := c.Known()
	for _, v := range extra {
		if !slices.Contains(names, v) {
			names = append(names, v)
		}
	}
	slices.Sort(names)

	var findings []Finding
	for _, name := range names {
		findings = append(findings, c.Check(name, env.Get(name), env)...)
	}

	return findings
}

// IsPlaceholderValue reports whether value looks like an example value that was never replaced.
func IsPlaceholderValue(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(lower, "your_") || strings.HasPrefix(lower, "your-") {
		return true
	}

	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}

func placeholderMessage(variable string) string {
	return fmt.Sprintf("%s appears to be a placeholder, update it with a real value", variable)
}

func checkGitHubToken(value string, _ *environment.Environment) string {
	switch {
	case IsPlaceholderValue(value):
		return placeholderMessage(VarGitHubToken)
	case !strings.HasPrefix(value, gitHubTokenPrefix):
		return fmt.Sprintf("%s should start with %q for personal access tokens", VarGitHubToken, gitHubTokenPrefix)
	case len(value) != gitHubTokenLength:
		return fmt.Sprintf("%s should be %d characters long", VarGitHubToken, gitHubTokenLength)
	default:
		return ""
	}
}

func checkTursoURL(value string, _ *environment.Environment) string {
	switch {
	case IsPlaceholderValue(value):
		return placeholderMessage(VarTursoURL)
	case !strings.HasPrefix(value, tursoScheme):
		return fmt.Sprintf("%s should start with %q", VarTursoURL, tursoScheme)
	case !strings.Contains(value, tursoDomain):
		return fmt.Sprintf("%s should include the %q domain", VarTursoURL, tursoDomain)
	default:
		return ""
	}
}

func checkTursoToken(value string, _ *environment.Environment) string {
	if IsPlaceholderValue(value) {
		return placeholderMessage(VarTursoToken)
	}
	return ""
}

func checkPrometheusURL(value string, _ *environment.Environment) string {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Sprintf("%s is not a valid URL", VarPrometheusURL)
	}
	return ""
}

func checkKubeconfig(value string, env *environment.Environment) string {
	path := files.ExpandHome(value, env.Get("HOME"))
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("%s file not found: %s", VarKubeconfig, path)
	}
	return ""
}
