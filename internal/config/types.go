package config

import (
	"strings"
)

var _ Loader = (*DefaultLoader)(nil)

const (
	// KindLocal is a server started as a child process (stdio transport).
	KindLocal Kind = "local"

	// KindRemote is a server reached over HTTP(S), usually as an event stream.
	KindRemote Kind = "remote"

	// KindUnknown is a server declaring neither a command nor a URL.
	KindUnknown Kind = "unknown"
)

const (
	// FieldCommand is the configuration key for a local server's executable.
	FieldCommand = "command"

	// FieldServerURL is the configuration key for a remote server's endpoint.
	FieldServerURL = "serverUrl"

	// FieldServers is the top-level configuration key holding all server entries.
	FieldServers = "mcpServers"

	// FieldGlobal is the top-level configuration key holding global settings.
	FieldGlobal = "global"

	// FieldVersion is the top-level configuration key holding the document version.
	FieldVersion = "version"
)

// Kind describes how a server is reached.
type Kind string

type Loader interface {
	Load(path string) (*Config, error)
}

type DefaultLoader struct{}

// Config represents a loaded .mcp.json document.
// The generic document is retained so that it can be validated against a schema before typed decoding.
type Config struct {
	path     string
	document map[string]any
	servers  map[string]any
}

// ServerEntry represents the configuration of a single declared MCP server.
type ServerEntry struct {
	// Name is the map key of the entry in 'mcpServers'.
	Name string `json:"-" yaml:"name"`

	// Type is the optional explicit transport hint, e.g. 'stdio' or 'http'.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Command is the executable for a local server, e.g. 'bunx'.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// Args are passed to Command, they may contain ${VAR} placeholders.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Env is merged over the process environment for the child process.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`

	// Cwd is the working directory for the child process.
	Cwd string `json:"cwd,omitempty" yaml:"cwd,omitempty"`

	// ServerURL is the endpoint for a remote server.
	ServerURL string `json:"serverUrl,omitempty" yaml:"serverUrl,omitempty"`

	// Headers are sent with every request to a remote server.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// The remaining fields are accepted configuration surface and are not used when probing.
	InitTimeoutMs    *int  `json:"initTimeoutMs,omitempty" yaml:"initTimeoutMs,omitempty"`
	AutoRestart      *bool `json:"autoRestart,omitempty" yaml:"autoRestart,omitempty"`
	MaxRestarts      *int  `json:"maxRestarts,omitempty" yaml:"maxRestarts,omitempty"`
	ConnectTimeoutMs *int  `json:"connectTimeoutMs,omitempty" yaml:"connectTimeoutMs,omitempty"`
	RequestTimeoutMs *int  `json:"requestTimeoutMs,omitempty" yaml:"requestTimeoutMs,omitempty"`
	VerifySSL        *bool `json:"verifySsl,omitempty" yaml:"verifySsl,omitempty"`
	MaxRetries       *int  `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	RetryDelayMs     *int  `json:"retryDelayMs,omitempty" yaml:"retryDelayMs,omitempty"`
}

// GlobalConfig represents the optional 'global' section of the configuration.
type GlobalConfig struct {
	TimeoutMs            *int  `json:"timeoutMs,omitempty"`
	MaxConcurrentServers *int  `json:"maxConcurrentServers,omitempty"`
	Debug                *bool `json:"debug,omitempty"`
}

// Kind derives how the server is reached. A URL takes precedence over a command.
func (e ServerEntry) Kind() Kind {
	switch {
	case e.ServerURL != "":
		return KindRemote
	case e.Command != "":
		return KindLocal
	default:
		return KindUnknown
	}
}

// HasBoth reports whether the entry declares both a command and a URL.
func (e ServerEntry) HasBoth() bool {
	return e.ServerURL != "" && e.Command != ""
}

// Target returns the URL for remote entries and the command line for local ones.
func (e ServerEntry) Target() string {
	if e.Kind() == KindRemote {
		return e.ServerURL
	}
	return strings.TrimSpace(strings.Join(append([]string{e.Command}, e.Args...), " "))
}
