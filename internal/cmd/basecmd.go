package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcheck/internal/environment"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
	"github.com/mozilla-ai/mcpcheck/internal/perms"
	"github.com/mozilla-ai/mcpcheck/internal/requirements"
)

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command
func (c *BaseCmd) Logger() hclog.Logger {
	if c.logger != nil {
		return c.logger
	}

	// Get log level from flags first, then environment, then default
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(os.Getenv(flags.EnvVarLogLevel))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Failed to open log file (%s): %v, logging disabled\n", logPath, err)
		} else {
			output = f
		}
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "mcpcheck",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger
}

// LoadEnvironment builds the run environment from the process environment and the env file.
// The returned bool reports whether the env file was found.
func (c *BaseCmd) LoadEnvironment() (*environment.Environment, bool, error) {
	values, found, err := environment.LoadFile(flags.EnvFile)
	if err != nil {
		return nil, false, err
	}

	c.Logger().Debug("Environment loaded", "envFile", flags.EnvFile, "found", found, "fileValues", len(values))

	return environment.FromProcess(values), found, nil
}

// LoadRequirements returns the built-in server requirements with the requirements file applied.
func (c *BaseCmd) LoadRequirements() (*requirements.Registry, error) {
	reqs, err := requirements.Load(flags.RequirementsFile)
	if err != nil {
		return nil, err
	}

	c.Logger().Debug("Requirements loaded", "path", flags.RequirementsFile, "servers", len(reqs.Names()))

	return reqs, nil
}
