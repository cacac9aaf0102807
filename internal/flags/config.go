package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile       = "MCPCHECK_CONFIG_FILE"
	EnvVarEnvFile          = "MCPCHECK_ENV_FILE"
	EnvVarRequirementsFile = "MCPCHECK_REQUIREMENTS_FILE"
	EnvVarLogPath          = "MCPCHECK_LOG_PATH"
	EnvVarLogLevel         = "MCPCHECK_LOG_LEVEL"

	// Defaults
	DefaultConfigFile       = ".mcp.json"
	DefaultEnvFile          = ".env"
	DefaultRequirementsFile = ".mcpcheck.toml"
	DefaultLogPath          = ""
	DefaultLogLevel         = "info"

	// Flag names
	FlagNameConfigFile       = "config-file"
	FlagNameEnvFile          = "env-file"
	FlagNameRequirementsFile = "requirements-file"
	FlagNameLogPath          = "log-path"
	FlagNameLogLevel         = "log-level"
)

var (
	ConfigFile       string
	EnvFile          string
	RequirementsFile string
	LogPath          string
	LogLevel         string
)

// InitFlags registers the global flags on fs, seeding defaults from the environment.
func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initEnvFile(fs)
	initRequirementsFile(fs)
	initLogger(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	ConfigFile = valueOrEnv(ConfigFile, EnvVarConfigFile, DefaultConfigFile)
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to the MCP server configuration file")
}

func initEnvFile(fs *pflag.FlagSet) {
	EnvFile = valueOrEnv(EnvFile, EnvVarEnvFile, DefaultEnvFile)
	fs.StringVar(&EnvFile, FlagNameEnvFile, EnvFile, "path to a KEY=VALUE file merged into the probe environment")
}

func initRequirementsFile(fs *pflag.FlagSet) {
	RequirementsFile = valueOrEnv(RequirementsFile, EnvVarRequirementsFile, DefaultRequirementsFile)
	fs.StringVar(
		&RequirementsFile,
		FlagNameRequirementsFile,
		RequirementsFile,
		"path to a TOML file overriding the built-in server requirements",
	)
}

func initLogger(fs *pflag.FlagSet) {
	LogPath = valueOrEnv(LogPath, EnvVarLogPath, DefaultLogPath)
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	LogLevel = strings.ToLower(valueOrEnv(LogLevel, EnvVarLogLevel, DefaultLogLevel))
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for mcpcheck logs")
}

// valueOrEnv keeps a value that was already set, otherwise falls back to the environment variable, then the default.
func valueOrEnv(current string, envVar string, def string) string {
	if current != "" {
		return current
	}
	if env := strings.TrimSpace(os.Getenv(envVar)); env != "" {
		return env
	}
	return def
}
