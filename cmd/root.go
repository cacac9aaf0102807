package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcheck/internal/cmd/options"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type RootCmd struct {
	*cmd.BaseCmd
}

// Execute runs the root command. Interrupts cancel the run, servers that were not probed yet are reported as skipped.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, err := NewRootCmd(&cmd.BaseCmd{})
	if err != nil {
		return err
	}

	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates the root command. Without a sub-command it behaves like 'check'.
func NewRootCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	checkCmd, err := NewCheckCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:          "mcpcheck [command]",
		Short:        "'mcpcheck' validates MCP server configurations and checks that every declared server is reachable.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      version,
		Args:         cobra.NoArgs,
		RunE:         checkCmd.RunE,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	// Running without a sub-command accepts the same flags as 'check'.
	rootCmd.Flags().AddFlagSet(checkCmd.Flags())

	validateCmd, err := NewValidateCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	envCmd, err := NewEnvCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}

	rootCmd.AddCommand(checkCmd, validateCmd, envCmd)

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'mcpcheck' CLI loads an MCP server configuration (.mcp.json), validates it,
probes every declared server in bounded concurrent groups and writes a health report.

Running 'mcpcheck' without a command is the same as running 'mcpcheck check'.`
}

func userAgent() string {
	return "mcpcheck/" + version
}
