package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcheck/internal/cmd/options"
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
	"github.com/mozilla-ai/mcpcheck/internal/printer"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

// EnvCmd lists the environment variables a configuration references.
type EnvCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
	JQ     string
	opts   cmdopts.CmdOptions
}

// NewEnvCmd creates the command that reports on referenced environment variables.
func NewEnvCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &EnvCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "env",
		Short: "Lists the environment variables referenced by the configuration and whether they are set",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	cobraCmd.Flags().StringVar(
		&c.JQ,
		"jq",
		"",
		"Filter JSON output with a jq expression (requires --format json)",
	)

	return cobraCmd, nil
}

func (c *EnvCmd) longDescription() string {
	return `Lists every ${NAME} and ${NAME:-default} placeholder used in the 'env' blocks of the
configured servers, where its value comes from and which servers use it.

The command fails when a required variable (one without a default) is not set.`
}

func (c *EnvCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler[validate.EnvReport](
		cobraCmd.OutOrStdout(),
		c.Format,
		printer.NewEnvPrinter(),
		c.JQ,
	)
	if err != nil {
		return err
	}

	env, found, err := c.LoadEnvironment()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	cfg, err := c.opts.ConfigLoader.Load(flags.ConfigFile)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	r := validate.BuildEnvReport(cfg, env, flags.EnvFile, found)
	c.Logger().Debug("Environment report built", "variables", len(r.Variables), "missing", len(r.MissingRequired))

	if err := handler.HandleResult(r); err != nil {
		return err
	}

	if !r.OK() {
		return fmt.Errorf("%w: %s", mcperrors.ErrMissingCredential, strings.Join(r.MissingRequired, ", "))
	}

	return nil
}
