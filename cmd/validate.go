package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcheck/internal/cmd/options"
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
	"github.com/mozilla-ai/mcpcheck/internal/printer"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

// ValidateCmd checks a configuration file without starting any server.
type ValidateCmd struct {
	*cmd.BaseCmd
	SkipConnectivity    bool
	ConnectivityTimeout time.Duration
	Format              cmd.OutputFormat
	JQ                  string
	opts                cmdopts.CmdOptions
}

// NewValidateCmd creates the command that validates a configuration file.
func NewValidateCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ValidateCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validates the structure, servers, environment and connectivity of a configuration file",
		Long:  c.longDescription(),
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.SkipConnectivity,
		"skip-connectivity",
		false,
		"Skip the connectivity checks",
	)

	cobraCmd.Flags().DurationVar(
		&c.ConnectivityTimeout,
		"connectivity-timeout",
		validate.DefaultConnectivityTimeout(),
		"Timeout for each connectivity check",
	)

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

func (c *ValidateCmd) longDescription() string {
	return `Validates an MCP server configuration file. The path defaults to --config-file.

Checks run in order: structure, servers, environment and connectivity. A structure error
stops validation. Connectivity problems are reported as warnings only.`
}

func (c *ValidateCmd) run(cobraCmd *cobra.Command, args []string) error {
	handler, err := cmd.FormatHandler[validate.Result](
		cobraCmd.OutOrStdout(),
		c.Format,
		printer.NewValidationPrinter(),
		c.JQ,
	)
	if err != nil {
		return err
	}

	path := flags.ConfigFile
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		path = strings.TrimSpace(args[0])
	}

	env, _, err := c.LoadEnvironment()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	reqs, err := c.LoadRequirements()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	opts := []validate.Option{
		validate.WithLoader(c.opts.ConfigLoader),
		validate.WithLookPath(c.opts.LookPath),
		validate.WithRequirements(reqs),
		validate.WithEnvFile(flags.EnvFile),
		validate.WithSkipConnectivity(c.SkipConnectivity),
		validate.WithConnectivityTimeout(c.ConnectivityTimeout),
	}
	if c.opts.HTTPClient != nil {
		opts = append(opts, validate.WithHTTPClient(c.opts.HTTPClient))
	}

	v, err := validate.NewValidator(c.Logger(), env, opts...)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	res := v.Validate(cobraCmd.Context(), path)

	if err := handler.HandleResult(res); err != nil {
		return err
	}

	if !res.Valid {
		return fmt.Errorf("%w: %d errors", mcperrors.ErrInvalidConfiguration, len(res.Errors))
	}

	return nil
}
