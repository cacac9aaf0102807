package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/mcpcheck/internal/capability"
	"github.com/mozilla-ai/mcpcheck/internal/cmd"
	cmdopts "github.com/mozilla-ai/mcpcheck/internal/cmd/options"
	"github.com/mozilla-ai/mcpcheck/internal/config"
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
	"github.com/mozilla-ai/mcpcheck/internal/flags"
	"github.com/mozilla-ai/mcpcheck/internal/printer"
	"github.com/mozilla-ai/mcpcheck/internal/probe"
	"github.com/mozilla-ai/mcpcheck/internal/report"
	"github.com/mozilla-ai/mcpcheck/internal/runner"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

const (
	flagTimeout     = "timeout"
	flagConcurrency = "concurrency"
)

// CheckCmd probes every configured server and reports on their health.
type CheckCmd struct {
	*cmd.BaseCmd
	Timeout     int
	Concurrency int
	Retries     int
	RetryDelay  time.Duration
	Format      cmd.ReportFormat
	Fast        bool
	JQ          string
	Save        bool
	ReportsDir  string
	opts        cmdopts.CmdOptions
}

// NewCheckCmd creates the command that runs the health check pipeline.
func NewCheckCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &CheckCmd{
		BaseCmd: baseCmd,
		Format:  cmd.ReportFormat{OutputFormat: cmd.FormatSummary},
		opts:    opts,
	}

	cobraCmd := &cobra.Command{
		Use:   "check",
		Short: "Probes every configured MCP server and reports on their health",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	cobraCmd.Flags().IntVar(
		&c.Timeout,
		flagTimeout,
		int(probe.DefaultTimeout()/time.Second),
		"Timeout in seconds for a single probe attempt (overrides global.timeoutMs)",
	)

	cobraCmd.Flags().IntVar(
		&c.Concurrency,
		flagConcurrency,
		runner.DefaultConcurrency(),
		"Number of servers probed at the same time (overrides global.maxConcurrentServers)",
	)

	cobraCmd.Flags().IntVar(
		&c.Retries,
		"retries",
		0,
		"Number of extra attempts after a failed probe",
	)

	cobraCmd.Flags().DurationVar(
		&c.RetryDelay,
		"retry-delay",
		probe.DefaultRetryDelay(),
		"Pause between probe attempts",
	)

	allowed := cmd.AllowedReportFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"output",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	cobraCmd.Flags().BoolVar(
		&c.Fast,
		"fast",
		false,
		"Skip capability checks",
	)

	cobraCmd.Flags().StringVar(
		&c.JQ,
		"jq",
		"",
		"Filter JSON output with a jq expression (requires --output json)",
	)

	cobraCmd.Flags().BoolVar(
		&c.Save,
		"save",
		true,
		"Write the report as JSON to the reports directory",
	)

	cobraCmd.Flags().StringVar(
		&c.ReportsDir,
		"reports-dir",
		report.DefaultDir,
		"Directory the JSON report is written to",
	)

	return cobraCmd, nil
}

func (c *CheckCmd) longDescription() string {
	return `Loads the environment and the MCP server configuration, probes every server in
groups of --concurrency, runs capability checks for healthy servers and reports the results.

The command fails when a server marked critical is unhealthy.`
}

// settings are the effective run parameters after the configuration's global section is applied.
type settings struct {
	timeout     time.Duration
	concurrency int
}

func (c *CheckCmd) settings(cobraCmd *cobra.Command, global config.GlobalConfig, logger hclog.Logger) settings {
	s := settings{
		timeout:     time.Duration(c.Timeout) * time.Second,
		concurrency: c.Concurrency,
	}

	if !cobraCmd.Flags().Changed(flagTimeout) && global.TimeoutMs != nil {
		s.timeout = time.Duration(*global.TimeoutMs) * time.Millisecond
	}

	if !cobraCmd.Flags().Changed(flagConcurrency) && global.MaxConcurrentServers != nil {
		s.concurrency = *global.MaxConcurrentServers
	}

	if global.Debug != nil && *global.Debug {
		logger.SetLevel(hclog.Debug)
	}

	return s
}

func (c *CheckCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler[report.HealthReport](cobraCmd.OutOrStdout(), c.Format.OutputFormat, c.printer(), c.JQ)
	if err != nil {
		return err
	}

	logger := c.Logger()

	env, _, err := c.LoadEnvironment()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	reqs, err := c.LoadRequirements()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	cfg, err := c.opts.ConfigLoader.Load(flags.ConfigFile)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	structural, err := validate.StructureErrors(cfg)
	if err != nil {
		return cmd.Fail(handler, err)
	}
	if len(structural) > 0 {
		logger.Warn("Configuration failed structure validation", "errors", len(structural))
		return cmd.Fail(handler, fmt.Errorf("%w: %s", mcperrors.ErrInvalidConfiguration, strings.Join(structural, "; ")))
	}

	global, err := cfg.Global()
	if err != nil {
		return cmd.Fail(handler, err)
	}

	s := c.settings(cobraCmd, global, logger)

	probeOpts := []probe.Option{
		probe.WithTimeout(s.timeout),
		probe.WithRetries(c.Retries),
		probe.WithRetryDelay(c.RetryDelay),
		probe.WithUserAgent(userAgent()),
	}
	capOpts := []capability.Option{
		capability.WithCommandRunner(c.opts.CommandRunner),
	}
	if c.opts.HTTPClient != nil {
		probeOpts = append(probeOpts, probe.WithHTTPClient(c.opts.HTTPClient))
		capOpts = append(capOpts, capability.WithHTTPClient(c.opts.HTTPClient))
	}

	prober, err := probe.NewProber(logger, env, probeOpts...)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	capabilities, err := capability.DefaultRegistry(logger, env, capOpts...)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	runOpts := []runner.Option{
		runner.WithConcurrency(s.concurrency),
		runner.WithFast(c.Fast),
	}
	if c.Format.IsText() {
		p := &progress{w: cobraCmd.ErrOrStderr()}
		runOpts = append(runOpts, runner.WithOnGroupStart(p.groupStarted), runner.WithOnResult(p.result))
	}

	r, err := runner.NewRunner(logger, prober, capabilities, reqs, runOpts...)
	if err != nil {
		return cmd.Fail(handler, err)
	}

	started := time.Now()
	results := r.Run(cobraCmd.Context(), cfg)

	rep := report.Build(results, c.opts.Snapshot(), report.RunInfo{
		ConfigPath:  cfg.Path(),
		Concurrency: s.concurrency,
		TimeoutMs:   s.timeout.Milliseconds(),
		Retries:     c.Retries,
		Fast:        c.Fast,
		Started:     started,
		Elapsed:     time.Since(started),
	})

	if c.Save {
		c.save(cobraCmd.ErrOrStderr(), logger, rep)
	}

	if err := handler.HandleResult(rep); err != nil {
		return err
	}

	if report.ExitCode(rep) != 0 {
		return fmt.Errorf("%w: %s", mcperrors.ErrCriticalServerFailed, strings.Join(rep.Summary.CriticalFailures, ", "))
	}

	return nil
}

func (c *CheckCmd) printer() *printer.HealthPrinter {
	return printer.NewHealthPrinter(c.Format.OutputFormat == cmd.FormatDetailed)
}

// save persists the report. Failing to write it never fails the check.
func (c *CheckCmd) save(w io.Writer, logger hclog.Logger, rep report.HealthReport) {
	writer, err := report.NewWriter(logger, c.ReportsDir)
	if err == nil {
		var path string
		if path, err = writer.Write(rep); err == nil {
			if c.Format.IsText() {
				printer.Line(w, printer.LevelInfo, "Report saved to %s", path)
			}
			return
		}
	}

	logger.Error("Failed to save report", "dir", c.ReportsDir, "error", err)
	printer.Line(w, printer.LevelWarning, "Failed to save report: %s", err)
}

// progress writes per-group and per-server updates while a run is in flight.
type progress struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *progress) groupStarted(group int, total int, names []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintf(p.w, "🔄 Group %d/%d: %s\n", group+1, total, strings.Join(names, ", "))
}

func (p *progress) result(res runner.ServerResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	printer.Line(
		p.w,
		printer.ProbeLevel(res.Probe.Status),
		"%s: %s (%dms)",
		res.Name,
		res.Probe.Status,
		res.Probe.DurationMs,
	)
}
