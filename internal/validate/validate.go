// Package validate checks an MCP server configuration file without starting any server.
//
// Validation runs four categories in order: structure, servers, environment and connectivity.
// A structure failure is terminal and the remaining categories are reported as not run.
package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/environment"
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
	"github.com/mozilla-ai/mcpcheck/internal/schema"
)

// connectivityLimit bounds the number of concurrent connectivity checks.
const connectivityLimit = 10

// Validator validates configuration files.
type Validator struct {
	logger hclog.Logger
	env    *environment.Environment
	opts   Options
}

// NewValidator returns a Validator resolving placeholders against env.
func NewValidator(logger hclog.Logger, env *environment.Environment, opt ...Option) (*Validator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if env == nil {
		return nil, fmt.Errorf("environment cannot be nil")
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	return &Validator{
		logger: logger.Named("validate"),
		env:    env,
		opts:   opts,
	}, nil
}

// Validate checks the configuration file at path.
// Running it twice against the same file and environment yields the same result.
func (v *Validator) Validate(ctx context.Context, path string) Result {
	res := newResult(path)
	v.logger.Info("Validating configuration", "path", path)

	cfg := v.validateStructure(path, &res.Details.Structure)
	res.absorb(res.Details.Structure)
	if !res.Details.Structure.Valid {
		v.logger.Warn("Structure validation failed", "errors", len(res.Details.Structure.Errors))
		return res
	}

	v.validateServers(cfg, &res.Details.Servers)
	res.absorb(res.Details.Servers)

	v.validateEnvironment(cfg, &res.Details.Environment)
	res.absorb(res.Details.Environment)

	if !v.opts.SkipConnectivity {
		v.validateConnectivity(ctx, cfg, &res.Details.Connectivity)
		res.absorb(res.Details.Connectivity)
	}

	v.logger.Info(
		"Validation completed",
		"valid", res.Valid,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
	)

	return res
}

func (v *Validator) validateStructure(path string, cat *CategoryResult) *config.Config {
	cat.Ran = true

	cfg, err := v.opts.Loader.Load(path)
	if err != nil {
		cat.addError(err.Error())
		return nil
	}

	msgs, err := StructureErrors(cfg)
	if err != nil {
		cat.addError(err.Error())
		return nil
	}
	for _, msg := range msgs {
		cat.addError(msg)
	}

	return cfg
}

// StructureErrors checks the top-level shape of a loaded configuration against the
// MCPConfiguration schema and returns one message per violation.
func StructureErrors(cfg *config.Config) ([]string, error) {
	violations, err := schema.Validate(schema.MCPConfiguration, cfg.Document())
	if err != nil {
		return nil, err
	}

	msgs := make([]string, 0, len(violations))
	for _, violation := range violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", mcperrors.ErrSchemaViolation, violation))
	}

	return msgs, nil
}

func (v *Validator) validateServers(cfg *config.Config, cat *CategoryResult) {
	cat.Ran = true

	for _, name := range cfg.ServerNames() {
		raw, _ := cfg.RawEntry(name)
		v.validateServer(name, raw, cat)
	}
}

func (v *Validator) validateServer(name string, raw any, cat *CategoryResult) {
	fields, ok := raw.(map[string]any)
	if !ok {
		cat.addError(serverMsg(name, "entry must be an object"))
		return
	}

	command, isLocal := nonEmpty(fields[config.FieldCommand])
	serverURL, isRemote := nonEmpty(fields[config.FieldServerURL])

	if !isLocal && !isRemote {
		cat.addError(serverMsg(name, `missing required "command" or "serverUrl" property`))
		return
	}

	if isLocal && isRemote {
		cat.addWarning(serverMsg(name, `has both "command" and "serverUrl", serverUrl will be used`))
	}

	req := v.opts.Requirements.For(name)

	if isRemote {
		v.schemaErrors(name, schema.HTTPServer, fields, cat)
		if s, ok := serverURL.(string); ok {
			v.validateURL(name, s, req.EventStream, cat)
		}
	}

	if isLocal {
		v.schemaErrors(name, schema.StdioServer, fields, cat)
		if s, ok := command.(string); ok && strings.TrimSpace(s) != "" {
			v.validateCommand(name, s, fields, req.Package, cat)
		}
	}
}

func (v *Validator) schemaErrors(name string, schemaName string, fields map[string]any, cat *CategoryResult) {
	violations, err := schema.Validate(schemaName, fields)
	if err != nil {
		cat.addError(serverMsg(name, err.Error()))
		return
	}

	for _, violation := range violations {
		cat.addError(serverMsg(name, violation.String()))
	}
}

func (v *Validator) validateURL(name string, raw string, eventStream bool, cat *CategoryResult) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		cat.addError(serverMsg(name, "invalid serverUrl format"))
		return
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		cat.addError(serverMsg(name, fmt.Sprintf("serverUrl scheme must be http or https, got '%s'", u.Scheme)))
		return
	}

	if eventStream && !strings.Contains(strings.ToLower(u.Path), "sse") {
		cat.addWarning(serverMsg(name, "URL should include 'sse' for Server-Sent Events"))
	}
}

func (v *Validator) validateCommand(name string, command string, fields map[string]any, pkg string, cat *CategoryResult) {
	if args, ok := stringSlice(fields["args"]); ok && pkg != "" && len(args) > 0 {
		found := slices.ContainsFunc(args, func(arg string) bool {
			return strings.Contains(arg, pkg)
		})
		if !found {
			cat.addWarning(serverMsg(name, fmt.Sprintf("expected package '%s' in args", pkg)))
		}
	}

	if !strings.Contains(command, "/") {
		if _, err := v.opts.LookPath(command); err != nil {
			cat.addWarning(serverMsg(name, fmt.Sprintf("command '%s' may not be available in PATH", command)))
		}
	}
}

func (v *Validator) validateEnvironment(cfg *config.Config, cat *CategoryResult) {
	cat.Ran = true

	var required, optional []string
	for _, ref := range References(cfg) {
		if ref.Required {
			required = append(required, ref.Name)
		} else {
			optional = append(optional, ref.Name)
		}
	}

	missingRequired := v.missing(required)
	missingOptional := v.missing(optional)

	if len(missingRequired) > 0 {
		cat.addError(fmt.Sprintf("%s: %s", mcperrors.ErrMissingCredential, strings.Join(missingRequired, ", ")))
	}

	if len(missingOptional) > 0 {
		cat.addWarning(fmt.Sprintf("missing optional environment variables: %s", strings.Join(missingOptional, ", ")))
	}

	if (len(missingRequired) > 0 || len(missingOptional) > 0) && v.opts.EnvFile != "" {
		if info, err := os.Stat(v.opts.EnvFile); err == nil && !info.IsDir() {
			cat.addWarning(fmt.Sprintf("found %s file, but it does not set every referenced variable", v.opts.EnvFile))
		}
	}

	referenced := append(slices.Clone(required), optional...)
	for _, finding := range v.opts.Credentials.CheckEnvironment(v.env, referenced...) {
		cat.addWarning(finding.String())
	}

	v.logger.Debug("Environment validated", "required", len(required), "optional", len(optional))
}

func (v *Validator) missing(names []string) []string {
	var missing []string
	for _, name := range names {
		if v.env.Get(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func (v *Validator) validateConnectivity(ctx context.Context, cfg *config.Config, cat *CategoryResult) {
	cat.Ran = true

	names := cfg.ServerNames()
	warnings := make([]string, len(names))

	var g errgroup.Group
	g.SetLimit(connectivityLimit)

	for i, name := range names {
		entry, err := cfg.Entry(name)
		if err != nil {
			continue
		}

		g.Go(func() error {
			switch entry.Kind() {
			case config.KindRemote:
				warnings[i] = v.checkRemote(ctx, entry)
			case config.KindLocal:
				warnings[i] = v.checkLocal(entry)
			}
			return nil
		})
	}
	_ = g.Wait()

	reachable := 0
	for _, w := range warnings {
		if w == "" {
			reachable++
			continue
		}
		cat.addWarning(w)
	}

	v.logger.Debug("Connectivity checked", "reachable", reachable, "total", len(names))
}

func (v *Validator) checkRemote(ctx context.Context, entry config.ServerEntry) string {
	ctx, cancel := context.WithTimeout(ctx, v.opts.ConnectivityTimeout)
	defer cancel()

	target := v.env.Expand(entry.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return serverMsg(entry.Name, fmt.Sprintf("connectivity test failed: %s", err))
	}

	resp, err := v.opts.HTTPClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return serverMsg(entry.Name, "connection timeout")
		}
		return serverMsg(entry.Name, fmt.Sprintf("connection failed: %s", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return serverMsg(entry.Name, fmt.Sprintf("HTTP %d from %s", resp.StatusCode, target))
	}

	return ""
}

func (v *Validator) checkLocal(entry config.ServerEntry) string {
	if _, err := v.opts.LookPath(entry.Command); err != nil {
		return serverMsg(entry.Name, fmt.Sprintf("command not found: %s", entry.Command))
	}
	return ""
}

func serverMsg(name string, msg string) string {
	return fmt.Sprintf("server '%s': %s", name, msg)
}

// nonEmpty reports whether a decoded JSON value counts as set.
func nonEmpty(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case bool:
		return t, t
	default:
		return t, true
	}
}

func stringSlice(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}

	return out, true
}
