package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mozilla-ai/mcpcheck/internal/cmd/output"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

var _ output.Printer[validate.EnvReport] = (*EnvPrinter)(nil)

// EnvPrinter renders the referenced environment variables of a configuration.
type EnvPrinter struct {
	headerFunc output.WriteFunc[validate.EnvReport]
	footerFunc output.WriteFunc[validate.EnvReport]
}

func NewEnvPrinter() *EnvPrinter {
	return &EnvPrinter{
		headerFunc: func(w io.Writer, _ int) {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintln(w, "🔐 ENVIRONMENT VARIABLES")
			_, _ = fmt.Fprintln(w, separator)
		},
	}
}

func (p *EnvPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *EnvPrinter) SetHeader(fn output.WriteFunc[validate.EnvReport]) {
	p.headerFunc = fn
}

func (p *EnvPrinter) Item(w io.Writer, r validate.EnvReport) error {
	_, _ = fmt.Fprintf(w, "🔍 Configuration: %s\n", r.ConfigPath)
	if r.EnvFile != "" {
		if r.EnvFileFound {
			_, _ = fmt.Fprintf(w, "📄 Env file: %s\n", r.EnvFile)
		} else {
			_, _ = fmt.Fprintf(w, "📄 Env file: %s (not found)\n", r.EnvFile)
		}
	}

	if len(r.Variables) == 0 {
		_, _ = fmt.Fprintln(w)
		Line(w, LevelInfo, "No environment variables referenced")
		return nil
	}

	var required, optional []validate.EnvStatus
	for _, v := range r.Variables {
		if v.Required {
			required = append(required, v)
		} else {
			optional = append(optional, v)
		}
	}

	if len(required) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Required:")
		for _, v := range required {
			level := LevelSuccess
			state := string(v.Origin)
			if !v.Set {
				level = LevelError
				state = "missing"
			}
			_, _ = fmt.Fprintf(w, "  %s %s (%s) used by %s\n", level.Icon(), v.Name, state, strings.Join(v.Servers, ", "))
		}
	}

	if len(optional) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Optional:")
		for _, v := range optional {
			level := LevelSuccess
			state := string(v.Origin)
			if !v.Set {
				level = LevelInfo
				state = fmt.Sprintf("default %q", v.Default)
			}
			_, _ = fmt.Fprintf(w, "  %s %s (%s) used by %s\n", level.Icon(), v.Name, state, strings.Join(v.Servers, ", "))
		}
	}

	_, _ = fmt.Fprintln(w)
	if r.OK() {
		Line(w, LevelSuccess, "All required variables are set")
	} else {
		Line(w, LevelError, "Missing required variables: %s", strings.Join(r.MissingRequired, ", "))
	}

	return nil
}

func (p *EnvPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *EnvPrinter) SetFooter(fn output.WriteFunc[validate.EnvReport]) {
	p.footerFunc = fn
}
