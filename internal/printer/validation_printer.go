package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mozilla-ai/mcpcheck/internal/cmd/output"
	"github.com/mozilla-ai/mcpcheck/internal/validate"
)

var _ output.Printer[validate.Result] = (*ValidationPrinter)(nil)

// ValidationPrinter renders a validation result as text.
type ValidationPrinter struct {
	headerFunc output.WriteFunc[validate.Result]
	footerFunc output.WriteFunc[validate.Result]
}

func NewValidationPrinter() *ValidationPrinter {
	return &ValidationPrinter{
		headerFunc: func(w io.Writer, _ int) {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintln(w, "📊 VALIDATION RESULTS")
			_, _ = fmt.Fprintln(w, separator)
		},
		footerFunc: func(w io.Writer, _ int) {
			_, _ = fmt.Fprintln(w, separator)
		},
	}
}

func (p *ValidationPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ValidationPrinter) SetHeader(fn output.WriteFunc[validate.Result]) {
	p.headerFunc = fn
}

func (p *ValidationPrinter) Item(w io.Writer, res validate.Result) error {
	_, _ = fmt.Fprintf(w, "🔍 Configuration: %s\n", res.Path)

	if res.Valid {
		Line(w, LevelSuccess, "Overall status: VALID")
	} else {
		Line(w, LevelError, "Overall status: INVALID")
	}

	if len(res.Errors) > 0 {
		_, _ = fmt.Fprintln(w)
		Line(w, LevelError, "ERRORS:")
		for i, e := range res.Errors {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, e)
		}
	}

	if len(res.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
		Line(w, LevelWarning, "WARNINGS:")
		for i, warning := range res.Warnings {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, warning)
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "📋 DETAILED RESULTS:")
	for _, c := range res.Details.Categories() {
		name := strings.ToUpper(c.Name)
		counts := fmt.Sprintf("%s, %s", plural(len(c.Result.Errors), "error"), plural(len(c.Result.Warnings), "warning"))

		switch {
		case !c.Result.Ran:
			Line(w, LevelInfo, "%s: not run", name)
		case c.Result.Valid:
			Line(w, LevelSuccess, "%s: %s", name, counts)
		default:
			Line(w, LevelError, "%s: %s", name, counts)
		}
	}

	return nil
}

func (p *ValidationPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ValidationPrinter) SetFooter(fn output.WriteFunc[validate.Result]) {
	p.footerFunc = fn
}
