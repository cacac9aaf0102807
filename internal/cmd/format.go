package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpcheck/internal/cmd/output"
)

type OutputFormat string

type OutputFormats []OutputFormat

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"

	// FormatSummary and FormatDetailed are text renderings of a health report.
	FormatSummary  OutputFormat = "summary"
	FormatDetailed OutputFormat = "detailed"
)

const jsonIndent = 2

func AllowedOutputFormats() OutputFormats {
	formats := []OutputFormat{
		FormatJSON,
		FormatText,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// AllowedReportFormats returns the formats a health report can be rendered in.
func AllowedReportFormats() OutputFormats {
	formats := []OutputFormat{
		FormatDetailed,
		FormatJSON,
		FormatSummary,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// String implements fmt.Stringer for a collection of output formats,
// converting them to a comma separated string.
func (f *OutputFormats) String() string {
	efs := *f
	out := make([]string, len(efs))
	for i := range efs {
		out[i] = efs[i].String()
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer for an output format.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) String() string {
	return strings.ToLower(string(*f))
}

// Set is used by Cobra to set the output format value from a string.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) Set(v string) error {
	return f.set(v, AllowedOutputFormats())
}

// Type is used by Cobra to get the 'type' of an output format for display purposes.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) Type() string {
	return "format"
}

// IsText reports whether the format is rendered by a text printer.
func (f OutputFormat) IsText() bool {
	return f == FormatText || f == FormatSummary || f == FormatDetailed
}

func (f *OutputFormat) set(v string, allowed OutputFormats) error {
	v = strings.ToLower(strings.TrimSpace(v))

	for _, a := range allowed {
		if string(a) == v {
			*f = OutputFormat(v)
			return nil
		}
	}

	return fmt.Errorf("invalid format '%s', must be one of %v", v, allowed.String())
}

// ReportFormat is an OutputFormat restricted to the health report formats.
type ReportFormat struct {
	OutputFormat
}

// Set implements flag.Value.
func (f *ReportFormat) Set(v string) error {
	return f.set(v, AllowedReportFormats())
}

// Type implements flag.Value.
func (f *ReportFormat) Type() string {
	return "output"
}

// FormatHandler returns the output handler for format.
// A non-empty jq filter is only supported with JSON output.
func FormatHandler[T any](
	w io.Writer,
	format OutputFormat,
	p output.Printer[T],
	jq string,
) (output.Handler[T], error) {
	if strings.TrimSpace(jq) != "" {
		if format != FormatJSON {
			return nil, fmt.Errorf("--jq can only be used with JSON output, got '%s'", format)
		}
		return output.NewJQHandler[T](w, jsonIndent, jq)
	}

	switch {
	case format == FormatJSON:
		return output.NewJSONHandler[T](w, jsonIndent), nil
	case format == FormatYAML:
		return output.NewYAMLHandler[T](w, jsonIndent), nil
	case format.IsText():
		if p == nil {
			return nil, fmt.Errorf("no printer configured for '%s' output", format)
		}
		return output.NewTextHandler[T](w, p), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}

// Fail renders err with h and returns it, so a failed command exits non-zero whatever the format.
func Fail[T any](h output.Handler[T], err error) error {
	_ = h.HandleError(err)
	return err
}
