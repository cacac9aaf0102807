package printer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mozilla-ai/mcpcheck/internal/cmd/output"
	"github.com/mozilla-ai/mcpcheck/internal/report"
	"github.com/mozilla-ai/mcpcheck/internal/runner"
)

var _ output.Printer[report.HealthReport] = (*HealthPrinter)(nil)

// HealthPrinter renders a health report as text.
// The summary view shows aggregate figures only, the detailed view adds a block per server.
type HealthPrinter struct {
	detailed   bool
	headerFunc output.WriteFunc[report.HealthReport]
	footerFunc output.WriteFunc[report.HealthReport]
}

func NewHealthPrinter(detailed bool) *HealthPrinter {
	return &HealthPrinter{
		detailed: detailed,
		headerFunc: func(w io.Writer, _ int) {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintln(w, "📊 MCP SERVER HEALTH REPORT")
			_, _ = fmt.Fprintln(w, separator)
		},
		footerFunc: func(w io.Writer, _ int) {
			_, _ = fmt.Fprintln(w, separator)
		},
	}
}

func (p *HealthPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *HealthPrinter) SetHeader(fn output.WriteFunc[report.HealthReport]) {
	p.headerFunc = fn
}

func (p *HealthPrinter) Item(w io.Writer, r report.HealthReport) error {
	p.printSystem(w, r.System)
	_, _ = fmt.Fprintln(w)

	s := r.Summary
	level := LevelSuccess
	switch {
	case s.CriticalFailed > 0:
		level = LevelError
	case s.Unhealthy > 0:
		level = LevelWarning
	}

	Line(w, level, "Healthy servers: %d/%d (%.2f%%)", s.Healthy, s.Total, s.SuccessRate)
	_, _ = fmt.Fprintf(w, "⏱️  Average response time: %dms\n", s.AvgResponseTimeMs)
	_, _ = fmt.Fprintf(w, "⏱️  Total time: %s\n", (time.Duration(s.TotalTimeMs) * time.Millisecond).String())

	if s.Critical > 0 {
		_, _ = fmt.Fprintf(w, "🔑 Critical servers: %d (%d failed)\n", s.Critical, s.CriticalFailed)
	}

	if len(s.CriticalFailures) > 0 {
		Line(w, LevelError, "Critical failures: %s", strings.Join(s.CriticalFailures, ", "))
	}

	if !p.detailed {
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(r.Servers)) {
		_, _ = fmt.Fprintln(w)
		p.printServer(w, r.Servers[name])
	}

	return nil
}

func (p *HealthPrinter) printSystem(w io.Writer, sys report.System) {
	_, _ = fmt.Fprintf(w, "🖥️  System: %s/%s, %d CPUs, %s\n", sys.Platform, sys.Arch, sys.CPUs, sys.GoVersion)
	if sys.Memory.TotalGB > 0 {
		_, _ = fmt.Fprintf(
			w,
			"💾 Memory: %.2fGB used of %.2fGB (%.2fGB free)\n",
			sys.Memory.UsedGB,
			sys.Memory.TotalGB,
			sys.Memory.FreeGB,
		)
	}
	if sys.UptimeMinutes > 0 {
		_, _ = fmt.Fprintf(w, "⏳ Uptime: %d minutes\n", sys.UptimeMinutes)
	}
}

func (p *HealthPrinter) printServer(w io.Writer, res runner.ServerResult) {
	title := res.Name
	if res.Critical {
		title += " [critical]"
	}
	Line(w, ProbeLevel(res.Probe.Status), "%s (%s)", title, res.Kind)

	if res.Description != "" {
		_, _ = fmt.Fprintf(w, "  📝 %s\n", res.Description)
	}
	if res.Probe.Target != "" {
		_, _ = fmt.Fprintf(w, "  🎯 Target: %s\n", res.Probe.Target)
	}
	_, _ = fmt.Fprintf(
		w,
		"  Status: %s, %dms, attempt %d\n",
		res.Probe.Status,
		res.Probe.DurationMs,
		res.Probe.Attempt,
	)
	if res.Probe.Message != "" {
		_, _ = fmt.Fprintf(w, "  Message: %s\n", res.Probe.Message)
	}

	if len(res.Capabilities) > 0 {
		_, _ = fmt.Fprintln(w, "  Capabilities:")
		for _, name := range slices.Sorted(maps.Keys(res.Capabilities)) {
			c := res.Capabilities[name]
			_, _ = fmt.Fprintf(w, "    %s %s: %s (%s)\n", CapabilityLevel(c.Status).Icon(), name, c.Status, c.Message)
		}
	}

	env := res.EnvCheck
	if len(env.Configured) > 0 || len(env.Missing) > 0 {
		_, _ = fmt.Fprintln(w, "  Environment:")
		for _, name := range env.Configured {
			_, _ = fmt.Fprintf(w, "    %s %s\n", LevelSuccess.Icon(), name)
		}
		for _, name := range env.Missing {
			_, _ = fmt.Fprintf(w, "    %s %s (missing)\n", LevelError.Icon(), name)
		}
		for _, note := range env.Notes {
			_, _ = fmt.Fprintf(w, "    %s %s\n", LevelInfo.Icon(), note)
		}
	}
}

func (p *HealthPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *HealthPrinter) SetFooter(fn output.WriteFunc[report.HealthReport]) {
	p.footerFunc = fn
}
