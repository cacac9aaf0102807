// Package report aggregates per-server results into a health report,
// derives the process exit code from it and persists it as JSON.
package report

import (
	"math"
	"slices"
	"time"

	"github.com/mozilla-ai/mcpcheck/internal/domain"
	"github.com/mozilla-ai/mcpcheck/internal/runner"
)

// RunInfo describes how a run was configured and how long it took.
type RunInfo struct {
	ConfigPath  string        `json:"configPath" yaml:"configPath"`
	Concurrency int           `json:"concurrency" yaml:"concurrency"`
	TimeoutMs   int64         `json:"timeoutMs" yaml:"timeoutMs"`
	Retries     int           `json:"retries" yaml:"retries"`
	Fast        bool          `json:"fast" yaml:"fast"`
	Started     time.Time     `json:"started" yaml:"started"`
	Elapsed     time.Duration `json:"-" yaml:"-"`
}

// Summary holds the aggregate counts of a run.
type Summary struct {
	Total             int      `json:"total" yaml:"total"`
	Healthy           int      `json:"healthy" yaml:"healthy"`
	Unhealthy         int      `json:"unhealthy" yaml:"unhealthy"`
	Critical          int      `json:"critical" yaml:"critical"`
	CriticalFailed    int      `json:"criticalFailed" yaml:"criticalFailed"`
	CriticalFailures  []string `json:"criticalFailures" yaml:"criticalFailures"`
	SuccessRate       float64  `json:"successRate" yaml:"successRate"`
	AvgResponseTimeMs int64    `json:"avgResponseTimeMs" yaml:"avgResponseTimeMs"`
	TotalTimeMs       int64    `json:"totalTimeMs" yaml:"totalTimeMs"`
}

// HealthReport is the persisted outcome of a run.
type HealthReport struct {
	Timestamp time.Time                      `json:"timestamp" yaml:"timestamp"`
	System    System                         `json:"system" yaml:"system"`
	Run       RunInfo                        `json:"run" yaml:"run"`
	Servers   map[string]runner.ServerResult `json:"servers" yaml:"servers"`
	Summary   Summary                        `json:"summary" yaml:"summary"`
}

// Build aggregates results into a HealthReport.
// Skipped servers count as unhealthy but are left out of the average response time.
func Build(results []runner.ServerResult, system System, run RunInfo) HealthReport {
	ts := run.Started
	if ts.IsZero() {
		ts = time.Now()
	}

	r := HealthReport{
		Timestamp: ts.UTC(),
		System:    system,
		Run:       run,
		Servers:   make(map[string]runner.ServerResult, len(results)),
		Summary: Summary{
			CriticalFailures: []string{},
			TotalTimeMs:      run.Elapsed.Milliseconds(),
		},
	}

	var totalMs int64
	var timed int64

	for _, res := range results {
		r.Servers[res.Name] = res
		r.Summary.Total++

		if res.Healthy() {
			r.Summary.Healthy++
		} else {
			r.Summary.Unhealthy++
		}

		if res.Critical {
			r.Summary.Critical++
			if !res.Healthy() {
				r.Summary.CriticalFailed++
				r.Summary.CriticalFailures = append(r.Summary.CriticalFailures, res.Name)
			}
		}

		if res.Probe.Status != domain.ProbeStatusSkipped {
			totalMs += res.Probe.DurationMs
			timed++
		}
	}

	slices.Sort(r.Summary.CriticalFailures)

	if timed > 0 {
		r.Summary.AvgResponseTimeMs = int64(math.Round(float64(totalMs) / float64(timed)))
	}

	if r.Summary.Total > 0 {
		r.Summary.SuccessRate = round2(float64(r.Summary.Healthy) * 100 / float64(r.Summary.Total))
	}

	return r
}

// ExitCode returns 1 when a critical server failed and 0 otherwise.
// Failures of non-critical servers never change the exit code.
func ExitCode(r HealthReport) int {
	if r.Summary.CriticalFailed > 0 {
		return 1
	}
	return 0
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
