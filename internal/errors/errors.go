// Package errors defines domain-level errors used throughout the application.
// These errors represent check failures and are mapped to console output and exit codes at the CLI boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider whether it aborts a run or is isolated to a single server.
//
// Configuration errors abort the whole run, probe errors are recorded against one server,
// and capability errors are informational only.
package errors

import (
	"errors"
)

var (
	// ErrConfigNotFound indicates that the configuration file does not exist at the requested path.
	// Aborts the run.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidJSON indicates that the configuration file could not be parsed as a JSON object.
	// Aborts the run.
	ErrInvalidJSON = errors.New("invalid JSON format")

	// ErrEmptyConfig indicates that the configuration declares no servers.
	// Aborts the run.
	ErrEmptyConfig = errors.New("no MCP servers configured")

	// ErrSchemaViolation indicates that a field is missing or has the wrong type or format.
	// Structural violations abort the run, per-server violations are reported against that server.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrMissingCredential indicates that a required environment variable referenced by a placeholder is not set.
	// Reported as a validation error, never aborts probing.
	ErrMissingCredential = errors.New("missing required environment variable")

	// ErrProbeTimeout indicates that a probe did not complete before its deadline.
	// The child process is killed or the request aborted.
	ErrProbeTimeout = errors.New("probe timed out")

	// ErrProbeMissing indicates that the executable for a local server could not be found.
	// Never retried.
	ErrProbeMissing = errors.New("executable not found")

	// ErrProbeError indicates that a probe failed for any other reason:
	// a non-zero exit without help-like output, a network error or an unexpected HTTP status.
	ErrProbeError = errors.New("probe failed")

	// ErrCapabilityUnavailable indicates that an optional capability could not be confirmed.
	// Soft: this never escalates to a probe failure.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrCriticalServerFailed indicates that at least one server marked critical was unhealthy.
	// Returned by the check command so the process exits with status 1.
	ErrCriticalServerFailed = errors.New("critical server check failed")

	// ErrInvalidConfiguration indicates that validation reported at least one error.
	// Returned by the validate command so the process exits with status 1.
	ErrInvalidConfiguration = errors.New("configuration is invalid")
)
