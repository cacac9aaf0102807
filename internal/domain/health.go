package domain

import (
	mcperrors "github.com/mozilla-ai/mcpcheck/internal/errors"
)

const (
	ProbeStatusOK      ProbeStatus = "ok"
	ProbeStatusError   ProbeStatus = "error"
	ProbeStatusTimeout ProbeStatus = "timeout"
	ProbeStatusMissing ProbeStatus = "missing"
	ProbeStatusSkipped ProbeStatus = "skipped"
)

const (
	CapabilityStatusHealthy     CapabilityStatus = "healthy"
	CapabilityStatusNeedsConfig CapabilityStatus = "needs_config"
	CapabilityStatusNeedsSetup  CapabilityStatus = "needs_setup"
	CapabilityStatusUnavailable CapabilityStatus = "unavailable"
	CapabilityStatusOptional    CapabilityStatus = "optional"
	CapabilityStatusTimeout     CapabilityStatus = "timeout"
)

// ProbeStatus represents the outcome of a single reachability probe.
type ProbeStatus string

// CapabilityStatus represents the outcome of a capability check.
type CapabilityStatus string

// OK reports whether the status counts as a successful probe.
func (s ProbeStatus) OK() bool {
	return s == ProbeStatusOK
}

// Retryable reports whether trying again could change the outcome.
func (s ProbeStatus) Retryable() bool {
	return s == ProbeStatusError || s == ProbeStatusTimeout
}

// Err maps the status to the matching domain error, or nil for a successful probe.
func (s ProbeStatus) Err() error {
	switch s {
	case ProbeStatusOK, ProbeStatusSkipped:
		return nil
	case ProbeStatusTimeout:
		return mcperrors.ErrProbeTimeout
	case ProbeStatusMissing:
		return mcperrors.ErrProbeMissing
	default:
		return mcperrors.ErrProbeError
	}
}

// Healthy reports whether the capability is fully usable.
func (s CapabilityStatus) Healthy() bool {
	return s == CapabilityStatusHealthy
}

// Err maps the status to a domain error, or nil when the capability is healthy or optional.
func (s CapabilityStatus) Err() error {
	switch s {
	case CapabilityStatusHealthy, CapabilityStatusOptional:
		return nil
	default:
		return mcperrors.ErrCapabilityUnavailable
	}
}
