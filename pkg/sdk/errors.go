package triage

import "github.com/kailas-cloud/triage/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMalformedInput = domain.ErrMalformedInput
	ErrOverallTimeout = domain.ErrOverallTimeout
)
