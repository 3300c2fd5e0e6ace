package errors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrEntryNotFound indicates that a fund entry with the given ID does not exist.
	ErrEntryNotFound = errors.New("fund entry not found")

	// ErrValuationNotFound indicates that no valuation has been published for an
	// entry yet (no refresh cycle has succeeded since the entry was added).
	ErrValuationNotFound = errors.New("valuation not available")
)

// NAV source errors represent failures of a single refresh cycle. They are
// recovered by retrying on the next scheduled cycle; the previously published
// valuation stays visible in the meantime.
var (
	// ErrFundDetailMissing indicates that the NAV source response carried no
	// fund detail payload.
	ErrFundDetailMissing = errors.New("no fund detail in response")

	// ErrNavMissing indicates that the fund detail carried no usable
	// net-asset-value quick stat.
	ErrNavMissing = errors.New("NAV not found in fund detail")
)
