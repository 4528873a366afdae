/*
errors.go - Centralized error types for regulatory lookups

PURPOSE:
  All error types for rate/rule resolution in one place. Callers should
  match with errors.Is / errors.As; evaluator packages wrap these with
  worker context.

ERROR CATEGORIES:
  1. Lookup errors - No applicable record for a location
  2. Validation errors - Malformed records entering the repository

SEE ALSO:
  - repository.go: Lookups that return these errors
*/
package regulatory

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoApplicableRule is returned when a location matches zero records,
	// not even a federal default. This indicates a misconfigured rule table
	// and is surfaced rather than silently defaulted.
	ErrNoApplicableRule = errors.New("no applicable rate or rule for location")

	// ErrInvalidRecord is returned when a record fails validation on its
	// way into a repository (missing region, non-positive rate, bad level).
	ErrInvalidRecord = errors.New("invalid regulatory record")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoApplicableRuleError reports which location and time failed to resolve.
type NoApplicableRuleError struct {
	Location Location
	AsOf     time.Time
	Kind     string // "rates" or "rules"
}

func (e *NoApplicableRuleError) Error() string {
	return fmt.Sprintf("no applicable %s for location %q as of %s",
		e.Kind, e.Location.Raw, e.AsOf.Format("2006-01-02"))
}

func (e *NoApplicableRuleError) Unwrap() error {
	return ErrNoApplicableRule
}
