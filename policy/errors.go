/*
errors.go - Centralized error types for the policy engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (API handlers, booking flows) should test with errors.Is().

ERROR CATEGORIES:
  1. Catalog errors    - Unknown template keys
  2. Evaluation errors - Caller contract violations
  3. Policy errors     - Non-evaluable (descriptive-only) policies

Note that validation findings are NOT errors: the Rule Validator returns
them as data so the settings UI can render them inline (see validate.go).
*/
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownTemplate is returned when a template key is not in the
	// catalog. The catalog is closed; "custom" is built by the UI, not
	// instantiated from here.
	ErrUnknownTemplate = errors.New("unknown policy template")

	// ErrInvalidBookingAmount is returned when an event carries a negative
	// or non-finite booking amount. This is a caller contract violation;
	// the evaluator clamps everything else but never invents a booking value.
	ErrInvalidBookingAmount = errors.New("invalid booking amount")

	// ErrNotEvaluable is returned when evaluation is requested against a
	// descriptive-only policy (legacy free text with no rule structure).
	ErrNotEvaluable = errors.New("policy is not evaluable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidBookingAmountError reports the offending amount.
type InvalidBookingAmountError struct {
	Amount decimal.Decimal
	Reason string
}

func (e *InvalidBookingAmountError) Error() string {
	return fmt.Sprintf("invalid booking amount %s: %s", e.Amount, e.Reason)
}

func (e *InvalidBookingAmountError) Unwrap() error {
	return ErrInvalidBookingAmount
}

// UnknownTemplateError reports the key that missed the catalog.
type UnknownTemplateError struct {
	Key TemplateKey
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown policy template %q", e.Key)
}

func (e *UnknownTemplateError) Unwrap() error {
	return ErrUnknownTemplate
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidBookingAmount) ||
		errors.Is(err, ErrUnknownTemplate)
}
