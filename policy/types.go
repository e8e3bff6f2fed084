/*
Package policy provides the cancellation & refund policy engine.

PURPOSE:
  This package contains the data model and algorithms for an agency's
  cancellation policy: tiered lead-time rules, cancellation fees, and
  no-show charges. Given a policy and a cancellation event, the engine
  computes the refund an agency owes.

KEY CONCEPTS IN THIS FILE (types.go):
  - PolicyConfig: The complete, serializable policy for one agency
  - CutoffRule: One tier ("cancel at least N hours/days/weeks before")
  - LeadTime: A duration with a unit, normalized to hours for evaluation
  - FeeConfig: Fixed and/or percentage cancellation fees
  - NoShowPolicy: The separate charge rule for no-shows

DESIGN PRINCIPLES:
  1. Value semantics: PolicyConfig is a plain serializable value with no
     UI or transport state; templates are deep-cloned, never shared
  2. Precision: Uses decimal.Decimal for all money, never float64
  3. Purity: Nothing in this package performs I/O or reads the clock
  4. Fail closed: When no rule matches, the refund is 0%, never an error

USAGE:
  cfg, _ := policy.Template(policy.TemplateModerate)
  findings := policy.Validate(cfg)
  outcome, err := policy.Evaluate(cfg, policy.Event{
      LeadTimeHours: 72,
      BookingAmount: decimal.NewFromInt(500),
  })

SEE ALSO:
  - templates.go: Named presets (flexible/moderate/strict) and the custom draft
  - validate.go: Advisory rule-set integrity checks
  - evaluate.go: The refund evaluation algorithm
*/
package policy

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAD TIME - Duration with unit
// =============================================================================

// LeadTimeUnit is the unit a tier's cutoff is authored in.
type LeadTimeUnit string

const (
	UnitHours LeadTimeUnit = "hours"
	UnitDays  LeadTimeUnit = "days"
	UnitWeeks LeadTimeUnit = "weeks"
)

// LeadTime is how long before the scheduled service time a cancellation
// must happen for a tier to apply.
type LeadTime struct {
	Amount int          `json:"amount"`
	Unit   LeadTimeUnit `json:"unit"`
}

// Hours normalizes the lead time to hours. Unknown units are treated as
// hours so that a stale persisted document still evaluates deterministically.
func (lt LeadTime) Hours() int {
	switch lt.Unit {
	case UnitDays:
		return lt.Amount * 24
	case UnitWeeks:
		return lt.Amount * 168
	default:
		return lt.Amount
	}
}

// =============================================================================
// IDENTIFIERS AND CLOSED SETS
// =============================================================================

// TemplateKey tags which preset a policy was derived from. Provenance only;
// evaluation never reads it.
type TemplateKey string

const (
	TemplateFlexible TemplateKey = "flexible"
	TemplateModerate TemplateKey = "moderate"
	TemplateStrict   TemplateKey = "strict"
	TemplateCustom   TemplateKey = "custom"
)

// ApplyScope governs which existing bookings a saved policy change affects.
// Enforced by the booking system, not by this engine.
type ApplyScope string

const (
	ScopeNewBookingsOnly   ApplyScope = "new-bookings-only"
	ScopeAllFutureBookings ApplyScope = "all-future-bookings"
)

// =============================================================================
// POLICY CONFIG - One agency's complete cancellation policy
// =============================================================================

// PolicyConfig is the unit of configuration. It is owned by the agency's
// settings record and replaced wholesale on save; there is exactly one live
// PolicyConfig per agency.
type PolicyConfig struct {
	Name        string
	Template    TemplateKey
	Tiers       []CutoffRule
	Fees        FeeConfig
	NoShow      NoShowPolicy
	Description string
	Visibility  Visibility
	ApplyScope  ApplyScope
}

// CutoffRule is one tier of the policy: cancel at least LeadTime before the
// service time to receive RefundPercent of the booking amount.
type CutoffRule struct {
	ID            string
	Label         string
	LeadTime      LeadTime
	RefundPercent int
}

// FeeConfig holds the cancellation fees deducted from a tiered refund.
// Both fee types may be enabled at once; they are additive.
type FeeConfig struct {
	FixedEnabled   bool
	FixedAmount    decimal.Decimal
	PercentEnabled bool
	PercentAmount  int
}

// NoShowPolicy is independent of the tier table. It applies only when a
// cancellation event is flagged as a no-show.
//
// GracePeriodMinutes is carried for the booking flow's benefit: an event
// arriving within the grace window of the scheduled time should be
// reclassified by the caller as a late cancellation before evaluation.
type NoShowPolicy struct {
	ChargePercent      int
	GracePeriodMinutes int
}

// Visibility controls where the policy text is surfaced. Display only.
type Visibility struct {
	BookingPage       bool
	ConfirmationEmail bool
	CustomerPortal    bool
}

// Clone returns a deep copy. Tiers are the only reference-holding field;
// decimal values are immutable.
func (c PolicyConfig) Clone() PolicyConfig {
	out := c
	if c.Tiers != nil {
		out.Tiers = make([]CutoffRule, len(c.Tiers))
		copy(out.Tiers, c.Tiers)
	}
	return out
}

// clampPercent bounds a percentage to [0,100]. The evaluator applies this as
// a last line of defense; a policy may reach evaluation without ever having
// passed through validation.
func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

var hundred = decimal.NewFromInt(100)

// percentOf returns amount * pct / 100.
func percentOf(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
}
