/*
evaluate.go - Refund evaluation algorithm

PURPOSE:
  Computes the refund outcome for one cancellation event against one
  PolicyConfig. This is the contract a booking-cancellation handler calls
  when a customer actually cancels.

ALGORITHM:
  1. No-show branch: the no-show charge percent is applied directly;
     tier table and fees are not consulted
  2. Tiered branch: among the tiers whose normalized threshold the event's
     lead time meets or exceeds, pick the one with the largest threshold
     (the most demanding rule the cancellation still satisfies); no
     qualifying tier means 0%
  3. Fee deduction: fees are computed against the booking amount and
     subtracted from the gross refund, floored at zero

GUARANTEES:
  - Pure: no I/O, no clock reads, safe for concurrent use
  - Deterministic: same config + event always yields the same outcome
  - Fail closed: empty tier set or too-late cancellation refunds 0%
  - Never over-refunds on ambiguous config: duplicate thresholds resolve
    to the lower refund percent
  - Clamps out-of-range percents and negative lead times; the only error
    is a negative or non-finite booking amount (caller contract violation)

SEE ALSO:
  - validate.go: Advisory authoring checks (evaluation does not require them)
  - types.go: Event and Outcome field semantics
*/
package policy

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT AND OUTCOME
// =============================================================================

// Event is one cancellation to evaluate. LeadTimeHours is the hours between
// the cancellation moment and the scheduled service time, computed by the
// caller from wall-clock timestamps; the evaluator is pure with respect to
// time. IsNoShow is trusted as given: reclassifying an event inside the
// no-show grace window is the booking flow's responsibility.
type Event struct {
	LeadTimeHours float64
	BookingAmount decimal.Decimal
	IsNoShow      bool
}

// NewEvent builds an Event from raw float inputs, guarding the float
// boundary: a NaN or infinite booking amount is rejected here rather than
// poisoning decimal arithmetic downstream.
func NewEvent(leadTimeHours, bookingAmount float64, isNoShow bool) (Event, error) {
	if math.IsNaN(bookingAmount) || math.IsInf(bookingAmount, 0) {
		return Event{}, &InvalidBookingAmountError{Amount: decimal.Zero, Reason: "amount is not finite"}
	}
	return Event{
		LeadTimeHours: leadTimeHours,
		BookingAmount: decimal.NewFromFloat(bookingAmount),
		IsNoShow:      isNoShow,
	}, nil
}

// Outcome is the refund decision for one event.
type Outcome struct {
	// MatchedTierID is the tier that set the refund percent. Empty for
	// no-show charges and for fail-closed (no tier qualified) outcomes.
	MatchedTierID string

	// RefundPercent is the percent actually applied, after clamping.
	RefundPercent int

	// GrossRefund is BookingAmount * RefundPercent / 100, before fees.
	GrossRefund decimal.Decimal

	// FeesDeducted is the fee amount actually subtracted. It never exceeds
	// GrossRefund: fees reduce a refund to zero, never below.
	FeesDeducted decimal.Decimal

	// NetRefund = GrossRefund - FeesDeducted. Always >= 0.
	NetRefund decimal.Decimal

	// IsNoShowCharge marks outcomes produced by the no-show branch.
	IsNoShowCharge bool
}

// =============================================================================
// EVALUATOR
// =============================================================================

// Evaluate computes the refund outcome for an event under a policy.
//
// Out-of-range policy values are clamped rather than rejected: a stale
// persisted document may reach evaluation without ever passing validation,
// and a cancellation in flight must still resolve. The single error case
// is a negative booking amount, which only the caller can fix.
func Evaluate(cfg PolicyConfig, ev Event) (Outcome, error) {
	if ev.BookingAmount.IsNegative() {
		return Outcome{}, &InvalidBookingAmountError{Amount: ev.BookingAmount, Reason: "amount is negative"}
	}

	if ev.IsNoShow {
		return evaluateNoShow(cfg, ev), nil
	}
	return evaluateTiered(cfg, ev), nil
}

// evaluateNoShow applies the no-show charge. The charge percent fully
// captures what the agency keeps; tier fees are not additionally deducted.
func evaluateNoShow(cfg PolicyConfig, ev Event) Outcome {
	charge := clampPercent(cfg.NoShow.ChargePercent)
	refundPercent := 100 - charge
	gross := percentOf(ev.BookingAmount, refundPercent)
	return Outcome{
		RefundPercent:  refundPercent,
		GrossRefund:    gross,
		FeesDeducted:   decimal.Zero,
		NetRefund:      gross,
		IsNoShowCharge: true,
	}
}

func evaluateTiered(cfg PolicyConfig, ev Event) Outcome {
	lead := ev.LeadTimeHours
	if lead < 0 || math.IsNaN(lead) {
		lead = 0
	}

	tier, matched := selectTier(cfg.Tiers, lead)

	refundPercent := 0
	matchedID := ""
	if matched {
		refundPercent = clampPercent(tier.RefundPercent)
		matchedID = tier.ID
	}

	gross := percentOf(ev.BookingAmount, refundPercent)
	fees := feeTotal(cfg.Fees, ev.BookingAmount)

	net := gross.Sub(fees)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Outcome{
		MatchedTierID: matchedID,
		RefundPercent: refundPercent,
		GrossRefund:   gross,
		FeesDeducted:  gross.Sub(net),
		NetRefund:     net,
	}
}

// selectTier walks the tiers as if sorted descending by normalized threshold
// and picks the first one the event's lead time meets or exceeds: the most
// demanding cutoff the cancellation still satisfies. Ties on equal
// thresholds resolve to the lower refund percent, so an ambiguous config
// (duplicate cutoffs that validation would have rejected) can never
// over-refund.
func selectTier(tiers []CutoffRule, leadHours float64) (CutoffRule, bool) {
	var best CutoffRule
	found := false
	for _, tier := range tiers {
		threshold := tier.LeadTime.Hours()
		if float64(threshold) > leadHours {
			continue
		}
		switch {
		case !found:
			best, found = tier, true
		case threshold > best.LeadTime.Hours():
			best = tier
		case threshold == best.LeadTime.Hours() && clampPercent(tier.RefundPercent) < clampPercent(best.RefundPercent):
			best = tier
		}
	}
	return best, found
}

// feeTotal sums the enabled fees, computed against the booking amount (not
// the gross refund). A negative fixed amount in a corrupted document is
// treated as zero.
func feeTotal(fees FeeConfig, bookingAmount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if fees.FixedEnabled && fees.FixedAmount.IsPositive() {
		total = total.Add(fees.FixedAmount)
	}
	if fees.PercentEnabled {
		total = total.Add(percentOf(bookingAmount, clampPercent(fees.PercentAmount)))
	}
	return total
}
