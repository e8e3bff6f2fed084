/*
validate.go - Rule-set integrity checks

PURPOSE:
  Checks a PolicyConfig's tier set for internal consistency. The settings
  UI runs this on every edit and renders the findings inline; nothing here
  blocks a save. Findings are returned as data, never as errors.

FINDING SEVERITIES:
  error:   The policy is not sensibly evaluable as authored (duplicate
           cutoffs, out-of-range percents). A draft may still be persisted.
  warning: Plausible authoring mistakes (empty tier set, inert fees,
           a tighter window refunding more than a looser one).

The validator is advisory: the evaluator performs its own defensive
clamping independently, because a persisted document may reach evaluation
without ever having passed through live validation.
*/
package policy

import "fmt"

// =============================================================================
// FINDINGS
// =============================================================================

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one validation result, addressed to the editing user.
// RuleID identifies the offending tier when the finding concerns one.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	RuleID   string   `json:"rule_id,omitempty"`
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validate checks a PolicyConfig and returns every applicable finding.
// It is idempotent and side-effect free; the config is never mutated.
func Validate(cfg PolicyConfig) []Finding {
	var findings []Finding

	findings = append(findings, checkDuplicateLeadTimes(cfg.Tiers)...)
	findings = append(findings, checkPercentRanges(cfg)...)

	if len(cfg.Tiers) == 0 {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  "policy has no tiers; cancellations will refund 0% until a tier is added",
		})
	}

	findings = append(findings, checkFeeSanity(cfg.Fees)...)
	findings = append(findings, checkDominance(cfg.Tiers)...)

	return findings
}

// checkDuplicateLeadTimes flags any two tiers whose lead times normalize to
// the same hour value. "2 days" and "48 hours" are the same cutoff.
func checkDuplicateLeadTimes(tiers []CutoffRule) []Finding {
	var findings []Finding
	seen := make(map[int]CutoffRule, len(tiers))
	for _, tier := range tiers {
		hours := tier.LeadTime.Hours()
		if prev, ok := seen[hours]; ok {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message: fmt.Sprintf("tiers %q and %q both cut off at %d hours",
					prev.Label, tier.Label, hours),
				RuleID: tier.ID,
			})
			continue
		}
		seen[hours] = tier
	}
	return findings
}

func checkPercentRanges(cfg PolicyConfig) []Finding {
	var findings []Finding
	for _, tier := range cfg.Tiers {
		if tier.RefundPercent < 0 || tier.RefundPercent > 100 {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Message:  fmt.Sprintf("tier %q refund percent %d is outside 0-100", tier.Label, tier.RefundPercent),
				RuleID:   tier.ID,
			})
		}
	}
	if cfg.NoShow.ChargePercent < 0 || cfg.NoShow.ChargePercent > 100 {
		findings = append(findings, Finding{
			Severity: SeverityError,
			Message:  fmt.Sprintf("no-show charge percent %d is outside 0-100", cfg.NoShow.ChargePercent),
		})
	}
	return findings
}

// checkFeeSanity flags a fee that is enabled but set to zero: it deducts
// nothing, which usually means the agency forgot to fill in the amount.
func checkFeeSanity(fees FeeConfig) []Finding {
	var findings []Finding
	if fees.FixedEnabled && fees.FixedAmount.IsZero() {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  "fixed cancellation fee is enabled but its amount is 0",
		})
	}
	if fees.PercentEnabled && fees.PercentAmount == 0 {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Message:  "percentage cancellation fee is enabled but its rate is 0",
		})
	}
	return findings
}

// checkDominance warns when a tier with a shorter lead time refunds strictly
// more than a tier with a longer one. Cancelling closer to the service time
// should not pay out more than cancelling earlier. This stays a warning:
// an agency may want non-monotonic incentives on purpose.
func checkDominance(tiers []CutoffRule) []Finding {
	var findings []Finding
	for i, a := range tiers {
		for _, b := range tiers[i+1:] {
			shorter, longer := a, b
			if shorter.LeadTime.Hours() > longer.LeadTime.Hours() {
				shorter, longer = longer, shorter
			}
			if shorter.LeadTime.Hours() == longer.LeadTime.Hours() {
				continue // duplicate cutoff, reported separately
			}
			if shorter.RefundPercent > longer.RefundPercent {
				findings = append(findings, Finding{
					Severity: SeverityWarning,
					Message: fmt.Sprintf("tier %q (%d hours) refunds %d%% but tier %q (%d hours) refunds only %d%%; later cancellations would pay out more",
						shorter.Label, shorter.LeadTime.Hours(), shorter.RefundPercent,
						longer.Label, longer.LeadTime.Hours(), longer.RefundPercent),
					RuleID: shorter.ID,
				})
			}
		}
	}
	return findings
}

// HasErrors reports whether any finding is severity error. Convenience for
// callers that only need the evaluable/not-evaluable distinction.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
