package policy_test

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/airhoppers/refund-engine/policy"
)

func findBySeverity(findings []policy.Finding, sev policy.Severity) []policy.Finding {
	var out []policy.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func TestValidate_CleanPolicyHasNoFindings(t *testing.T) {
	for _, key := range policy.TemplateKeys() {
		cfg, err := policy.Template(key)
		if err != nil {
			t.Fatalf("Template(%s): %v", key, err)
		}
		if findings := policy.Validate(cfg); len(findings) != 0 {
			t.Errorf("template %s: expected no findings, got %v", key, findings)
		}
	}
}

func TestValidate_DuplicateNormalizedLeadTime(t *testing.T) {
	// GIVEN: "2 days" and "48 hours" - different authoring, same cutoff
	// THEN:  An error finding naming the colliding tier
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "t1", Label: "Two days", LeadTime: policy.LeadTime{Amount: 2, Unit: policy.UnitDays}, RefundPercent: 50},
			{ID: "t2", Label: "48 hours", LeadTime: policy.LeadTime{Amount: 48, Unit: policy.UnitHours}, RefundPercent: 50},
		},
	}

	errs := findBySeverity(policy.Validate(cfg), policy.SeverityError)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error finding, got %d: %v", len(errs), errs)
	}
	if errs[0].RuleID != "t2" {
		t.Errorf("finding rule ID = %q, want the colliding tier %q", errs[0].RuleID, "t2")
	}
}

func TestValidate_PercentRanges(t *testing.T) {
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "t1", LeadTime: policy.LeadTime{Amount: 24, Unit: policy.UnitHours}, RefundPercent: 120},
		},
		NoShow: policy.NoShowPolicy{ChargePercent: -5},
	}

	errs := findBySeverity(policy.Validate(cfg), policy.SeverityError)
	if len(errs) != 2 {
		t.Fatalf("expected 2 error findings (tier + no-show), got %d: %v", len(errs), errs)
	}
}

func TestValidate_EmptyTierSetIsWarningOnly(t *testing.T) {
	// A policy with zero tiers is saveable as a draft. It must warn, not
	// error: the evaluator fails closed instead.
	cfg := policy.PolicyConfig{NoShow: policy.NoShowPolicy{ChargePercent: 100}}

	findings := policy.Validate(cfg)
	if len(findBySeverity(findings, policy.SeverityError)) != 0 {
		t.Errorf("empty tier set must not produce errors: %v", findings)
	}
	if len(findBySeverity(findings, policy.SeverityWarning)) != 1 {
		t.Errorf("expected exactly one warning, got %v", findings)
	}
}

func TestValidate_InertEnabledFees(t *testing.T) {
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "t1", LeadTime: policy.LeadTime{Amount: 24, Unit: policy.UnitHours}, RefundPercent: 100},
		},
		Fees: policy.FeeConfig{
			FixedEnabled:   true,
			FixedAmount:    decimal.Zero,
			PercentEnabled: true,
			PercentAmount:  0,
		},
		NoShow: policy.NoShowPolicy{ChargePercent: 100},
	}

	warnings := findBySeverity(policy.Validate(cfg), policy.SeverityWarning)
	if len(warnings) != 2 {
		t.Errorf("expected warnings for both inert fees, got %v", warnings)
	}
}

func TestValidate_DominanceWarning(t *testing.T) {
	// GIVEN: A 12h tier refunding more than the 48h tier - cancelling later
	//        pays out more, which is usually an authoring mistake
	// THEN:  A warning, never an error (non-monotonic incentives are legal)
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "late", Label: "Last minute", LeadTime: policy.LeadTime{Amount: 12, Unit: policy.UnitHours}, RefundPercent: 90},
			{ID: "early", Label: "Early", LeadTime: policy.LeadTime{Amount: 48, Unit: policy.UnitHours}, RefundPercent: 50},
		},
		NoShow: policy.NoShowPolicy{ChargePercent: 100},
	}

	findings := policy.Validate(cfg)
	if len(findBySeverity(findings, policy.SeverityError)) != 0 {
		t.Errorf("dominance must not be an error: %v", findings)
	}
	warnings := findBySeverity(findings, policy.SeverityWarning)
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one dominance warning, got %v", findings)
	}
	if warnings[0].RuleID != "late" {
		t.Errorf("warning rule ID = %q, want the shorter-lead tier %q", warnings[0].RuleID, "late")
	}
}

func TestValidate_MonotonicTiersNoDominanceWarning(t *testing.T) {
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "t1", LeadTime: policy.LeadTime{Amount: 12, Unit: policy.UnitHours}, RefundPercent: 25},
			{ID: "t2", LeadTime: policy.LeadTime{Amount: 48, Unit: policy.UnitHours}, RefundPercent: 50},
			{ID: "t3", LeadTime: policy.LeadTime{Amount: 1, Unit: policy.UnitWeeks}, RefundPercent: 100},
		},
		NoShow: policy.NoShowPolicy{ChargePercent: 100},
	}
	if findings := policy.Validate(cfg); len(findings) != 0 {
		t.Errorf("monotonic tiers should validate clean, got %v", findings)
	}
}

func TestValidate_IsIdempotentAndPure(t *testing.T) {
	cfg := policy.PolicyConfig{
		Tiers: []policy.CutoffRule{
			{ID: "t1", LeadTime: policy.LeadTime{Amount: 2, Unit: policy.UnitDays}, RefundPercent: 50},
			{ID: "t2", LeadTime: policy.LeadTime{Amount: 48, Unit: policy.UnitHours}, RefundPercent: 120},
		},
	}
	before := cfg.Clone()

	first := policy.Validate(cfg)
	second := policy.Validate(cfg)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate is not idempotent: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(cfg.Tiers, before.Tiers) {
		t.Error("Validate mutated the config")
	}
}
