/*
templates.go - Pre-built cancellation policy presets

PURPOSE:
  Provides the closed catalog of named policy presets an agency can start
  from. Selecting a preset replaces the whole PolicyConfig; agencies then
  tune tiers and fees, at which point the UI retags the policy as "custom".

AVAILABLE TEMPLATES:
  flexible: Generous - full refund up to 24h before, half under 12h,
            no fees, half charge for no-shows
  moderate: Typical  - full refund at 3 days, half at 24h, no fees,
            full no-show charge
  strict:   Protective - full refund only a week out, half at 3 days,
            a fixed processing fee, full no-show charge

The "custom" pseudo-template is NOT in the catalog: it is the minimal
single-tier draft the UI builds when the user opts out of every preset
(see CustomDraft).

CUSTOMIZATION:
  These are starting points. Every call returns a fresh deep copy, so
  callers may mutate the result freely without corrupting the catalog.

SEE ALSO:
  - types.go: PolicyConfig definition
  - codec: uses the moderate preset as the merge base for legacy documents
*/
package policy

import "github.com/shopspring/decimal"

// =============================================================================
// TEMPLATE CATALOG
// =============================================================================

// Template instantiates a catalog preset. The catalog is total over
// {flexible, moderate, strict}; any other key (including "custom") is an
// error. The returned config shares no state with the catalog or with
// previous calls.
func Template(key TemplateKey) (PolicyConfig, error) {
	switch key {
	case TemplateFlexible:
		return flexibleTemplate(), nil
	case TemplateModerate:
		return moderateTemplate(), nil
	case TemplateStrict:
		return strictTemplate(), nil
	default:
		return PolicyConfig{}, &UnknownTemplateError{Key: key}
	}
}

// TemplateKeys lists the catalog keys, in display order.
func TemplateKeys() []TemplateKey {
	return []TemplateKey{TemplateFlexible, TemplateModerate, TemplateStrict}
}

// CustomDraft returns the minimal starting point for a hand-authored policy:
// one tier (full refund at 24 hours), no fees, full no-show charge.
func CustomDraft() PolicyConfig {
	return PolicyConfig{
		Name:     "Custom Policy",
		Template: TemplateCustom,
		Tiers: []CutoffRule{
			{ID: "tier-1", Label: "Full refund", LeadTime: LeadTime{Amount: 24, Unit: UnitHours}, RefundPercent: 100},
		},
		Fees:       FeeConfig{FixedAmount: decimal.Zero},
		NoShow:     NoShowPolicy{ChargePercent: 100},
		Visibility: Visibility{BookingPage: true, ConfirmationEmail: true, CustomerPortal: true},
		ApplyScope: ScopeNewBookingsOnly,
	}
}

// =============================================================================
// PRESET BUILDERS
// =============================================================================
// Each builder constructs a fresh literal per call. Returning shared package
// level values would leak mutable tier slices to every caller.

func flexibleTemplate() PolicyConfig {
	return PolicyConfig{
		Name:     "Flexible",
		Template: TemplateFlexible,
		Tiers: []CutoffRule{
			{ID: "flex-full", Label: "Full refund", LeadTime: LeadTime{Amount: 24, Unit: UnitHours}, RefundPercent: 100},
			{ID: "flex-half", Label: "Half refund", LeadTime: LeadTime{Amount: 12, Unit: UnitHours}, RefundPercent: 50},
		},
		Fees:   FeeConfig{FixedAmount: decimal.Zero},
		NoShow: NoShowPolicy{ChargePercent: 50, GracePeriodMinutes: 30},
		Description: "Cancel up to 24 hours before your booking for a full refund, " +
			"or up to 12 hours before for a 50% refund. No-shows are charged 50%.",
		Visibility: Visibility{BookingPage: true, ConfirmationEmail: true, CustomerPortal: true},
		ApplyScope: ScopeNewBookingsOnly,
	}
}

func moderateTemplate() PolicyConfig {
	return PolicyConfig{
		Name:     "Moderate",
		Template: TemplateModerate,
		Tiers: []CutoffRule{
			{ID: "mod-full", Label: "Full refund", LeadTime: LeadTime{Amount: 3, Unit: UnitDays}, RefundPercent: 100},
			{ID: "mod-half", Label: "Half refund", LeadTime: LeadTime{Amount: 24, Unit: UnitHours}, RefundPercent: 50},
		},
		Fees:   FeeConfig{FixedAmount: decimal.Zero},
		NoShow: NoShowPolicy{ChargePercent: 100, GracePeriodMinutes: 15},
		Description: "Cancel at least 3 days before your booking for a full refund, " +
			"or at least 24 hours before for a 50% refund. No-shows are charged in full.",
		Visibility: Visibility{BookingPage: true, ConfirmationEmail: true, CustomerPortal: true},
		ApplyScope: ScopeNewBookingsOnly,
	}
}

func strictTemplate() PolicyConfig {
	return PolicyConfig{
		Name:     "Strict",
		Template: TemplateStrict,
		Tiers: []CutoffRule{
			{ID: "strict-full", Label: "Full refund", LeadTime: LeadTime{Amount: 1, Unit: UnitWeeks}, RefundPercent: 100},
			{ID: "strict-half", Label: "Half refund", LeadTime: LeadTime{Amount: 3, Unit: UnitDays}, RefundPercent: 50},
		},
		Fees:   FeeConfig{FixedEnabled: true, FixedAmount: decimal.NewFromInt(25)},
		NoShow: NoShowPolicy{ChargePercent: 100, GracePeriodMinutes: 15},
		Description: "Cancel at least one week before your booking for a full refund, " +
			"or at least 3 days before for a 50% refund, less a $25 processing fee. " +
			"No-shows are charged in full.",
		Visibility: Visibility{BookingPage: true, ConfirmationEmail: true, CustomerPortal: true},
		ApplyScope: ScopeNewBookingsOnly,
	}
}
