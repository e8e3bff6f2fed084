/*
Package codec provides JSON serialization for cancellation policies,
including backward compatibility with the pre-structured-policy era.

PURPOSE:
  The agency settings record stores the cancellation policy in a single
  text field. Historically that field held plain free text ("Standard 24h
  cancellation policy"); today it holds a JSON-encoded policy document.
  This package encodes the current shape and decodes both.

WHY A TAGGED RESULT?
  Decode returns Decoded, which holds either a structured PolicyConfig or
  a DescriptiveOnly text. Callers are forced to discriminate: a policy
  that is only prose can be displayed but must never be evaluated.

JSON SCHEMA:
  {
    "policyName": "Moderate",
    "selectedTemplate": "moderate",
    "tiers": [
      {"id": "mod-full", "label": "Full refund",
       "leadTime": {"amount": 3, "unit": "days"}, "refundPercent": 100}
    ],
    "fees": {"fixedFeeEnabled": false, "fixedFeeAmount": 0,
             "percentageFeeEnabled": false, "percentageFeeAmount": 0},
    "noShow": {"chargePercent": 100, "gracePeriodMinutes": 15},
    "description": "...",
    "visibility": {"showOnBookingPage": true,
                   "showInConfirmationEmail": true,
                   "showInCustomerPortal": true},
    "applyScope": "new-bookings-only"
  }

MERGE SEMANTICS:
  A parsed document is shallow-merged over the moderate template: any
  top-level section the document omits keeps the template's value. A
  partially-upgraded or hand-edited document therefore still produces a
  structurally complete PolicyConfig.

GUARANTEES:
  - Decode never panics and never returns an error; malformed input
    always degrades to DescriptiveOnly
  - Decode(Encode(cfg)) reproduces cfg for any structurally valid config

SEE ALSO:
  - policy/templates.go: The moderate merge base
  - store/sqlite: Persists the encoded document
*/
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/airhoppers/refund-engine/policy"
)

// =============================================================================
// WIRE SCHEMA
// =============================================================================

// Document is the JSON wire form of a policy. Top-level fields are pointers
// so a missing section is distinguishable from an explicitly empty one;
// missing sections fall back to the moderate template on merge.
type Document struct {
	PolicyName       *string         `json:"policyName,omitempty"`
	SelectedTemplate *string         `json:"selectedTemplate,omitempty"`
	Tiers            *[]TierJSON     `json:"tiers,omitempty"`
	Fees             *FeesJSON       `json:"fees,omitempty"`
	NoShow           *NoShowJSON     `json:"noShow,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Visibility       *VisibilityJSON `json:"visibility,omitempty"`
	ApplyScope       *string         `json:"applyScope,omitempty"`
}

type TierJSON struct {
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	LeadTime      LeadTimeJSON `json:"leadTime"`
	RefundPercent int          `json:"refundPercent"`
}

type LeadTimeJSON struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

type FeesJSON struct {
	FixedFeeEnabled      bool            `json:"fixedFeeEnabled"`
	FixedFeeAmount       decimal.Decimal `json:"fixedFeeAmount"`
	PercentageFeeEnabled bool            `json:"percentageFeeEnabled"`
	PercentageFeeAmount  int             `json:"percentageFeeAmount"`
}

type NoShowJSON struct {
	ChargePercent      int `json:"chargePercent"`
	GracePeriodMinutes int `json:"gracePeriodMinutes"`
}

type VisibilityJSON struct {
	ShowOnBookingPage       bool `json:"showOnBookingPage"`
	ShowInConfirmationEmail bool `json:"showInConfirmationEmail"`
	ShowInCustomerPortal    bool `json:"showInCustomerPortal"`
}

// =============================================================================
// DECODE RESULT
// =============================================================================

// DescriptiveOnly is a policy that has customer-facing text but no
// machine-evaluable rule structure. For evaluation purposes it means
// "no policy configured"; the text is still displayed.
type DescriptiveOnly struct {
	Text string `json:"text"`
}

// Decoded is the tagged result of decoding a persisted policy field.
// Exactly one of Config and Descriptive is set.
type Decoded struct {
	Config      *policy.PolicyConfig
	Descriptive *DescriptiveOnly
}

// Evaluable reports whether the decoded policy carries rule structure.
func (d Decoded) Evaluable() bool { return d.Config != nil }

// =============================================================================
// ENCODE / DECODE
// =============================================================================

// Encode serializes a PolicyConfig to its canonical JSON document. The
// output always decodes back to an equivalent config.
func Encode(cfg policy.PolicyConfig) (string, error) {
	doc := FromConfig(cfg)
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode policy: %w", err)
	}
	return string(b), nil
}

// Decode normalizes a raw persisted value. JSON objects are merged over the
// moderate template; anything else (legacy prose, a bare JSON string or
// number, truncated JSON) degrades to DescriptiveOnly with the raw text.
func Decode(raw string) Decoded {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Decoded{Descriptive: &DescriptiveOnly{Text: raw}}
	}

	var doc Document
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return Decoded{Descriptive: &DescriptiveOnly{Text: raw}}
	}

	base, _ := policy.Template(policy.TemplateModerate)
	cfg := doc.Merge(base)
	return Decoded{Config: &cfg}
}

// =============================================================================
// CONVERSION
// =============================================================================

// FromConfig builds the fully-populated wire document for a config.
func FromConfig(cfg policy.PolicyConfig) Document {
	tiers := make([]TierJSON, len(cfg.Tiers))
	for i, t := range cfg.Tiers {
		tiers[i] = TierJSON{
			ID:            t.ID,
			Label:         t.Label,
			LeadTime:      LeadTimeJSON{Amount: t.LeadTime.Amount, Unit: string(t.LeadTime.Unit)},
			RefundPercent: t.RefundPercent,
		}
	}
	name := cfg.Name
	template := string(cfg.Template)
	description := cfg.Description
	scope := string(cfg.ApplyScope)
	return Document{
		PolicyName:       &name,
		SelectedTemplate: &template,
		Tiers:            &tiers,
		Fees: &FeesJSON{
			FixedFeeEnabled:      cfg.Fees.FixedEnabled,
			FixedFeeAmount:       cfg.Fees.FixedAmount,
			PercentageFeeEnabled: cfg.Fees.PercentEnabled,
			PercentageFeeAmount:  cfg.Fees.PercentAmount,
		},
		NoShow: &NoShowJSON{
			ChargePercent:      cfg.NoShow.ChargePercent,
			GracePeriodMinutes: cfg.NoShow.GracePeriodMinutes,
		},
		Description: &description,
		Visibility: &VisibilityJSON{
			ShowOnBookingPage:       cfg.Visibility.BookingPage,
			ShowInConfirmationEmail: cfg.Visibility.ConfirmationEmail,
			ShowInCustomerPortal:    cfg.Visibility.CustomerPortal,
		},
		ApplyScope: &scope,
	}
}

// Merge overlays the document's present sections onto base and returns the
// resulting config. Base is typically the moderate template; it is cloned
// first, so the template is never aliased.
func (d Document) Merge(base policy.PolicyConfig) policy.PolicyConfig {
	cfg := base.Clone()

	if d.PolicyName != nil {
		cfg.Name = *d.PolicyName
	}
	if d.SelectedTemplate != nil {
		cfg.Template = parseTemplateKey(*d.SelectedTemplate)
	}
	if d.Tiers != nil {
		tiers := make([]policy.CutoffRule, len(*d.Tiers))
		for i, t := range *d.Tiers {
			tiers[i] = policy.CutoffRule{
				ID:            t.ID,
				Label:         t.Label,
				LeadTime:      policy.LeadTime{Amount: t.LeadTime.Amount, Unit: parseUnit(t.LeadTime.Unit)},
				RefundPercent: t.RefundPercent,
			}
		}
		cfg.Tiers = tiers
	}
	if d.Fees != nil {
		cfg.Fees = policy.FeeConfig{
			FixedEnabled:   d.Fees.FixedFeeEnabled,
			FixedAmount:    d.Fees.FixedFeeAmount,
			PercentEnabled: d.Fees.PercentageFeeEnabled,
			PercentAmount:  d.Fees.PercentageFeeAmount,
		}
	}
	if d.NoShow != nil {
		cfg.NoShow = policy.NoShowPolicy{
			ChargePercent:      d.NoShow.ChargePercent,
			GracePeriodMinutes: d.NoShow.GracePeriodMinutes,
		}
	}
	if d.Description != nil {
		cfg.Description = *d.Description
	}
	if d.Visibility != nil {
		cfg.Visibility = policy.Visibility{
			BookingPage:       d.Visibility.ShowOnBookingPage,
			ConfirmationEmail: d.Visibility.ShowInConfirmationEmail,
			CustomerPortal:    d.Visibility.ShowInCustomerPortal,
		}
	}
	if d.ApplyScope != nil {
		cfg.ApplyScope = parseApplyScope(*d.ApplyScope)
	}

	return cfg
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseUnit(s string) policy.LeadTimeUnit {
	switch s {
	case "days":
		return policy.UnitDays
	case "weeks":
		return policy.UnitWeeks
	default:
		return policy.UnitHours
	}
}

func parseTemplateKey(s string) policy.TemplateKey {
	switch s {
	case "flexible":
		return policy.TemplateFlexible
	case "moderate":
		return policy.TemplateModerate
	case "strict":
		return policy.TemplateStrict
	default:
		return policy.TemplateCustom
	}
}

func parseApplyScope(s string) policy.ApplyScope {
	if s == string(policy.ScopeAllFutureBookings) {
		return policy.ScopeAllFutureBookings
	}
	return policy.ScopeNewBookingsOnly
}
