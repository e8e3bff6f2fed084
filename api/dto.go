/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request / *Response: Request and response body wrappers

MONEY:
  Monetary outcome fields are serialized as strings ("475") rather than
  JSON numbers so clients never round-trip them through float64.

SEE ALSO:
  - handlers.go: Uses these types
  - codec: Document is the policy wire schema shared with persistence
*/
package api

import (
	"github.com/airhoppers/refund-engine/codec"
	"github.com/airhoppers/refund-engine/policy"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// TemplateDTO describes one catalog preset.
type TemplateDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PolicyResponse is the decoded policy for one agency. Exactly one of
// Policy and DescriptiveText is set; Evaluable discriminates.
type PolicyResponse struct {
	AgencyID        string           `json:"agency_id"`
	Evaluable       bool             `json:"evaluable"`
	Policy          *codec.Document  `json:"policy,omitempty"`
	DescriptiveText *string          `json:"descriptive_text,omitempty"`
	Findings        []policy.Finding `json:"findings"`
}

// SavePolicyResponse confirms a save and echoes the validation findings.
// Findings never block a save; drafts with errors persist too.
type SavePolicyResponse struct {
	AgencyID string           `json:"agency_id"`
	Saved    bool             `json:"saved"`
	Findings []policy.Finding `json:"findings"`
}

// ValidateResponse carries inline-edit validation results.
type ValidateResponse struct {
	Findings  []policy.Finding `json:"findings"`
	Evaluable bool             `json:"evaluable"`
}

// EvaluateRequest describes one cancellation event to price.
type EvaluateRequest struct {
	LeadTimeHours float64 `json:"lead_time_hours"`
	BookingAmount float64 `json:"booking_amount"`
	IsNoShow      bool    `json:"is_no_show"`
}

// EvaluateResponse is the refund decision.
type EvaluateResponse struct {
	MatchedTierID  string `json:"matched_tier_id,omitempty"`
	RefundPercent  int    `json:"refund_percent"`
	GrossRefund    string `json:"gross_refund"`
	FeesDeducted   string `json:"fees_deducted"`
	NetRefund      string `json:"net_refund"`
	IsNoShowCharge bool   `json:"is_no_show_charge"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toEvaluateResponse(out policy.Outcome) EvaluateResponse {
	return EvaluateResponse{
		MatchedTierID:  out.MatchedTierID,
		RefundPercent:  out.RefundPercent,
		GrossRefund:    out.GrossRefund.String(),
		FeesDeducted:   out.FeesDeducted.String(),
		NetRefund:      out.NetRefund.String(),
		IsNoShowCharge: out.IsNoShowCharge,
	}
}

// findingsOrEmpty keeps the JSON field an array, never null.
func findingsOrEmpty(findings []policy.Finding) []policy.Finding {
	if findings == nil {
		return []policy.Finding{}
	}
	return findings
}
