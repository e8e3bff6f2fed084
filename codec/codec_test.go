package codec_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airhoppers/refund-engine/codec"
	"github.com/airhoppers/refund-engine/policy"
)

// assertConfigEqual compares configs field by field. Decimal amounts are
// compared by value: the exponent representation may legally differ after
// a JSON round trip.
func assertConfigEqual(t *testing.T, want, got policy.PolicyConfig) {
	t.Helper()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Template, got.Template)
	assert.Equal(t, want.Tiers, got.Tiers)
	assert.Equal(t, want.Fees.FixedEnabled, got.Fees.FixedEnabled)
	assert.True(t, want.Fees.FixedAmount.Equal(got.Fees.FixedAmount),
		"fixed fee amount: want %s, got %s", want.Fees.FixedAmount, got.Fees.FixedAmount)
	assert.Equal(t, want.Fees.PercentEnabled, got.Fees.PercentEnabled)
	assert.Equal(t, want.Fees.PercentAmount, got.Fees.PercentAmount)
	assert.Equal(t, want.NoShow, got.NoShow)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Visibility, got.Visibility)
	assert.Equal(t, want.ApplyScope, got.ApplyScope)
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestRoundTrip_Templates(t *testing.T) {
	for _, key := range policy.TemplateKeys() {
		cfg, err := policy.Template(key)
		require.NoError(t, err)

		encoded, err := codec.Encode(cfg)
		require.NoError(t, err, "encode %s", key)

		decoded := codec.Decode(encoded)
		require.True(t, decoded.Evaluable(), "template %s should decode as structured", key)
		assertConfigEqual(t, cfg, *decoded.Config)
	}
}

func TestRoundTrip_CustomDraft(t *testing.T) {
	cfg := policy.CustomDraft()
	encoded, err := codec.Encode(cfg)
	require.NoError(t, err)

	decoded := codec.Decode(encoded)
	require.True(t, decoded.Evaluable())
	assertConfigEqual(t, cfg, *decoded.Config)
}

func TestRoundTrip_FractionalFeeAmount(t *testing.T) {
	cfg := policy.CustomDraft()
	cfg.Fees = policy.FeeConfig{FixedEnabled: true, FixedAmount: decimal.RequireFromString("19.99")}

	encoded, err := codec.Encode(cfg)
	require.NoError(t, err)
	assert.Contains(t, encoded, "19.99", "fee amount must not round-trip through float")

	decoded := codec.Decode(encoded)
	require.True(t, decoded.Evaluable())
	assert.True(t, decoded.Config.Fees.FixedAmount.Equal(decimal.RequireFromString("19.99")))
}

// =============================================================================
// LEGACY AND MALFORMED INPUT
// =============================================================================

func TestDecode_LegacyFreeText(t *testing.T) {
	raw := "Standard 24h cancellation policy"

	decoded := codec.Decode(raw)

	require.False(t, decoded.Evaluable())
	require.NotNil(t, decoded.Descriptive)
	assert.Equal(t, raw, decoded.Descriptive.Text)
	assert.Nil(t, decoded.Config)
}

func TestDecode_NonObjectJSONIsDescriptive(t *testing.T) {
	// A quoted string or bare number is valid JSON but carries no rule
	// structure; it is legacy prose, not a policy document.
	for _, raw := range []string{`"cancel anytime"`, "42", "[1,2,3]", "true"} {
		decoded := codec.Decode(raw)
		require.False(t, decoded.Evaluable(), "raw %q", raw)
		assert.Equal(t, raw, decoded.Descriptive.Text)
	}
}

func TestDecode_TruncatedJSONIsDescriptive(t *testing.T) {
	raw := `{"tiers": [`
	decoded := codec.Decode(raw)
	require.False(t, decoded.Evaluable())
	assert.Equal(t, raw, decoded.Descriptive.Text)
}

func TestDecode_EmptyStringIsDescriptive(t *testing.T) {
	decoded := codec.Decode("")
	require.False(t, decoded.Evaluable())
}

// =============================================================================
// MERGE SEMANTICS
// =============================================================================

func TestDecode_PartialDocumentMergesModerateDefaults(t *testing.T) {
	// GIVEN: A hand-edited document carrying only a name
	// THEN:  Every other section comes from the moderate template
	decoded := codec.Decode(`{"policyName": "House Rules"}`)
	require.True(t, decoded.Evaluable())

	moderate, _ := policy.Template(policy.TemplateModerate)
	cfg := *decoded.Config

	assert.Equal(t, "House Rules", cfg.Name)
	assert.Equal(t, moderate.Tiers, cfg.Tiers)
	assert.Equal(t, moderate.NoShow, cfg.NoShow)
	assert.Equal(t, moderate.ApplyScope, cfg.ApplyScope)
}

func TestDecode_ExplicitEmptyTiersPreserved(t *testing.T) {
	// An explicitly empty tier list is a draft, not a missing section:
	// it must NOT inherit the moderate tiers.
	decoded := codec.Decode(`{"policyName": "Draft", "tiers": []}`)
	require.True(t, decoded.Evaluable())
	assert.Len(t, decoded.Config.Tiers, 0)
}

func TestDecode_UnknownUnitFallsBackToHours(t *testing.T) {
	raw := `{"tiers": [{"id": "t1", "label": "x", "leadTime": {"amount": 48, "unit": "fortnights"}, "refundPercent": 50}]}`
	decoded := codec.Decode(raw)
	require.True(t, decoded.Evaluable())
	assert.Equal(t, policy.UnitHours, decoded.Config.Tiers[0].LeadTime.Unit)
	assert.Equal(t, 48, decoded.Config.Tiers[0].LeadTime.Hours())
}

func TestDecode_UnknownTemplateTagBecomesCustom(t *testing.T) {
	decoded := codec.Decode(`{"selectedTemplate": "bespoke"}`)
	require.True(t, decoded.Evaluable())
	assert.Equal(t, policy.TemplateCustom, decoded.Config.Template)
}

func TestDecode_LeadingWhitespaceTolerated(t *testing.T) {
	cfg := policy.CustomDraft()
	encoded, err := codec.Encode(cfg)
	require.NoError(t, err)

	decoded := codec.Decode("\n  " + encoded + "\n")
	require.True(t, decoded.Evaluable())
	assert.False(t, strings.Contains(decoded.Config.Name, "\n"))
}
