package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

func vatRule(rate string) Rule {
	return Rule{
		Kind:     types.TaxRuleKindVAT,
		Enabled:  true,
		RateType: types.TaxRateTypePercentage,
		Rate:     decimal.RequireFromString(rate),
	}
}

func TestComputeExclusiveVAT(t *testing.T) {
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{vatRule("9")})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.NoError(t, err)

	assert.Equal(t, int64(90_000), breakdown.TotalTax.Amount)
	assert.Len(t, breakdown.Lines, 1)
	assert.Equal(t, int64(1_000_000), breakdown.Lines[0].TaxableAmount.Amount)
	assert.False(t, breakdown.ZeroTaxWarning)
}

func TestComputeCompoundRule(t *testing.T) {
	serviceCharge := Rule{
		Kind:                   types.TaxRuleKindServiceCharge,
		Enabled:                true,
		RateType:               types.TaxRateTypePercentage,
		Rate:                   decimal.RequireFromString("10"),
		AppliesAfterOtherTaxes: true,
	}
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{vatRule("9"), serviceCharge})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.NoError(t, err)

	// VAT taxes the base, the service charge taxes base plus VAT
	require.Len(t, breakdown.Lines, 2)
	assert.Equal(t, int64(90_000), breakdown.Lines[0].TaxAmount.Amount)
	assert.Equal(t, int64(1_090_000), breakdown.Lines[1].TaxableAmount.Amount)
	assert.Equal(t, int64(109_000), breakdown.Lines[1].TaxAmount.Amount)
	assert.Equal(t, int64(199_000), breakdown.TotalTax.Amount)
}

func TestComputeFixedRuleExclusive(t *testing.T) {
	fixed := Rule{
		Kind:     types.TaxRuleKindCustom,
		Enabled:  true,
		RateType: types.TaxRateTypeFixed,
		Rate:     decimal.RequireFromString("25000"),
	}
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{fixed})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.NoError(t, err)
	assert.Equal(t, int64(25_000), breakdown.TotalTax.Amount)
}

func TestComputeInclusiveDerivesBase(t *testing.T) {
	rs, err := NewRuleSet(types.PricingModeInclusive, types.DefaultCurrency, []Rule{vatRule("9")})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_090_000, types.DefaultCurrency))
	require.NoError(t, err)

	assert.Equal(t, int64(1_000_000), breakdown.EffectiveBase.Amount)
	assert.Equal(t, int64(90_000), breakdown.TotalTax.Amount)
}

func TestComputeInclusiveRejectsFixedRule(t *testing.T) {
	fixed := Rule{
		Kind:     types.TaxRuleKindCustom,
		Enabled:  true,
		RateType: types.TaxRateTypeFixed,
		Rate:     decimal.RequireFromString("25000"),
	}
	rs, err := NewRuleSet(types.PricingModeInclusive, types.DefaultCurrency, []Rule{vatRule("9"), fixed})
	require.NoError(t, err)

	_, err = rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.Error(t, err)
	assert.True(t, ierr.IsTaxConfig(err))
}

func TestComputeZeroRulesWarns(t *testing.T) {
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, nil)
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.NoError(t, err)
	assert.True(t, breakdown.ZeroTaxWarning)
	assert.True(t, breakdown.TotalTax.IsZero())
}

func TestComputeDisabledRulesSkipped(t *testing.T) {
	disabled := vatRule("9")
	disabled.Enabled = false
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{disabled})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.NewMoney(1_000_000, types.DefaultCurrency))
	require.NoError(t, err)
	assert.True(t, breakdown.ZeroTaxWarning)
}

func TestComputeZeroBase(t *testing.T) {
	rs, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{vatRule("9")})
	require.NoError(t, err)

	breakdown, err := rs.Compute(types.ZeroMoney(types.DefaultCurrency))
	require.NoError(t, err)
	assert.True(t, breakdown.TotalTax.IsZero())
	assert.Empty(t, breakdown.Lines)
}

// Adding exclusive tax to a base and running the sum through inclusive
// mode must recover the base within one minor unit of flooring error.
func TestInclusiveExclusiveRoundTrip(t *testing.T) {
	bases := []int64{1, 999, 10_000, 123_457, 1_000_000, 987_654_321}

	for _, base := range bases {
		exclusive, err := NewRuleSet(types.PricingModeExclusive, types.DefaultCurrency, []Rule{vatRule("9")})
		require.NoError(t, err)
		inclusive, err := NewRuleSet(types.PricingModeInclusive, types.DefaultCurrency, []Rule{vatRule("9")})
		require.NoError(t, err)

		amount := types.NewMoney(base, types.DefaultCurrency)
		exBreakdown, err := exclusive.Compute(amount)
		require.NoError(t, err)

		sum := amount.Add(exBreakdown.TotalTax)
		inBreakdown, err := inclusive.Compute(sum)
		require.NoError(t, err)

		diff := inBreakdown.EffectiveBase.Amount - base
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, int64(1), "base %d round-tripped to %d", base, inBreakdown.EffectiveBase.Amount)
	}
}
