package tax

import (
	"github.com/shopspring/decimal"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

var oneHundred = decimal.NewFromInt(100)

// Compute runs the rule set against a base amount and returns the tax
// breakdown. A zero or negative base yields an empty breakdown and no
// error, keeping an empty cart idempotent.
func (rs *RuleSet) Compute(base types.Money) (*Breakdown, error) {
	if base.Amount <= 0 {
		return &Breakdown{
			Lines:         []BreakdownLine{},
			TotalTax:      types.ZeroMoney(base.Currency),
			EffectiveBase: types.ZeroMoney(base.Currency),
		}, nil
	}

	enabled := rs.EnabledRules()
	if len(enabled) == 0 {
		return &Breakdown{
			Lines:          []BreakdownLine{},
			TotalTax:       types.ZeroMoney(base.Currency),
			EffectiveBase:  base,
			ZeroTaxWarning: true,
		}, nil
	}

	switch rs.PricingMode {
	case types.PricingModeInclusive:
		return rs.computeInclusive(base, enabled)
	default:
		return rs.computeExclusive(base, enabled)
	}
}

// computeExclusive adds tax on top of the base. Rules flagged
// AppliesAfterOtherTaxes compute against base plus the taxes accumulated so
// far, which lets a custom charge apply on top of VAT.
func (rs *RuleSet) computeExclusive(base types.Money, enabled []Rule) (*Breakdown, error) {
	lines := make([]BreakdownLine, 0, len(enabled))
	totalTax := types.ZeroMoney(base.Currency)

	for _, rule := range enabled {
		taxable := base
		if rule.AppliesAfterOtherTaxes {
			taxable = base.Add(totalTax)
		}

		var taxAmount types.Money
		switch rule.RateType {
		case types.TaxRateTypeFixed:
			taxAmount = types.NewMoney(rule.Rate.Floor().IntPart(), base.Currency)
		default:
			taxAmount = taxable.PercentageOf(rule.Rate)
		}

		lines = append(lines, BreakdownLine{
			RuleKind:      rule.Kind,
			RateType:      rule.RateType,
			Rate:          rule.Rate,
			TaxableAmount: taxable,
			TaxAmount:     taxAmount,
		})
		totalTax = totalTax.Add(taxAmount)
	}

	return &Breakdown{
		Lines:         lines,
		TotalTax:      totalTax,
		EffectiveBase: base,
	}, nil
}

// computeInclusive treats the given amount as already containing all
// enabled percentage taxes. The pre-tax base is derived by dividing out the
// summed implied rate, then the exclusive algorithm recomputes each line
// against that derived base. Fixed-amount rules have no well-defined
// extraction formula in inclusive mode and are rejected.
func (rs *RuleSet) computeInclusive(given types.Money, enabled []Rule) (*Breakdown, error) {
	impliedRate := decimal.Zero
	for _, rule := range enabled {
		if rule.RateType == types.TaxRateTypeFixed {
			return nil, ierr.NewError("fixed tax rule in inclusive pricing mode").
				WithHint("Fixed-amount tax rules are not supported with inclusive pricing").
				WithReportableDetails(map[string]any{
					"rule_kind": rule.Kind,
				}).
				Mark(ierr.ErrTaxConfig)
		}
		impliedRate = impliedRate.Add(rule.Rate)
	}

	divisor := decimal.NewFromInt(1).Add(impliedRate.Div(oneHundred))
	derived := decimal.NewFromInt(given.Amount).Div(divisor).Floor().IntPart()
	base := types.NewMoney(derived, given.Currency)

	breakdown, err := rs.computeExclusive(base, enabled)
	if err != nil {
		return nil, err
	}
	breakdown.EffectiveBase = base
	return breakdown, nil
}
