package tax

import (
	"github.com/shopspring/decimal"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// Rule is one tax rule. Percentage rates are decimal percentages (9 means
// 9%); fixed rates are minor-unit amounts.
type Rule struct {
	Kind                   types.TaxRuleKind `json:"kind"`
	Enabled                bool              `json:"enabled"`
	RateType               types.TaxRateType `json:"rate_type"`
	Rate                   decimal.Decimal   `json:"rate"`
	AppliesAfterOtherTaxes bool              `json:"applies_after_other_taxes"`
}

func (r Rule) Validate() error {
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if err := r.RateType.Validate(); err != nil {
		return err
	}
	if r.Rate.IsNegative() {
		return ierr.NewError("negative tax rate").
			WithHint("Tax rates must be zero or positive").
			WithReportableDetails(map[string]any{
				"kind": r.Kind,
				"rate": r.Rate.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RuleSet is an ordered list of tax rules plus the pricing mode. Rules are
// evaluated in declaration order.
type RuleSet struct {
	PricingMode types.PricingMode `json:"pricing_mode"`
	Currency    string            `json:"currency"`
	Rules       []Rule            `json:"rules"`
}

// NewRuleSet validates and builds a rule set
func NewRuleSet(mode types.PricingMode, currency string, rules []Rule) (*RuleSet, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = types.DefaultCurrency
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &RuleSet{PricingMode: mode, Currency: currency, Rules: copied}, nil
}

// EnabledRules returns the enabled rules in declaration order
func (rs *RuleSet) EnabledRules() []Rule {
	enabled := make([]Rule, 0, len(rs.Rules))
	for _, rule := range rs.Rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// BreakdownLine is one rule's contribution to the computed tax
type BreakdownLine struct {
	RuleKind      types.TaxRuleKind `json:"rule_kind"`
	RateType      types.TaxRateType `json:"rate_type"`
	Rate          decimal.Decimal   `json:"rate"`
	TaxableAmount types.Money       `json:"taxable_amount"`
	TaxAmount     types.Money       `json:"tax_amount"`
}

// Breakdown is the full result of a tax computation. ZeroTaxWarning is set
// when no rules were enabled so callers can surface it instead of silently
// accepting zero tax as success.
type Breakdown struct {
	Lines          []BreakdownLine `json:"lines"`
	TotalTax       types.Money     `json:"total_tax"`
	EffectiveBase  types.Money     `json:"effective_base"`
	ZeroTaxWarning bool            `json:"zero_tax_warning,omitempty"`
}
