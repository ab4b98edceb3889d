package types

import (
	"slices"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// TaxRuleKind identifies the fiscal nature of a tax rule
type TaxRuleKind string

const (
	TaxRuleKindVAT           TaxRuleKind = "vat"
	TaxRuleKindServiceCharge TaxRuleKind = "service_charge"
	TaxRuleKindCustom        TaxRuleKind = "custom"
)

func (k TaxRuleKind) String() string {
	return string(k)
}

func (k TaxRuleKind) Validate() error {
	allowedValues := []string{
		string(TaxRuleKindVAT),
		string(TaxRuleKindServiceCharge),
		string(TaxRuleKindCustom),
	}
	if !slices.Contains(allowedValues, string(k)) {
		return ierr.NewError("invalid tax rule kind").
			WithHint("Tax rule kind must be one of vat, service_charge or custom").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxRateType represents how a tax rule is expressed
type TaxRateType string

const (
	TaxRateTypePercentage TaxRateType = "percentage"
	TaxRateTypeFixed      TaxRateType = "fixed"
)

func (t TaxRateType) String() string {
	return string(t)
}

func (t TaxRateType) Validate() error {
	allowedValues := []string{string(TaxRateTypePercentage), string(TaxRateTypeFixed)}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid tax rate type").
			WithHint("Tax rate type must be either percentage or fixed").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PricingMode controls whether stated prices already contain tax
type PricingMode string

const (
	// PricingModeExclusive adds tax on top of the stated price
	PricingModeExclusive PricingMode = "exclusive"
	// PricingModeInclusive treats the stated price as already containing
	// all enabled percentage taxes
	PricingModeInclusive PricingMode = "inclusive"
)

func (m PricingMode) String() string {
	return string(m)
}

func (m PricingMode) Validate() error {
	allowedValues := []string{string(PricingModeExclusive), string(PricingModeInclusive)}
	if !slices.Contains(allowedValues, string(m)) {
		return ierr.NewError("invalid pricing mode").
			WithHint("Pricing mode must be either exclusive or inclusive").
			Mark(ierr.ErrValidation)
	}
	return nil
}
