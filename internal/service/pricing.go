package service

import (
	"context"

	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/domain/tax"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// QuoteInput is everything a pricing computation depends on. Two identical
// inputs against identical collaborator state yield identical quotes.
type QuoteInput struct {
	Snapshot    *order.Snapshot
	CouponCodes []string
	Preferred   *types.PaymentGatewayType
	UserID      string
}

// RejectedCoupon records a code that failed validation during a quote,
// with the structured reason
type RejectedCoupon struct {
	Code  string                 `json:"code"`
	Error *CouponValidationError `json:"error"`
}

// QuoteResult is the full deterministic pricing breakdown. Presentation
// identifiers and timestamps are added later at the API boundary so the
// result itself stays reproducible.
type QuoteResult struct {
	Subtotal        types.Money      `json:"subtotal"`
	AppliedCoupons  []AppliedCoupon  `json:"applied_coupons"`
	RejectedCoupons []RejectedCoupon `json:"rejected_coupons,omitempty"`
	DiscountTotal   types.Money      `json:"discount_total"`
	DiscountedBase  types.Money      `json:"discounted_base"`
	TaxBreakdown    *tax.Breakdown   `json:"tax_breakdown"`
	GrandTotal      types.Money      `json:"grand_total"`
	Gateways        []*RankedGateway `json:"gateways"`
}

// PricingPipelineService composes the full checkout pricing pass: coupons,
// then tax on the discounted base, then gateway ranking on the grand
// total
type PricingPipelineService interface {
	// GetQuote prices one order snapshot. Coupon failures are partial:
	// the failing codes land in RejectedCoupons and the quote proceeds
	// with the rest. Tax configuration errors and arithmetic invariant
	// violations fail the whole quote.
	GetQuote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

type pricingPipelineService struct {
	ServiceParams

	ruleSet *tax.RuleSet
	catalog GatewayCatalogService
}

func NewPricingPipelineService(params ServiceParams, catalog GatewayCatalogService) (PricingPipelineService, error) {
	ruleSet, err := TaxRuleSetFromConfig(params.Config.Tax)
	if err != nil {
		return nil, err
	}
	return &pricingPipelineService{
		ServiceParams: params,
		ruleSet:       ruleSet,
		catalog:       catalog,
	}, nil
}

func (s *pricingPipelineService) GetQuote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.Snapshot == nil {
		return nil, ierr.NewError("missing order snapshot").
			WithHint("An order snapshot is required to compute a quote").
			Mark(ierr.ErrValidation)
	}

	subtotal := input.Snapshot.Subtotal

	// A fresh ledger per quote keeps the computation free of prior state
	ledger := NewCouponLedgerService(s.ServiceParams)

	rejected := []RejectedCoupon{}
	for _, code := range input.CouponCodes {
		if _, err := ledger.Apply(ctx, code, input.Snapshot); err != nil {
			cve, ok := AsCouponValidationError(err)
			if !ok {
				cve = &CouponValidationError{
					Code:    types.CouponValidationErrorCodeSystemError,
					Message: "Coupon validation failed",
				}
				s.Logger.Errorw("unexpected error applying coupon during quote",
					"code", code,
					"error", err)
			}
			rejected = append(rejected, RejectedCoupon{Code: code, Error: cve})
		}
	}

	discountTotal := ledger.DiscountTotal(subtotal)
	discountedBase := subtotal.Sub(discountTotal)

	breakdown, err := s.ruleSet.Compute(discountedBase)
	if err != nil {
		// Fail closed: a broken tax configuration must never produce an
		// untaxed quote
		return nil, err
	}

	grandTotal := discountedBase.Add(breakdown.TotalTax)
	if err := s.checkInvariants(subtotal, discountTotal, discountedBase, grandTotal); err != nil {
		return nil, err
	}

	gateways, err := s.catalog.Rank(ctx, grandTotal, RankContext{
		Preferred: input.Preferred,
		UserID:    input.UserID,
	})
	if err != nil {
		if ierr.IsGatewayUnavailable(err) {
			// A quote with no payable gateways is still a valid quote
			gateways = []*RankedGateway{}
		} else {
			return nil, err
		}
	}

	if breakdown.ZeroTaxWarning {
		s.Logger.Warnw("no tax rules enabled, quote computed with zero tax",
			"subtotal", subtotal.Amount)
	}

	return &QuoteResult{
		Subtotal:        subtotal,
		AppliedCoupons:  ledger.Applied(),
		RejectedCoupons: rejected,
		DiscountTotal:   discountTotal,
		DiscountedBase:  discountedBase,
		TaxBreakdown:    breakdown,
		GrandTotal:      grandTotal,
		Gateways:        gateways,
	}, nil
}

// checkInvariants rejects any quote whose arithmetic went out of bounds.
// These should be unreachable; failing closed beats charging a wrong
// amount.
func (s *pricingPipelineService) checkInvariants(subtotal, discountTotal, discountedBase, grandTotal types.Money) error {
	if discountTotal.GreaterThan(subtotal) {
		return ierr.NewError("discount total exceeds subtotal").
			WithHint("Quote could not be computed, please try again").
			WithReportableDetails(map[string]any{
				"subtotal":       subtotal.Amount,
				"discount_total": discountTotal.Amount,
			}).
			Mark(ierr.ErrArithmeticInvariant)
	}
	if discountedBase.IsNegative() || grandTotal.IsNegative() {
		return ierr.NewError("negative amount in quote").
			WithHint("Quote could not be computed, please try again").
			WithReportableDetails(map[string]any{
				"discounted_base": discountedBase.Amount,
				"grand_total":     grandTotal.Amount,
			}).
			Mark(ierr.ErrArithmeticInvariant)
	}
	if grandTotal.LessThan(discountedBase) {
		return ierr.NewError("grand total below discounted base").
			WithHint("Quote could not be computed, please try again").
			WithReportableDetails(map[string]any{
				"discounted_base": discountedBase.Amount,
				"grand_total":     grandTotal.Amount,
			}).
			Mark(ierr.ErrArithmeticInvariant)
	}
	return nil
}
