package dto

import (
	"time"

	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/domain/tax"
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/types"
	"github.com/parsapay/checkout/internal/validator"
)

// LineItemRequest is one order line as submitted by the storefront
type LineItemRequest struct {
	ItemID   string         `json:"item_id" validate:"required"`
	ItemType types.ItemType `json:"item_type" validate:"required"`
	Quantity int            `json:"quantity" validate:"required,gt=0"`
}

// CreatePricingQuoteRequest prices one order snapshot
type CreatePricingQuoteRequest struct {
	Subtotal         int64                     `json:"subtotal" validate:"gte=0"`
	Currency         string                    `json:"currency"`
	Items            []LineItemRequest         `json:"items" validate:"required,min=1,dive"`
	CouponCodes      []string                  `json:"coupon_codes"`
	PreferredGateway *types.PaymentGatewayType `json:"preferred_gateway,omitempty"`
}

func (r *CreatePricingQuoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, item := range r.Items {
		if err := item.ItemType.Validate(); err != nil {
			return err
		}
	}
	if r.PreferredGateway != nil {
		if err := r.PreferredGateway.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToSnapshot converts the request into a validated order snapshot
func (r *CreatePricingQuoteRequest) ToSnapshot() (*order.Snapshot, error) {
	currency := r.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}

	lines := make([]order.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, order.LineItem{
			ItemID:   item.ItemID,
			ItemType: item.ItemType,
			Quantity: item.Quantity,
		})
	}

	return order.NewSnapshot(types.NewMoney(r.Subtotal, currency), lines)
}

// AppliedCouponResponse mirrors one ledger entry in the quote response
type AppliedCouponResponse struct {
	ID             string      `json:"id"`
	CouponID       string      `json:"coupon_id"`
	Code           string      `json:"code"`
	DiscountAmount types.Money `json:"discount_amount"`
	Combinable     bool        `json:"combinable"`
}

// RejectedCouponResponse reports one code that failed validation without
// failing the quote
type RejectedCouponResponse struct {
	Code         string                          `json:"code"`
	ErrorCode    types.CouponValidationErrorCode `json:"error_code"`
	ErrorMessage string                          `json:"error_message"`
	Details      map[string]interface{}          `json:"details,omitempty"`
}

// RankedGatewayResponse is one annotated catalog entry
type RankedGatewayResponse struct {
	Type                types.PaymentGatewayType  `json:"type"`
	DisplayName         string                    `json:"display_name"`
	Eligible            bool                      `json:"eligible"`
	IneligibilityReason types.IneligibilityReason `json:"ineligibility_reason,omitempty"`
	Fee                 types.Money               `json:"fee"`
	PayableAmount       types.Money               `json:"payable_amount"`
	InstantConfirmation bool                      `json:"instant_confirmation"`
}

// PricingQuoteResponse is the full quote plus presentation identifiers.
// QuoteID and GeneratedAt exist for display and support lookups only; the
// pricing fields are reproducible from the request alone.
type PricingQuoteResponse struct {
	QuoteID         string                   `json:"quote_id"`
	ReferenceCode   string                   `json:"reference_code"`
	GeneratedAt     time.Time                `json:"generated_at"`
	Subtotal        types.Money              `json:"subtotal"`
	AppliedCoupons  []AppliedCouponResponse  `json:"applied_coupons"`
	RejectedCoupons []RejectedCouponResponse `json:"rejected_coupons,omitempty"`
	DiscountTotal   types.Money              `json:"discount_total"`
	DiscountedBase  types.Money              `json:"discounted_base"`
	TaxBreakdown    *tax.Breakdown           `json:"tax_breakdown"`
	GrandTotal      types.Money              `json:"grand_total"`
	Gateways        []RankedGatewayResponse  `json:"gateways"`
}

// ToPricingQuoteResponse wraps a quote result with presentation fields.
// Applied-coupon IDs are generated here, not in the ledger, so the
// underlying result stays reproducible across identical requests.
func ToPricingQuoteResponse(result *service.QuoteResult) *PricingQuoteResponse {
	applied := make([]AppliedCouponResponse, 0, len(result.AppliedCoupons))
	for _, a := range result.AppliedCoupons {
		applied = append(applied, AppliedCouponResponse{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_APPLIED_COUPON),
			CouponID:       a.CouponID,
			Code:           a.Code,
			DiscountAmount: a.DiscountAmount,
			Combinable:     a.Combinable,
		})
	}

	rejected := make([]RejectedCouponResponse, 0, len(result.RejectedCoupons))
	for _, r := range result.RejectedCoupons {
		rejected = append(rejected, RejectedCouponResponse{
			Code:         r.Code,
			ErrorCode:    r.Error.Code,
			ErrorMessage: r.Error.Message,
			Details:      r.Error.Details,
		})
	}

	gateways := make([]RankedGatewayResponse, 0, len(result.Gateways))
	for _, g := range result.Gateways {
		gateways = append(gateways, RankedGatewayResponse{
			Type:                g.Gateway.Type,
			DisplayName:         g.Gateway.DisplayName,
			Eligible:            g.Eligible,
			IneligibilityReason: g.IneligibilityReason,
			Fee:                 g.Fee,
			PayableAmount:       g.PayableAmount,
			InstantConfirmation: g.Gateway.Features.InstantConfirmation,
		})
	}

	return &PricingQuoteResponse{
		QuoteID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUOTE),
		ReferenceCode:   types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_QUOTE),
		GeneratedAt:     time.Now().UTC(),
		Subtotal:        result.Subtotal,
		AppliedCoupons:  applied,
		RejectedCoupons: rejected,
		DiscountTotal:   result.DiscountTotal,
		DiscountedBase:  result.DiscountedBase,
		TaxBreakdown:    result.TaxBreakdown,
		GrandTotal:      result.GrandTotal,
		Gateways:        gateways,
	}
}
