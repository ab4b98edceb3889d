package dto

import (
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/types"
	"github.com/parsapay/checkout/internal/validator"
)

// ValidateCouponRequest checks a single code against an order snapshot
// without applying it
type ValidateCouponRequest struct {
	Code     string            `json:"code" validate:"required"`
	Subtotal int64             `json:"subtotal" validate:"gte=0"`
	Currency string            `json:"currency"`
	Items    []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *ValidateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for _, item := range r.Items {
		if err := item.ItemType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCouponResponse reports the outcome of a standalone validation
type ValidateCouponResponse struct {
	Valid        bool                            `json:"valid"`
	Code         string                          `json:"code"`
	Discount     *types.Money                    `json:"discount,omitempty"`
	ErrorCode    types.CouponValidationErrorCode `json:"error_code,omitempty"`
	ErrorMessage string                          `json:"error_message,omitempty"`
	Details      map[string]interface{}          `json:"details,omitempty"`
}

// ToValidateCouponResponse builds the response from a validation result or
// its structured failure
func ToValidateCouponResponse(code string, result *service.ValidationResult, cve *service.CouponValidationError) *ValidateCouponResponse {
	if cve != nil {
		return &ValidateCouponResponse{
			Valid:        false,
			Code:         code,
			ErrorCode:    cve.Code,
			ErrorMessage: cve.Message,
			Details:      cve.Details,
		}
	}
	discount := result.Discount
	return &ValidateCouponResponse{
		Valid:    true,
		Code:     code,
		Discount: &discount,
	}
}
