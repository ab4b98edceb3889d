package types

import (
	"github.com/samber/lo"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// CouponValidationErrorCode represents the type of coupon validation error
type CouponValidationErrorCode string

const (
	// Basic validation errors
	CouponValidationErrorCodeNotFound  CouponValidationErrorCode = "COUPON_NOT_FOUND"
	CouponValidationErrorCodeNotActive CouponValidationErrorCode = "COUPON_NOT_ACTIVE"

	// Date range validation errors
	CouponValidationErrorCodeExpired CouponValidationErrorCode = "COUPON_EXPIRED"

	// Order validation errors
	CouponValidationErrorCodeBelowMinimum  CouponValidationErrorCode = "COUPON_BELOW_MINIMUM"
	CouponValidationErrorCodeNotApplicable CouponValidationErrorCode = "COUPON_NOT_APPLICABLE"

	// Redemption validation errors
	CouponValidationErrorCodeUsageExceeded CouponValidationErrorCode = "COUPON_USAGE_EXCEEDED"

	// Stacking validation errors
	CouponValidationErrorCodeConflict CouponValidationErrorCode = "COUPON_CONFLICT"

	// Network and system errors
	CouponValidationErrorCodeTimeout     CouponValidationErrorCode = "VALIDATION_TIMEOUT"
	CouponValidationErrorCodeSystemError CouponValidationErrorCode = "SYSTEM_ERROR"
)

func (c CouponValidationErrorCode) String() string {
	return string(c)
}

func (c CouponValidationErrorCode) Validate() error {
	allowed := []CouponValidationErrorCode{
		CouponValidationErrorCodeNotFound,
		CouponValidationErrorCodeNotActive,
		CouponValidationErrorCodeExpired,
		CouponValidationErrorCodeBelowMinimum,
		CouponValidationErrorCodeNotApplicable,
		CouponValidationErrorCodeUsageExceeded,
		CouponValidationErrorCodeConflict,
		CouponValidationErrorCodeTimeout,
		CouponValidationErrorCodeSystemError,
	}

	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid coupon validation error code").
			WithHint("Please provide a valid coupon validation error code").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"code":    c,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// IsUserError returns true if the error code represents a user error (not a system error)
func (c CouponValidationErrorCode) IsUserError() bool {
	systemErrors := []CouponValidationErrorCode{
		CouponValidationErrorCodeTimeout,
		CouponValidationErrorCodeSystemError,
	}
	return !lo.Contains(systemErrors, c)
}
