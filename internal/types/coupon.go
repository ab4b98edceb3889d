package types

import (
	"slices"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// CouponType represents the type of coupon discount (fixed or percentage)
type CouponType string

const (
	// CouponTypeFixed represents a fixed amount coupon discount
	CouponTypeFixed CouponType = "fixed_amount"
	// CouponTypePercentage represents a percentage-based coupon discount
	CouponTypePercentage CouponType = "percentage"
)

func (t CouponType) String() string {
	return string(t)
}

func (t CouponType) Validate() error {
	allowedValues := []string{string(CouponTypeFixed), string(CouponTypePercentage)}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid coupon type").
			WithHint("Coupon type must be either fixed_amount or percentage").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponStatus represents the lifecycle status of a coupon as managed by
// the external admin collaborator. The core only reads it.
type CouponStatus string

const (
	CouponStatusActive    CouponStatus = "active"
	CouponStatusInactive  CouponStatus = "inactive"
	CouponStatusExpired   CouponStatus = "expired"
	CouponStatusSuspended CouponStatus = "suspended"
	CouponStatusDraft     CouponStatus = "draft"
)

func (s CouponStatus) String() string {
	return string(s)
}

func (s CouponStatus) Validate() error {
	allowedValues := []string{
		string(CouponStatusActive),
		string(CouponStatusInactive),
		string(CouponStatusExpired),
		string(CouponStatusSuspended),
		string(CouponStatusDraft),
	}
	if !slices.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid coupon status").
			WithHint("Please provide a valid coupon status").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponScope controls which cart line items a coupon can discount
type CouponScope string

const (
	// CouponScopeAll applies to the whole order
	CouponScopeAll CouponScope = "all"
	// CouponScopeItemTypes applies only to orders containing the listed item types
	CouponScopeItemTypes CouponScope = "item_types"
	// CouponScopeItems applies only to orders containing the listed item IDs
	CouponScopeItems CouponScope = "items"
)

func (s CouponScope) String() string {
	return string(s)
}

func (s CouponScope) Validate() error {
	allowedValues := []string{
		string(CouponScopeAll),
		string(CouponScopeItemTypes),
		string(CouponScopeItems),
	}
	if !slices.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid coupon scope").
			WithHint("Coupon scope must be one of all, item_types or items").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponApplicationState tracks a single coupon application inside a ledger
type CouponApplicationState string

const (
	CouponApplicationStateUnvalidated CouponApplicationState = "unvalidated"
	CouponApplicationStateValid       CouponApplicationState = "valid"
	CouponApplicationStateApplied     CouponApplicationState = "applied"
	CouponApplicationStateRemoved     CouponApplicationState = "removed"
	CouponApplicationStateSuperseded  CouponApplicationState = "superseded"
)

func (s CouponApplicationState) String() string {
	return string(s)
}
