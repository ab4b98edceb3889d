package coupon

import (
	"context"

	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/types"
)

// RemoteValidationResult is the coupon registry's answer for a single code
type RemoteValidationResult struct {
	IsValid  bool                            `json:"is_valid"`
	Discount *types.Money                    `json:"discount,omitempty"`
	Coupon   *Coupon                         `json:"coupon_details,omitempty"`
	Error    types.CouponValidationErrorCode `json:"error,omitempty"`
}

// CommitResult is the registry's acknowledgement of a server-side usage
// counter commit, performed only after the user finalizes checkout
type CommitResult struct {
	Success        bool        `json:"success"`
	DiscountAmount types.Money `json:"discount_amount"`
	FinalAmount    types.Money `json:"final_amount"`
}

// Repository is the coupon registry collaborator. Implementations are
// HTTP-backed in production and in-memory in tests; the core never owns
// coupon storage.
type Repository interface {
	// GetByCode resolves a coupon by its case-insensitive code
	GetByCode(ctx context.Context, code string) (*Coupon, error)

	// ValidateCoupon asks the registry whether a code is redeemable for
	// the given order
	ValidateCoupon(ctx context.Context, code string, orderAmount types.Money, items []order.LineItem) (*RemoteValidationResult, error)

	// ApplyCoupon commits the usage counters server side. Called by the
	// external checkout finalization step, never by the pricing pipeline.
	ApplyCoupon(ctx context.Context, code string, orderID string, orderAmount types.Money) (*CommitResult, error)
}
