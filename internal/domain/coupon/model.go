package coupon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/types"
)

// Coupon represents a discount coupon entity. Coupons are created and
// revoked by the external admin collaborator; this core only reads and
// applies them. Usage counters are committed by the backend on checkout,
// never here.
type Coupon struct {
	ID                 string             `json:"id"`
	Code               string             `json:"code"`
	Name               string             `json:"name,omitempty"`
	Type               types.CouponType   `json:"type"`
	PercentageOff      *decimal.Decimal   `json:"percentage_off,omitempty"`
	AmountOff          *types.Money       `json:"amount_off,omitempty"`
	MaxDiscount        *types.Money       `json:"max_discount,omitempty"`
	MinimumOrderAmount *types.Money       `json:"minimum_order_amount,omitempty"`
	ValidFrom          *time.Time         `json:"valid_from,omitempty"`
	ValidUntil         *time.Time         `json:"valid_until,omitempty"`
	UsageLimitTotal    *int               `json:"usage_limit_total,omitempty"`
	TotalUsageCount    int                `json:"total_usage_count"`
	UsageLimitPerUser  *int               `json:"usage_limit_per_user,omitempty"`
	UserUsageCount     int                `json:"user_usage_count"`
	Scope              types.CouponScope  `json:"scope"`
	ItemTypes          []types.ItemType   `json:"item_types,omitempty"`
	ItemIDs            []string           `json:"item_ids,omitempty"`
	Combinable         bool               `json:"combinable"`
	Status             types.CouponStatus `json:"status"`
}

// NormalizeCode lowers and trims a coupon code. Codes are case-insensitive
// everywhere in the ledger.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// IsActive reports whether the coupon lifecycle status allows redemption
func (c *Coupon) IsActive() bool {
	return c.Status == types.CouponStatusActive
}

// IsWithinValidity reports whether now falls inside the redemption window
func (c *Coupon) IsWithinValidity(now time.Time) bool {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// IsUsageExhausted reports whether either usage limit has been reached
func (c *Coupon) IsUsageExhausted() bool {
	if c.UsageLimitTotal != nil && c.TotalUsageCount >= *c.UsageLimitTotal {
		return true
	}
	if c.UsageLimitPerUser != nil && c.UserUsageCount >= *c.UsageLimitPerUser {
		return true
	}
	return false
}

// AppliesTo reports whether the coupon scope matches the order contents
func (c *Coupon) AppliesTo(snapshot *order.Snapshot) bool {
	switch c.Scope {
	case types.CouponScopeItemTypes:
		return snapshot.ContainsItemType(c.ItemTypes)
	case types.CouponScopeItems:
		return snapshot.ContainsItem(c.ItemIDs)
	default:
		return true
	}
}

// CalculateDiscount computes the discount candidate against the original
// subtotal. Discounts are always computed independently against the
// original subtotal, never against a running discounted balance, so
// stacking order cannot change the result. Percentage discounts are capped
// by MaxDiscount, fixed discounts at the subtotal itself.
func (c *Coupon) CalculateDiscount(subtotal types.Money) types.Money {
	switch c.Type {
	case types.CouponTypePercentage:
		if c.PercentageOff == nil {
			return types.ZeroMoney(subtotal.Currency)
		}
		discount := subtotal.PercentageOf(*c.PercentageOff)
		if c.MaxDiscount != nil {
			discount = discount.Min(*c.MaxDiscount)
		}
		return discount
	case types.CouponTypeFixed:
		if c.AmountOff == nil {
			return types.ZeroMoney(subtotal.Currency)
		}
		return c.AmountOff.Min(subtotal)
	default:
		return types.ZeroMoney(subtotal.Currency)
	}
}
