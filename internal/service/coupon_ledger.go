package service

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/order"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// CouponValidationError represents validation errors with structured details
type CouponValidationError struct {
	Code    types.CouponValidationErrorCode `json:"code"`
	Message string                          `json:"message"`
	Details map[string]interface{}          `json:"details,omitempty"`
}

func (e *CouponValidationError) Error() string {
	return e.Message
}

// AsCouponValidationError extracts a CouponValidationError from an error
// chain, if present
func AsCouponValidationError(err error) (*CouponValidationError, bool) {
	var cve *CouponValidationError
	if ierr.As(err, &cve) {
		return cve, true
	}
	return nil, false
}

// AppliedCoupon is one accepted coupon inside a ledger. Destroyed on
// explicit removal or when the ledger is cleared. It carries no generated
// identity or timestamp: the coupon ID identifies the entry, and keeping
// the record a pure function of the inputs keeps repeated pricing runs
// reproducible.
type AppliedCoupon struct {
	CouponID       string      `json:"coupon_id"`
	Code           string      `json:"code"`
	DiscountAmount types.Money `json:"discount_amount"`
	Combinable     bool        `json:"combinable"`
}

// ValidationResult is a successful validation with its computed discount
// candidate
type ValidationResult struct {
	Coupon   *coupon.Coupon `json:"coupon"`
	Discount types.Money    `json:"discount"`
}

// CouponLedgerService validates, applies, stacks and removes discount
// coupons against one order snapshot. A ledger belongs to a single
// checkout attempt and is not reentrant: callers must await one mutation
// before issuing the next; the internal mutex serializes racing callers
// and the version counter lets in-flight validations detect they have been
// superseded.
type CouponLedgerService interface {
	// Validate checks a code against the order and returns the discount
	// candidate without mutating the ledger
	Validate(ctx context.Context, code string, snapshot *order.Snapshot) (*ValidationResult, error)

	// Apply re-validates and appends the coupon. Never trusts a stale
	// validation.
	Apply(ctx context.Context, code string, snapshot *order.Snapshot) (*AppliedCoupon, error)

	// Remove deletes an applied coupon by coupon ID. Removal never fails;
	// removing an unknown ID is a no-op.
	Remove(ctx context.Context, couponID string)

	// Clear removes all applied coupons
	Clear(ctx context.Context)

	// Applied returns the applied coupons in application order
	Applied() []AppliedCoupon

	// DiscountTotal sums the applied discounts, clamped to the subtotal
	DiscountTotal(subtotal types.Money) types.Money

	// Version returns the monotonically increasing mutation counter
	Version() uint64
}

type couponLedgerService struct {
	ServiceParams

	mu      sync.Mutex
	applied []AppliedCoupon
	version uint64
}

// NewCouponLedgerService creates an empty ledger for one checkout attempt
func NewCouponLedgerService(params ServiceParams) CouponLedgerService {
	return &couponLedgerService{
		ServiceParams: params,
		applied:       []AppliedCoupon{},
	}
}

func (s *couponLedgerService) Validate(ctx context.Context, code string, snapshot *order.Snapshot) (*ValidationResult, error) {
	normalized := coupon.NormalizeCode(code)
	if normalized == "" {
		return nil, &CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotFound,
			Message: "Coupon code is empty",
		}
	}

	c, err := s.CouponRepo.GetByCode(ctx, normalized)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, &CouponValidationError{
				Code:    types.CouponValidationErrorCodeNotFound,
				Message: "Coupon not found",
				Details: map[string]interface{}{"code": normalized},
			}
		}
		if ierr.IsTimeout(err) {
			return nil, &CouponValidationError{
				Code:    types.CouponValidationErrorCodeTimeout,
				Message: "Coupon validation timed out",
				Details: map[string]interface{}{"code": normalized},
			}
		}
		return nil, err
	}

	if err := validateCouponRules(c, snapshot); err != nil {
		return nil, err
	}

	return &ValidationResult{
		Coupon:   c,
		Discount: c.CalculateDiscount(snapshot.Subtotal),
	}, nil
}

// validateCouponRules runs the rule checks in priority order
func validateCouponRules(c *coupon.Coupon, snapshot *order.Snapshot) error {
	// Priority 1: lifecycle status
	if c.Status == types.CouponStatusExpired {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeExpired,
			Message: "Coupon has expired",
			Details: map[string]interface{}{"coupon_id": c.ID, "status": c.Status},
		}
	}
	if !c.IsActive() {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotActive,
			Message: "Coupon is not active",
			Details: map[string]interface{}{"coupon_id": c.ID, "status": c.Status},
		}
	}

	// Priority 2: redemption window
	now := time.Now().UTC()
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotActive,
			Message: "Coupon is not yet active",
			Details: map[string]interface{}{
				"coupon_id":  c.ID,
				"valid_from": c.ValidFrom,
			},
		}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeExpired,
			Message: "Coupon has expired",
			Details: map[string]interface{}{
				"coupon_id":   c.ID,
				"valid_until": c.ValidUntil,
			},
		}
	}

	// Priority 3: usage limits
	if c.IsUsageExhausted() {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeUsageExceeded,
			Message: "Coupon has reached its usage limit",
			Details: map[string]interface{}{"coupon_id": c.ID},
		}
	}

	// Priority 4: minimum order amount
	if c.MinimumOrderAmount != nil && snapshot.Subtotal.LessThan(*c.MinimumOrderAmount) {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeBelowMinimum,
			Message: "Order amount is below the coupon minimum",
			Details: map[string]interface{}{
				"coupon_id":            c.ID,
				"minimum_order_amount": c.MinimumOrderAmount.Amount,
				"order_amount":         snapshot.Subtotal.Amount,
			},
		}
	}

	// Priority 5: applicability scope
	if !c.AppliesTo(snapshot) {
		return &CouponValidationError{
			Code:    types.CouponValidationErrorCodeNotApplicable,
			Message: "Coupon does not apply to the items in this order",
			Details: map[string]interface{}{"coupon_id": c.ID, "scope": c.Scope},
		}
	}

	return nil
}

func (s *couponLedgerService) Apply(ctx context.Context, code string, snapshot *order.Snapshot) (*AppliedCoupon, error) {
	result, err := s.Validate(ctx, code, snapshot)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := coupon.NormalizeCode(code)

	// No two applied coupons may share a code
	if lo.SomeBy(s.applied, func(a AppliedCoupon) bool { return a.Code == normalized }) {
		return nil, &CouponValidationError{
			Code:    types.CouponValidationErrorCodeConflict,
			Message: "Coupon is already applied",
			Details: map[string]interface{}{"code": normalized},
		}
	}

	// If any party is non-combinable the stack is closed
	if len(s.applied) > 0 {
		hasNonCombinable := lo.SomeBy(s.applied, func(a AppliedCoupon) bool { return !a.Combinable })
		if hasNonCombinable || !result.Coupon.Combinable {
			return nil, &CouponValidationError{
				Code:    types.CouponValidationErrorCodeConflict,
				Message: "Coupon cannot be combined with the already applied coupons",
				Details: map[string]interface{}{
					"code":       normalized,
					"combinable": result.Coupon.Combinable,
				},
			}
		}
	}

	applied := AppliedCoupon{
		CouponID:       result.Coupon.ID,
		Code:           normalized,
		DiscountAmount: result.Discount,
		Combinable:     result.Coupon.Combinable,
	}
	s.applied = append(s.applied, applied)
	s.version++

	s.Logger.Debugw("coupon applied to ledger",
		"code", normalized,
		"coupon_id", result.Coupon.ID,
		"discount", result.Discount.Amount,
		"ledger_version", s.version)

	return &applied, nil
}

func (s *couponLedgerService) Remove(_ context.Context, couponID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.applied)
	s.applied = lo.Reject(s.applied, func(a AppliedCoupon, _ int) bool {
		return a.CouponID == couponID
	})
	if len(s.applied) != before {
		s.version++
	}
}

func (s *couponLedgerService) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.applied) > 0 {
		s.applied = []AppliedCoupon{}
		s.version++
	}
}

func (s *couponLedgerService) Applied() []AppliedCoupon {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AppliedCoupon, len(s.applied))
	copy(out, s.applied)
	return out
}

// DiscountTotal sums every applied discount and clamps the result at the
// subtotal so stacked fixed-amount coupons can never push the total
// negative
func (s *couponLedgerService) DiscountTotal(subtotal types.Money) types.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := types.ZeroMoney(subtotal.Currency)
	for _, a := range s.applied {
		total = total.Add(a.DiscountAmount)
	}
	return total.Min(subtotal)
}

func (s *couponLedgerService) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
