package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/order"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	mu        sync.RWMutex
	coupons   map[string]*coupon.Coupon
	latency   time.Duration
	err       error
	callCount int
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		coupons: make(map[string]*coupon.Coupon),
	}
}

// Add registers a coupon under its normalized code
func (s *InMemoryCouponStore) Add(c *coupon.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[coupon.NormalizeCode(c.Code)] = c
}

// Clear removes all coupons and resets the call counter
func (s *InMemoryCouponStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = make(map[string]*coupon.Coupon)
	s.callCount = 0
}

// SetLatency delays every call, for debounce and timeout tests
func (s *InMemoryCouponStore) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// SetErr fails every call with the given error
func (s *InMemoryCouponStore) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// CallCount reports GetByCode calls, for single-flight assertions
func (s *InMemoryCouponStore) CallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callCount
}

// Helper to copy coupon
func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}

	copied := *c
	copied.ItemTypes = append([]types.ItemType(nil), c.ItemTypes...)
	copied.ItemIDs = append([]string(nil), c.ItemIDs...)
	return &copied
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	s.mu.Lock()
	s.callCount++
	latency, injected := s.latency, s.err
	c, found := s.coupons[coupon.NormalizeCode(code)]
	s.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ierr.WithError(ctx.Err()).
				WithHint("The coupon registry did not respond in time").
				Mark(ierr.ErrTimeout)
		}
	}
	if injected != nil {
		return nil, injected
	}

	if !found {
		return nil, ierr.NewError("coupon not found").
			WithHint("Coupon not found").
			WithReportableDetails(map[string]interface{}{
				"code": code,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(c), nil
}

func (s *InMemoryCouponStore) ValidateCoupon(ctx context.Context, code string, orderAmount types.Money, items []order.LineItem) (*coupon.RemoteValidationResult, error) {
	c, err := s.GetByCode(ctx, code)
	if err != nil {
		if ierr.IsNotFound(err) {
			return &coupon.RemoteValidationResult{
				IsValid: false,
				Error:   types.CouponValidationErrorCodeNotFound,
			}, nil
		}
		return nil, err
	}

	discount := c.CalculateDiscount(orderAmount)
	return &coupon.RemoteValidationResult{
		IsValid:  true,
		Discount: &discount,
		Coupon:   c,
	}, nil
}

func (s *InMemoryCouponStore) ApplyCoupon(ctx context.Context, code string, orderID string, orderAmount types.Money) (*coupon.CommitResult, error) {
	c, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	stored := s.coupons[coupon.NormalizeCode(code)]
	if stored != nil {
		stored.TotalUsageCount++
		stored.UserUsageCount++
	}
	s.mu.Unlock()

	discount := c.CalculateDiscount(orderAmount)
	return &coupon.CommitResult{
		Success:        true,
		DiscountAmount: discount,
		FinalAmount:    orderAmount.Sub(discount),
	}, nil
}
