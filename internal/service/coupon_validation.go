package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/order"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// ValidationOutcome is delivered to the caller when a debounced validation
// settles. Exactly one of Result or Err is set unless the outcome was
// superseded.
type ValidationOutcome struct {
	Code   string
	Result *ValidationResult
	Err    error

	// Superseded is set when the ledger mutated while this validation was
	// in flight. The result must not be shown; a fresh validation has
	// already been, or will be, scheduled.
	Superseded bool
}

// CouponValidationClient fronts the remote coupon registry for interactive
// validation while the customer is still typing. Requests are debounced
// per code, deduplicated while in flight, and bounded by a hard timeout.
type CouponValidationClient interface {
	// ValidateDebounced schedules a validation for the code. Repeated
	// calls for the same code within the debounce interval collapse to a
	// single request, and only the most recently scheduled validation
	// across all codes delivers a result; anything older settles as
	// superseded. The outcome is delivered asynchronously to fn.
	ValidateDebounced(ctx context.Context, code string, snapshot *order.Snapshot, ledger CouponLedgerService, fn func(ValidationOutcome))

	// ValidateNow validates the code immediately, still deduplicated with
	// any in-flight request for the same code
	ValidateNow(ctx context.Context, code string, snapshot *order.Snapshot) (*ValidationResult, error)

	// Close cancels all pending debounce timers
	Close()
}

type pendingValidation struct {
	timer    *time.Timer
	seq      uint64
	snapshot *order.Snapshot
	version  uint64
	fn       func(ValidationOutcome)
}

type couponValidationClient struct {
	ServiceParams

	debounce time.Duration
	timeout  time.Duration

	group singleflight.Group

	mu      sync.Mutex
	pending map[string]*pendingValidation
	seq     uint64
	closed  bool
}

func NewCouponValidationClient(params ServiceParams) CouponValidationClient {
	return &couponValidationClient{
		ServiceParams: params,
		debounce:      params.Config.Validation.DebounceInterval,
		timeout:       params.Config.Validation.Timeout,
		pending:       make(map[string]*pendingValidation),
	}
}

func (c *couponValidationClient) ValidateDebounced(ctx context.Context, code string, snapshot *order.Snapshot, ledger CouponLedgerService, fn func(ValidationOutcome)) {
	normalized := coupon.NormalizeCode(code)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.seq++
	seq := c.seq

	// Reset any pending timer for this code so only the latest keystroke
	// fires
	if prev, ok := c.pending[normalized]; ok {
		prev.timer.Stop()
	}

	p := &pendingValidation{
		seq:      seq,
		snapshot: snapshot,
		version:  ledger.Version(),
		fn:       fn,
	}
	p.timer = time.AfterFunc(c.debounce, func() {
		c.fire(ctx, normalized, seq, ledger)
	})
	c.pending[normalized] = p
	c.mu.Unlock()
}

// fire runs when a debounce timer elapses. It re-checks that it is still
// the latest scheduled validation for the code before doing any work.
func (c *couponValidationClient) fire(ctx context.Context, code string, seq uint64, ledger CouponLedgerService) {
	c.mu.Lock()
	p, ok := c.pending[code]
	if !ok || p.seq != seq || c.closed {
		c.mu.Unlock()
		return
	}
	delete(c.pending, code)
	c.mu.Unlock()

	result, err := c.ValidateNow(ctx, code, p.snapshot)

	// Latest-wins: any validation scheduled after this one, for this code
	// or another, makes this result stale
	c.mu.Lock()
	stale := c.seq != seq
	c.mu.Unlock()

	outcome := ValidationOutcome{Code: code, Result: result, Err: err}
	if stale || ledger.Version() != p.version {
		outcome.Superseded = true
		outcome.Result = nil
		outcome.Err = nil
	}
	p.fn(outcome)
}

func (c *couponValidationClient) ValidateNow(ctx context.Context, code string, snapshot *order.Snapshot) (*ValidationResult, error) {
	normalized := coupon.NormalizeCode(code)

	// Concurrent validations of the same code share one request
	v, err, _ := c.group.Do(normalized, func() (interface{}, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return c.validate(reqCtx, normalized, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ValidationResult), nil
}

func (c *couponValidationClient) validate(ctx context.Context, code string, snapshot *order.Snapshot) (*ValidationResult, error) {
	cp, err := c.CouponRepo.GetByCode(ctx, code)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, &CouponValidationError{
				Code:    types.CouponValidationErrorCodeNotFound,
				Message: "Coupon not found",
				Details: map[string]interface{}{"code": code},
			}
		}
		if ierr.IsTimeout(err) || ctx.Err() == context.DeadlineExceeded {
			return nil, &CouponValidationError{
				Code:    types.CouponValidationErrorCodeTimeout,
				Message: "Coupon validation timed out",
				Details: map[string]interface{}{"code": code},
			}
		}
		return nil, err
	}

	if err := validateCouponRules(cp, snapshot); err != nil {
		return nil, err
	}

	return &ValidationResult{
		Coupon:   cp,
		Discount: cp.CalculateDiscount(snapshot.Subtotal),
	}, nil
}

func (c *couponValidationClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for code, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, code)
	}
}
