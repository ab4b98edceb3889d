package gateway

import (
	"github.com/shopspring/decimal"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// FeeSchedule describes how a gateway charges its fee. Flat schedules carry
// a minor-unit amount, percentage schedules a decimal percentage of the
// total.
type FeeSchedule struct {
	Type       types.FeeScheduleType `json:"type"`
	FlatAmount int64                 `json:"flat_amount,omitempty"`
	Percentage decimal.Decimal       `json:"percentage,omitempty"`
}

// Evaluate computes the fee for a given total using Money semantics, so
// percentage fees floor like every other percentage in the core.
func (f FeeSchedule) Evaluate(total types.Money) types.Money {
	switch f.Type {
	case types.FeeScheduleTypePercentage:
		return total.PercentageOf(f.Percentage)
	default:
		return types.NewMoney(f.FlatAmount, total.Currency)
	}
}

func (f FeeSchedule) Validate() error {
	if err := f.Type.Validate(); err != nil {
		return err
	}
	if f.FlatAmount < 0 || f.Percentage.IsNegative() {
		return ierr.NewError("negative gateway fee").
			WithHint("Gateway fees must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Features flags the capabilities a gateway advertises
type Features struct {
	InstantConfirmation bool `json:"instant_confirmation"`
	SupportsRefund      bool `json:"supports_refund"`
	SupportsInstallment bool `json:"supports_installment"`
}

// Descriptor describes one payment gateway as reported by the gateway
// status collaborator. Read-only to this core; health may be stale up to
// the collaborator's own TTL.
type Descriptor struct {
	Type         types.PaymentGatewayType `json:"type"`
	DisplayName  string                   `json:"display_name"`
	IsAvailable  bool                     `json:"is_available"`
	IsHealthy    bool                     `json:"is_healthy"`
	MinAmount    *types.Money             `json:"min_amount,omitempty"`
	MaxAmount    *types.Money             `json:"max_amount,omitempty"`
	Fee          FeeSchedule              `json:"fee_schedule"`
	Features     Features                 `json:"features"`
	PriorityHint int                      `json:"priority_hint"`
}

// WithinLimits reports whether the amount falls inside the gateway's
// configured [min, max] range
func (d *Descriptor) WithinLimits(amount types.Money) bool {
	if d.MinAmount != nil && amount.LessThan(*d.MinAmount) {
		return false
	}
	if d.MaxAmount != nil && amount.GreaterThan(*d.MaxAmount) {
		return false
	}
	return true
}

// IsWallet reports whether this descriptor is the internal wallet gateway
func (d *Descriptor) IsWallet() bool {
	return d.Type == types.PaymentGatewayTypeWallet
}
