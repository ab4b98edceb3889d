package coupon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/types"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "welcome10", NormalizeCode("  WELCOME10 "))
	assert.Equal(t, "save50000", NormalizeCode("Save50000"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestCalculateDiscount(t *testing.T) {
	subtotal := types.NewMoney(1_000_000, types.DefaultCurrency)
	ten := decimal.RequireFromString("10")
	cap100k := types.NewMoney(100_000, types.DefaultCurrency)
	off50k := types.NewMoney(50_000, types.DefaultCurrency)
	off2m := types.NewMoney(2_000_000, types.DefaultCurrency)

	tests := []struct {
		name   string
		coupon Coupon
		want   int64
	}{
		{
			name:   "percentage",
			coupon: Coupon{Type: types.CouponTypePercentage, PercentageOff: &ten},
			want:   100_000,
		},
		{
			name: "percentage capped by max discount",
			coupon: Coupon{
				Type:          types.CouponTypePercentage,
				PercentageOff: pct50(),
				MaxDiscount:   &cap100k,
			},
			want: 100_000,
		},
		{
			name:   "fixed amount",
			coupon: Coupon{Type: types.CouponTypeFixed, AmountOff: &off50k},
			want:   50_000,
		},
		{
			name:   "fixed amount capped at subtotal",
			coupon: Coupon{Type: types.CouponTypeFixed, AmountOff: &off2m},
			want:   1_000_000,
		},
		{
			name:   "percentage without rate",
			coupon: Coupon{Type: types.CouponTypePercentage},
			want:   0,
		},
		{
			name:   "fixed without amount",
			coupon: Coupon{Type: types.CouponTypeFixed},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.coupon.CalculateDiscount(subtotal)
			assert.Equal(t, tt.want, got.Amount)
		})
	}
}

func pct50() *decimal.Decimal {
	d := decimal.RequireFromString("50")
	return &d
}

func TestAppliesTo(t *testing.T) {
	snapshot, err := order.NewSnapshot(
		types.NewMoney(1_000_000, types.DefaultCurrency),
		[]order.LineItem{{ItemID: "course-go-101", ItemType: types.ItemTypeCourse, Quantity: 1}},
	)
	assert.NoError(t, err)

	all := Coupon{Scope: types.CouponScopeAll}
	assert.True(t, all.AppliesTo(snapshot))

	courses := Coupon{Scope: types.CouponScopeItemTypes, ItemTypes: []types.ItemType{types.ItemTypeCourse}}
	assert.True(t, courses.AppliesTo(snapshot))

	workshops := Coupon{Scope: types.CouponScopeItemTypes, ItemTypes: []types.ItemType{types.ItemTypeWorkshop}}
	assert.False(t, workshops.AppliesTo(snapshot))

	exact := Coupon{Scope: types.CouponScopeItems, ItemIDs: []string{"course-go-101"}}
	assert.True(t, exact.AppliesTo(snapshot))

	other := Coupon{Scope: types.CouponScopeItems, ItemIDs: []string{"course-rust-201"}}
	assert.False(t, other.AppliesTo(snapshot))
}
