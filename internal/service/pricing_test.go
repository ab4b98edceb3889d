package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/order"
	"github.com/parsapay/checkout/internal/domain/wallet"
	"github.com/parsapay/checkout/internal/testutil"
	"github.com/parsapay/checkout/internal/types"
)

type PricingPipelineServiceSuite struct {
	testutil.BaseServiceTestSuite
	pricing      PricingPipelineService
	couponStore  *testutil.InMemoryCouponStore
	gatewayStore *testutil.InMemoryGatewayStore
	walletStore  *testutil.InMemoryWalletStore
}

func TestPricingPipelineService(t *testing.T) {
	suite.Run(t, new(PricingPipelineServiceSuite))
}

func (s *PricingPipelineServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.couponStore = s.GetStores().CouponRepo.(*testutil.InMemoryCouponStore)
	s.gatewayStore = s.GetStores().GatewayRepo.(*testutil.InMemoryGatewayStore)
	s.walletStore = s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore)

	params := ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		Cache:       s.GetCache(),
		CouponRepo:  s.GetStores().CouponRepo,
		GatewayRepo: s.GetStores().GatewayRepo,
		WalletRepo:  s.GetStores().WalletRepo,
	}

	var err error
	s.pricing, err = NewPricingPipelineService(params, NewGatewayCatalogService(params))
	s.Require().NoError(err)

	// Default config carries VAT 9% exclusive
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 2_000, true),
	})
}

func (s *PricingPipelineServiceSuite) snapshot(subtotal int64) *order.Snapshot {
	snapshot, err := order.NewSnapshot(
		types.NewMoney(subtotal, types.DefaultCurrency),
		[]order.LineItem{{ItemID: "course-go-101", ItemType: types.ItemTypeCourse, Quantity: 1}},
	)
	s.Require().NoError(err)
	return snapshot
}

func (s *PricingPipelineServiceSuite) addPercentageCoupon(code string, rate string) {
	pct := decimal.RequireFromString(rate)
	s.couponStore.Add(&coupon.Coupon{
		ID:            "coupon-" + code,
		Code:          code,
		Type:          types.CouponTypePercentage,
		PercentageOff: &pct,
		Scope:         types.CouponScopeAll,
		Combinable:    true,
		Status:        types.CouponStatusActive,
	})
}

func (s *PricingPipelineServiceSuite) TestQuoteWithoutCoupons() {
	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot: s.snapshot(1_000_000),
	})
	s.NoError(err)

	s.Equal(int64(1_000_000), result.Subtotal.Amount)
	s.True(result.DiscountTotal.IsZero())
	s.Equal(int64(90_000), result.TaxBreakdown.TotalTax.Amount)
	s.Equal(int64(1_090_000), result.GrandTotal.Amount)
}

func (s *PricingPipelineServiceSuite) TestQuoteWithPercentageCoupon() {
	s.addPercentageCoupon("WELCOME10", "10")

	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot:    s.snapshot(1_000_000),
		CouponCodes: []string{"WELCOME10"},
	})
	s.NoError(err)

	s.Equal(int64(100_000), result.DiscountTotal.Amount)
	s.Equal(int64(900_000), result.DiscountedBase.Amount)
	s.Equal(int64(81_000), result.TaxBreakdown.TotalTax.Amount)
	s.Equal(int64(981_000), result.GrandTotal.Amount)
	s.Len(result.AppliedCoupons, 1)
	s.Empty(result.RejectedCoupons)
}

func (s *PricingPipelineServiceSuite) TestQuotePartialCouponFailure() {
	s.addPercentageCoupon("WELCOME10", "10")

	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot:    s.snapshot(1_000_000),
		CouponCodes: []string{"WELCOME10", "NOPE"},
	})
	s.NoError(err)

	// The bad code annotates the quote instead of failing it
	s.Len(result.AppliedCoupons, 1)
	s.Require().Len(result.RejectedCoupons, 1)
	s.Equal("NOPE", result.RejectedCoupons[0].Code)
	s.Equal(types.CouponValidationErrorCodeNotFound, result.RejectedCoupons[0].Error.Code)
	s.Equal(int64(981_000), result.GrandTotal.Amount)
}

func (s *PricingPipelineServiceSuite) TestQuoteRanksGatewaysOnGrandTotal() {
	s.addPercentageCoupon("WELCOME10", "10")
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeWallet, 0, true),
		flatGateway(types.PaymentGatewayTypeZarinpal, 2_000, true),
	})
	s.walletStore.SetBalance(&wallet.Balance{
		UserID:    types.DefaultUserID,
		Available: types.NewMoney(500_000, types.DefaultCurrency),
		UpdatedAt: time.Now().UTC(),
	})

	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot:    s.snapshot(1_000_000),
		CouponCodes: []string{"WELCOME10"},
		UserID:      types.DefaultUserID,
	})
	s.NoError(err)
	s.Require().Len(result.Gateways, 2)

	// Post-tax grand total 981,000 exceeds the 500,000 wallet balance
	s.Equal(types.PaymentGatewayTypeZarinpal, result.Gateways[0].Gateway.Type)
	s.Equal(types.PaymentGatewayTypeWallet, result.Gateways[1].Gateway.Type)
	s.False(result.Gateways[1].Eligible)
	s.Equal(types.IneligibilityReasonInsufficientWalletBalance, result.Gateways[1].IneligibilityReason)
}

func (s *PricingPipelineServiceSuite) TestQuoteGatewayMinimumUsesGrandTotal() {
	gw := flatGateway(types.PaymentGatewayTypeZarinpal, 0, true)
	minAmount := types.NewMoney(10_000, types.DefaultCurrency)
	gw.MinAmount = &minAmount
	s.gatewayStore.SetGateways([]*gateway.Descriptor{gw})

	// 4,587 + 9% VAT = 4,999 < 10,000
	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot: s.snapshot(4_587),
	})
	s.NoError(err)
	s.Require().Len(result.Gateways, 1)
	s.False(result.Gateways[0].Eligible)
	s.Equal(types.IneligibilityReasonAmountOutOfRange, result.Gateways[0].IneligibilityReason)
}

func (s *PricingPipelineServiceSuite) TestQuoteIdempotent() {
	s.addPercentageCoupon("WELCOME10", "10")

	input := QuoteInput{
		Snapshot:    s.snapshot(1_000_000),
		CouponCodes: []string{"WELCOME10"},
	}

	first, err := s.pricing.GetQuote(s.GetContext(), input)
	s.NoError(err)
	second, err := s.pricing.GetQuote(s.GetContext(), input)
	s.NoError(err)

	// Identical inputs against unchanged collaborator state must yield
	// identical results, applied-coupon entries included
	s.Equal(first, second)
	s.Equal(int64(981_000), second.GrandTotal.Amount)
}

func (s *PricingPipelineServiceSuite) TestQuoteInvariantOverStackedFixedCoupons() {
	off1 := types.NewMoney(700_000, types.DefaultCurrency)
	off2 := types.NewMoney(600_000, types.DefaultCurrency)
	s.couponStore.Add(&coupon.Coupon{
		ID: "c1", Code: "BIG1", Type: types.CouponTypeFixed, AmountOff: &off1,
		Scope: types.CouponScopeAll, Combinable: true, Status: types.CouponStatusActive,
	})
	s.couponStore.Add(&coupon.Coupon{
		ID: "c2", Code: "BIG2", Type: types.CouponTypeFixed, AmountOff: &off2,
		Scope: types.CouponScopeAll, Combinable: true, Status: types.CouponStatusActive,
	})

	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot:    s.snapshot(1_000_000),
		CouponCodes: []string{"BIG1", "BIG2"},
	})
	s.NoError(err)

	s.LessOrEqual(result.DiscountTotal.Amount, result.Subtotal.Amount)
	s.GreaterOrEqual(result.GrandTotal.Amount, int64(0))
	s.GreaterOrEqual(result.GrandTotal.Amount, result.Subtotal.Amount-result.DiscountTotal.Amount)
	s.True(result.DiscountedBase.IsZero())
	s.True(result.GrandTotal.IsZero())
}

func (s *PricingPipelineServiceSuite) TestQuoteNoGatewaysStillQuotes() {
	s.gatewayStore.SetGateways(nil)

	result, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{
		Snapshot: s.snapshot(1_000_000),
	})
	s.NoError(err)
	s.Empty(result.Gateways)
	s.Equal(int64(1_090_000), result.GrandTotal.Amount)
}

func (s *PricingPipelineServiceSuite) TestQuoteMissingSnapshotFails() {
	_, err := s.pricing.GetQuote(s.GetContext(), QuoteInput{})
	s.Error(err)
}
