package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/wallet"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/testutil"
	"github.com/parsapay/checkout/internal/types"
)

type GatewayCatalogServiceSuite struct {
	testutil.BaseServiceTestSuite
	catalog      GatewayCatalogService
	gatewayStore *testutil.InMemoryGatewayStore
	walletStore  *testutil.InMemoryWalletStore
}

func TestGatewayCatalogService(t *testing.T) {
	suite.Run(t, new(GatewayCatalogServiceSuite))
}

func (s *GatewayCatalogServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.gatewayStore = s.GetStores().GatewayRepo.(*testutil.InMemoryGatewayStore)
	s.walletStore = s.GetStores().WalletRepo.(*testutil.InMemoryWalletStore)
	s.catalog = NewGatewayCatalogService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		Cache:       s.GetCache(),
		CouponRepo:  s.GetStores().CouponRepo,
		GatewayRepo: s.GetStores().GatewayRepo,
		WalletRepo:  s.GetStores().WalletRepo,
	})
}

func flatGateway(gwType types.PaymentGatewayType, fee int64, healthy bool) *gateway.Descriptor {
	return &gateway.Descriptor{
		Type:        gwType,
		DisplayName: string(gwType),
		IsAvailable: true,
		IsHealthy:   healthy,
		Fee:         gateway.FeeSchedule{Type: types.FeeScheduleTypeFlat, FlatAmount: fee},
	}
}

func (s *GatewayCatalogServiceSuite) TestRankSortsByFee() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeMellat, 5_000, true),
		flatGateway(types.PaymentGatewayTypeZarinpal, 2_000, true),
	})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(types.PaymentGatewayTypeZarinpal, ranked[0].Gateway.Type)
	s.Equal(int64(1_002_000), ranked[0].PayableAmount.Amount)
}

func (s *GatewayCatalogServiceSuite) TestRankUnhealthyAnnotatedAndLast() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 2_000, false),
		flatGateway(types.PaymentGatewayTypeMellat, 5_000, true),
	})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(types.PaymentGatewayTypeMellat, ranked[0].Gateway.Type)
	s.True(ranked[0].Eligible)
	s.False(ranked[1].Eligible)
	s.Equal(types.IneligibilityReasonUnhealthy, ranked[1].IneligibilityReason)
}

func (s *GatewayCatalogServiceSuite) TestRankAmountOutOfRange() {
	gw := flatGateway(types.PaymentGatewayTypeZarinpal, 0, true)
	minAmount := types.NewMoney(10_000, types.DefaultCurrency)
	gw.MinAmount = &minAmount
	s.gatewayStore.SetGateways([]*gateway.Descriptor{gw})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(5_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(ranked, 1)
	s.False(ranked[0].Eligible)
	s.Equal(types.IneligibilityReasonAmountOutOfRange, ranked[0].IneligibilityReason)
}

func (s *GatewayCatalogServiceSuite) TestRankInsufficientWalletBalance() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeWallet, 0, true),
		flatGateway(types.PaymentGatewayTypeZarinpal, 2_000, true),
	})
	s.walletStore.SetBalance(&wallet.Balance{
		UserID:    types.DefaultUserID,
		Available: types.NewMoney(500_000, types.DefaultCurrency),
		UpdatedAt: time.Now().UTC(),
	})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(981_000, types.DefaultCurrency), RankContext{
		UserID: types.DefaultUserID,
	})
	s.NoError(err)
	s.Require().Len(ranked, 2)

	// The cheapest healthy external gateway wins; the unfunded wallet is
	// annotated, not hidden
	s.Equal(types.PaymentGatewayTypeZarinpal, ranked[0].Gateway.Type)
	s.Equal(types.PaymentGatewayTypeWallet, ranked[1].Gateway.Type)
	s.False(ranked[1].Eligible)
	s.Equal(types.IneligibilityReasonInsufficientWalletBalance, ranked[1].IneligibilityReason)
}

func (s *GatewayCatalogServiceSuite) TestRankFundedWalletFirst() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
		flatGateway(types.PaymentGatewayTypeWallet, 0, true),
	})
	s.walletStore.SetBalance(&wallet.Balance{
		UserID:    types.DefaultUserID,
		Available: types.NewMoney(2_000_000, types.DefaultCurrency),
		UpdatedAt: time.Now().UTC(),
	})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{
		UserID: types.DefaultUserID,
	})
	s.NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(types.PaymentGatewayTypeWallet, ranked[0].Gateway.Type)
}

func (s *GatewayCatalogServiceSuite) TestRankPreferredPinsFirst() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
		flatGateway(types.PaymentGatewayTypeMellat, 5_000, true),
	})

	preferred := types.PaymentGatewayTypeMellat
	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{
		Preferred: &preferred,
	})
	s.NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(types.PaymentGatewayTypeMellat, ranked[0].Gateway.Type)
}

func (s *GatewayCatalogServiceSuite) TestRankPercentageFeeFloors() {
	gw := flatGateway(types.PaymentGatewayTypeZarinpal, 0, true)
	gw.Fee = gateway.FeeSchedule{
		Type:       types.FeeScheduleTypePercentage,
		Percentage: decimal.RequireFromString("1.5"),
	}
	s.gatewayStore.SetGateways([]*gateway.Descriptor{gw})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(999, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(ranked, 1)
	s.Equal(int64(14), ranked[0].Fee.Amount) // 14.985 floors
}

func (s *GatewayCatalogServiceSuite) TestRankUnavailableDropped() {
	gw := flatGateway(types.PaymentGatewayTypeCrypto, 0, true)
	gw.IsAvailable = false
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		gw,
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
	})

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Len(ranked, 1)
}

func (s *GatewayCatalogServiceSuite) TestRankEmptyCatalogFails() {
	s.gatewayStore.SetGateways(nil)

	_, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.Error(err)
	s.True(ierr.IsGatewayUnavailable(err))
}

func (s *GatewayCatalogServiceSuite) TestRankUsesCachedCatalog() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
	})

	_, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	_, err = s.catalog.Rank(s.GetContext(), types.NewMoney(2_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)

	s.Equal(1, s.gatewayStore.CallCount())
}

// The cached snapshot carries no amount, so amount limits must be
// re-evaluated locally for every total it serves.
func (s *GatewayCatalogServiceSuite) TestCachedCatalogReevaluatesLimitsPerTotal() {
	gw := flatGateway(types.PaymentGatewayTypeZarinpal, 0, true)
	minAmount := types.NewMoney(10_000, types.DefaultCurrency)
	gw.MinAmount = &minAmount
	s.gatewayStore.SetGateways([]*gateway.Descriptor{gw})

	below, err := s.catalog.Rank(s.GetContext(), types.NewMoney(5_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(below, 1)
	s.False(below[0].Eligible)
	s.Equal(types.IneligibilityReasonAmountOutOfRange, below[0].IneligibilityReason)

	above, err := s.catalog.Rank(s.GetContext(), types.NewMoney(50_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)
	s.Require().Len(above, 1)
	s.True(above[0].Eligible)

	s.Equal(1, s.gatewayStore.CallCount())
}

func (s *GatewayCatalogServiceSuite) TestRefreshDropsCache() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
	})

	_, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{})
	s.NoError(err)

	s.NoError(s.catalog.Refresh(s.GetContext(), ""))
	s.Equal(2, s.gatewayStore.CallCount())
}

func (s *GatewayCatalogServiceSuite) TestRankWalletLookupFailureDegrades() {
	s.gatewayStore.SetGateways([]*gateway.Descriptor{
		flatGateway(types.PaymentGatewayTypeWallet, 0, true),
		flatGateway(types.PaymentGatewayTypeZarinpal, 0, true),
	})
	// No balance registered: the lookup fails but the quote survives

	ranked, err := s.catalog.Rank(s.GetContext(), types.NewMoney(1_000_000, types.DefaultCurrency), RankContext{
		UserID: "user-without-wallet",
	})
	s.NoError(err)
	s.Require().Len(ranked, 2)
	walletEntry := ranked[1]
	s.Equal(types.PaymentGatewayTypeWallet, walletEntry.Gateway.Type)
	s.False(walletEntry.Eligible)
	s.Equal(types.IneligibilityReasonInsufficientWalletBalance, walletEntry.IneligibilityReason)
}
