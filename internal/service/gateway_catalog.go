package service

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"

	"github.com/parsapay/checkout/internal/cache"
	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/wallet"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// RankContext carries the per-request inputs that influence gateway
// ordering beyond the amount itself
type RankContext struct {
	// Preferred pins a gateway type to the top of the ranking when set
	Preferred *types.PaymentGatewayType

	// UserID selects the wallet balance used for wallet eligibility
	UserID string
}

// RankedGateway is one catalog entry annotated for a specific quote total.
// Ineligible gateways stay in the list so the client can render them
// disabled with a reason.
type RankedGateway struct {
	Gateway             *gateway.Descriptor       `json:"gateway"`
	Eligible            bool                      `json:"eligible"`
	IneligibilityReason types.IneligibilityReason `json:"ineligibility_reason,omitempty"`
	Fee                 types.Money               `json:"fee"`
	PayableAmount       types.Money               `json:"payable_amount"`
}

// GatewayCatalogService ranks the available payment gateways for a quote
// total. Catalog and wallet snapshots are cached; Refresh forces both to
// be refetched from the collaborators.
type GatewayCatalogService interface {
	// Rank returns every available gateway annotated and ordered for the
	// given total. Amount limits are checked against the total alone; the
	// payable amount (total plus fee) is informational.
	Rank(ctx context.Context, total types.Money, rankCtx RankContext) ([]*RankedGateway, error)

	// Refresh drops the cached catalog and wallet snapshots and refetches
	// both concurrently
	Refresh(ctx context.Context, userID string) error
}

type gatewayCatalogService struct {
	ServiceParams
}

func NewGatewayCatalogService(params ServiceParams) GatewayCatalogService {
	return &gatewayCatalogService{ServiceParams: params}
}

func (s *gatewayCatalogService) Rank(ctx context.Context, total types.Money, rankCtx RankContext) ([]*RankedGateway, error) {
	if err := total.Validate(); err != nil {
		return nil, err
	}

	descriptors, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	// Unavailable gateways are dropped entirely; unhealthy ones stay,
	// annotated
	descriptors = lo.Filter(descriptors, func(d *gateway.Descriptor, _ int) bool {
		return d.IsAvailable
	})

	if len(descriptors) == 0 {
		return nil, ierr.NewError("no payment gateways available").
			WithHint("No payment method is currently available, please try again later").
			Mark(ierr.ErrGatewayUnavailable)
	}

	var balance *wallet.Balance
	if rankCtx.UserID != "" && lo.SomeBy(descriptors, func(d *gateway.Descriptor) bool { return d.IsWallet() }) {
		balance, err = s.walletBalance(ctx, rankCtx.UserID)
		if err != nil {
			// A wallet outage must not take down the whole catalog; the
			// wallet gateway is simply reported as unfunded
			s.Logger.Warnw("wallet balance lookup failed, treating wallet as unfunded",
				"user_id", rankCtx.UserID,
				"error", err)
			balance = nil
		}
	}

	ranked := make([]*RankedGateway, 0, len(descriptors))
	for _, d := range descriptors {
		ranked = append(ranked, s.annotate(d, total, balance))
	}

	s.sortRanked(ranked, rankCtx.Preferred, balance)
	return ranked, nil
}

// annotate computes eligibility and payable amount for one descriptor.
// Reasons are checked in a fixed order so annotation is deterministic:
// health first, then amount limits, then wallet funding.
func (s *gatewayCatalogService) annotate(d *gateway.Descriptor, total types.Money, balance *wallet.Balance) *RankedGateway {
	fee := d.Fee.Evaluate(total)
	rg := &RankedGateway{
		Gateway:       d,
		Eligible:      true,
		Fee:           fee,
		PayableAmount: total.Add(fee),
	}

	switch {
	case !d.IsHealthy:
		rg.Eligible = false
		rg.IneligibilityReason = types.IneligibilityReasonUnhealthy
	case !d.WithinLimits(total):
		rg.Eligible = false
		rg.IneligibilityReason = types.IneligibilityReasonAmountOutOfRange
	case d.IsWallet() && (balance == nil || !balance.Covers(rg.PayableAmount)):
		rg.Eligible = false
		rg.IneligibilityReason = types.IneligibilityReasonInsufficientWalletBalance
	}

	return rg
}

// sortRanked orders the annotated list: preferred gateway first, then
// eligible before ineligible, then funded wallet ahead of external
// gateways, then ascending fee, then the collaborator's priority hint.
// The stable sort keeps collaborator order for full ties.
func (s *gatewayCatalogService) sortRanked(ranked []*RankedGateway, preferred *types.PaymentGatewayType, balance *wallet.Balance) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if preferred != nil {
			aPref := a.Gateway.Type == *preferred
			bPref := b.Gateway.Type == *preferred
			if aPref != bPref {
				return aPref
			}
		}

		if a.Eligible != b.Eligible {
			return a.Eligible
		}

		aFunded := a.Gateway.IsWallet() && a.Eligible
		bFunded := b.Gateway.IsWallet() && b.Eligible
		if aFunded != bFunded {
			return aFunded
		}

		if a.Fee.Amount != b.Fee.Amount {
			return a.Fee.Amount < b.Fee.Amount
		}

		return a.Gateway.PriorityHint < b.Gateway.PriorityHint
	})
}

func (s *gatewayCatalogService) Refresh(ctx context.Context, userID string) error {
	s.Cache.Delete(ctx, cache.PrefixGatewayCatalog)
	if userID != "" {
		s.Cache.Delete(ctx, cache.PrefixWalletBalance+userID)
	}

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		_, err := s.catalog(ctx)
		return err
	})
	if userID != "" {
		p.Go(func(ctx context.Context) error {
			_, err := s.walletBalance(ctx, userID)
			return err
		})
	}
	return p.Wait()
}

// catalog returns the gateway descriptors, served from cache when fresh.
// The fetch is amount-free, so one cached snapshot is valid for every
// quote total within the TTL.
func (s *gatewayCatalogService) catalog(ctx context.Context) ([]*gateway.Descriptor, error) {
	if cached, found := s.Cache.Get(ctx, cache.PrefixGatewayCatalog); found {
		if descriptors, ok := cached.([]*gateway.Descriptor); ok {
			return descriptors, nil
		}
	}

	descriptors, err := s.GatewayRepo.GetAvailableGateways(ctx)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cache.PrefixGatewayCatalog, descriptors, s.Config.Gateways.CacheTTL)
	return descriptors, nil
}

// walletBalance returns the user's wallet balance, served from cache when
// fresh
func (s *gatewayCatalogService) walletBalance(ctx context.Context, userID string) (*wallet.Balance, error) {
	key := cache.PrefixWalletBalance + userID
	if cached, found := s.Cache.Get(ctx, key); found {
		if balance, ok := cached.(*wallet.Balance); ok {
			return balance, nil
		}
	}

	balance, err := s.WalletRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, balance, s.Config.Gateways.CacheTTL)
	return balance, nil
}
