package service

import (
	"github.com/parsapay/checkout/internal/cache"
	"github.com/parsapay/checkout/internal/config"
	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/tax"
	"github.com/parsapay/checkout/internal/domain/wallet"
	"github.com/parsapay/checkout/internal/httpclient"
	"github.com/parsapay/checkout/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	CouponRepo  coupon.Repository
	GatewayRepo gateway.Repository
	WalletRepo  wallet.Repository

	// http client
	Client httpclient.Client
}

// NewServiceParams builds the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	couponRepo coupon.Repository,
	gatewayRepo gateway.Repository,
	walletRepo wallet.Repository,
	client httpclient.Client,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		Cache:       cache,
		CouponRepo:  couponRepo,
		GatewayRepo: gatewayRepo,
		WalletRepo:  walletRepo,
		Client:      client,
	}
}

// TaxRuleSetFromConfig parses the configured tax rules into a domain rule
// set. Config rates are strings; parsing happens once at the boundary and
// the closed types are consumed everywhere else.
func TaxRuleSetFromConfig(cfg config.TaxConfig) (*tax.RuleSet, error) {
	rules := make([]tax.Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		rate, err := parseRate(rc.Rate)
		if err != nil {
			return nil, err
		}
		rules = append(rules, tax.Rule{
			Kind:                   rc.Kind,
			Enabled:                rc.Enabled,
			RateType:               rc.RateType,
			Rate:                   rate,
			AppliesAfterOtherTaxes: rc.AppliesAfterOtherTaxes,
		})
	}
	return tax.NewRuleSet(cfg.PricingMode, cfg.Currency, rules)
}
