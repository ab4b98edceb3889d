package repository

import (
	"github.com/parsapay/checkout/internal/config"
	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/wallet"
	"github.com/parsapay/checkout/internal/httpclient"
	"github.com/parsapay/checkout/internal/logger"
)

// RepositoryParams holds the dependencies shared by all collaborator
// repositories
type RepositoryParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Client httpclient.Client
}

// NewRepositoryParams builds the common repository dependencies
func NewRepositoryParams(
	logger *logger.Logger,
	config *config.Configuration,
	client httpclient.Client,
) RepositoryParams {
	return RepositoryParams{
		Logger: logger,
		Config: config,
		Client: client,
	}
}

func NewCouponRepository(params RepositoryParams) coupon.Repository {
	return &couponRepository{
		RepositoryParams: params,
		baseURL:          params.Config.Registry.BaseURL,
	}
}

func NewGatewayRepository(params RepositoryParams) gateway.Repository {
	return &gatewayRepository{
		RepositoryParams: params,
		baseURL:          params.Config.Gateways.BaseURL,
	}
}

func NewWalletRepository(params RepositoryParams) wallet.Repository {
	return &walletRepository{
		RepositoryParams: params,
		baseURL:          params.Config.Wallet.BaseURL,
	}
}
