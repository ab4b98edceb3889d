package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/parsapay/checkout/internal/api"
	v1 "github.com/parsapay/checkout/internal/api/v1"
	"github.com/parsapay/checkout/internal/cache"
	"github.com/parsapay/checkout/internal/config"
	"github.com/parsapay/checkout/internal/httpclient"
	"github.com/parsapay/checkout/internal/logger"
	"github.com/parsapay/checkout/internal/repository"
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Repositories
			repository.NewRepositoryParams,
			repository.NewCouponRepository,
			repository.NewGatewayRepository,
			repository.NewWalletRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewGatewayCatalogService,
			service.NewPricingPipelineService,
			service.NewCouponValidationClient,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	pricingService service.PricingPipelineService,
	validationClient service.CouponValidationClient,
	catalogService service.GatewayCatalogService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Pricing: v1.NewPricingHandler(pricingService, logger),
		Coupon:  v1.NewCouponHandler(validationClient, logger),
		Gateway: v1.NewGatewayHandler(catalogService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	validationClient service.CouponValidationClient,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			validationClient.Close()
			return nil
		},
	})
}
