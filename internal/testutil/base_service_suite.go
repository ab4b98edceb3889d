package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/parsapay/checkout/internal/cache"
	"github.com/parsapay/checkout/internal/config"
	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/gateway"
	"github.com/parsapay/checkout/internal/domain/wallet"
	"github.com/parsapay/checkout/internal/logger"
	"github.com/parsapay/checkout/internal/types"
	"github.com/parsapay/checkout/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CouponRepo  coupon.Repository
	GatewayRepo gateway.Repository
	WalletRepo  wallet.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	// Initialize validator
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.cache = cache.NewInMemoryCache()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CouponRepo:  NewInMemoryCouponStore(),
		GatewayRepo: NewInMemoryGatewayStore(),
		WalletRepo:  NewInMemoryWalletStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CouponRepo.(*InMemoryCouponStore).Clear()
	s.stores.GatewayRepo.(*InMemoryGatewayStore).Clear()
	s.stores.WalletRepo.(*InMemoryWalletStore).Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
