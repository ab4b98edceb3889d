package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/parsapay/checkout/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Tax        TaxConfig        `validate:"required"`
	Registry   RegistryConfig   `validate:"required"`
	Gateways   GatewaysConfig   `validate:"required"`
	Wallet     WalletConfig
	Validation ValidationConfig `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// TaxConfig declares the ordered tax rule set applied to every quote.
// Rates are strings so fractional percentages survive the yaml round trip
// without ever touching a float.
type TaxConfig struct {
	PricingMode types.PricingMode `mapstructure:"pricing_mode" validate:"required"`
	Currency    string            `mapstructure:"currency"`
	Rules       []TaxRuleConfig   `mapstructure:"rules"`
}

type TaxRuleConfig struct {
	Kind                   types.TaxRuleKind `mapstructure:"kind" validate:"required"`
	Enabled                bool              `mapstructure:"enabled"`
	RateType               types.TaxRateType `mapstructure:"rate_type" validate:"required"`
	Rate                   string            `mapstructure:"rate" validate:"required"`
	AppliesAfterOtherTaxes bool              `mapstructure:"applies_after_other_taxes"`
}

// RegistryConfig points at the external coupon registry service
type RegistryConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GatewaysConfig points at the external gateway status service. CacheTTL
// bounds how stale a catalog snapshot may be before a quote triggers a
// background refresh.
type GatewaysConfig struct {
	BaseURL   string                   `mapstructure:"base_url" validate:"required"`
	Timeout   time.Duration            `mapstructure:"timeout"`
	CacheTTL  time.Duration            `mapstructure:"cache_ttl"`
	Preferred types.PaymentGatewayType `mapstructure:"preferred"`
}

// WalletConfig points at the wallet balance service. Optional; without it
// the wallet gateway is never ranked eligible.
type WalletConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ValidationConfig tunes the debounced coupon validation boundary
type ValidationConfig struct {
	DebounceInterval time.Duration `mapstructure:"debounce_interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/checkout")

	// Set up environment variables support
	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Configuration) applyDefaults() {
	if c.Tax.Currency == "" {
		c.Tax.Currency = types.DefaultCurrency
	}
	if c.Registry.Timeout == 0 {
		c.Registry.Timeout = 8 * time.Second
	}
	if c.Gateways.Timeout == 0 {
		c.Gateways.Timeout = 8 * time.Second
	}
	if c.Gateways.CacheTTL == 0 {
		c.Gateways.CacheTTL = 30 * time.Second
	}
	if c.Wallet.Timeout == 0 {
		c.Wallet.Timeout = 8 * time.Second
	}
	if c.Validation.DebounceInterval == 0 {
		c.Validation.DebounceInterval = 300 * time.Millisecond
	}
	if c.Validation.Timeout == 0 {
		c.Validation.Timeout = 8 * time.Second
	}
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Tax.PricingMode.Validate(); err != nil {
		return err
	}
	for _, rule := range c.Tax.Rules {
		if err := rule.Kind.Validate(); err != nil {
			return err
		}
		if err := rule.RateType.Validate(); err != nil {
			return err
		}
	}
	if c.Gateways.Preferred != "" {
		if err := c.Gateways.Preferred.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Tax: TaxConfig{
			PricingMode: types.PricingModeExclusive,
			Currency:    types.DefaultCurrency,
			Rules: []TaxRuleConfig{
				{
					Kind:     types.TaxRuleKindVAT,
					Enabled:  true,
					RateType: types.TaxRateTypePercentage,
					Rate:     "9",
				},
			},
		},
		Registry: RegistryConfig{
			BaseURL: "http://localhost:9090",
			Timeout: 8 * time.Second,
		},
		Gateways: GatewaysConfig{
			BaseURL:  "http://localhost:9091",
			Timeout:  8 * time.Second,
			CacheTTL: 30 * time.Second,
		},
		Wallet: WalletConfig{
			BaseURL: "http://localhost:9092",
			Timeout: 8 * time.Second,
		},
		Validation: ValidationConfig{
			DebounceInterval: 300 * time.Millisecond,
			Timeout:          8 * time.Second,
		},
	}
}
