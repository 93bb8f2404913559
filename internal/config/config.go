package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server   ServerConfig   `validate:"required"`
	Checkout CheckoutConfig `validate:"required"`
	Catalog  CatalogConfig  `validate:"required"`
	Cache    CacheConfig
	Logging  LoggingConfig `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

// CheckoutConfig holds defaults applied to every new checkout
type CheckoutConfig struct {
	// DefaultCurrency is the resolved currency while the checkout holds
	// no subscriptions
	DefaultCurrency string `validate:"required,len=3"`
}

// CatalogConfig points at the remote plan/coupon/gift-card/tax catalog
type CatalogConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required"`
	APIKey       string `mapstructure:"api_key"`
	RetryMax     int    `mapstructure:"retry_max"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	TaxRetryMax  int    `mapstructure:"tax_retry_max"`
}

type CacheConfig struct {
	Enabled bool
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/checkout-pricing")

	v.SetEnvPrefix("CHECKOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// config file is optional, env vars and defaults are enough
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("checkout.defaultcurrency", "USD")
	v.SetDefault("catalog.base_url", "https://api.recurly.com/js/v1")
	v.SetDefault("catalog.retry_max", 3)
	v.SetDefault("catalog.timeout_secs", 30)
	v.SetDefault("catalog.tax_retry_max", 5)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("logging.level", string(types.LogLevelInfo))
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a configuration suitable for tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:   ServerConfig{Address: ":8080"},
		Checkout: CheckoutConfig{DefaultCurrency: "USD"},
		Catalog: CatalogConfig{
			BaseURL:     "http://localhost:9090",
			RetryMax:    1,
			TimeoutSecs: 5,
			TaxRetryMax: 1,
		},
		Cache:   CacheConfig{Enabled: false},
		Logging: LoggingConfig{Level: types.LogLevelInfo},
	}
}
