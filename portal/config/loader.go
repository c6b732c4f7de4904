package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/moonfun/moonfun-portal/curve"
	"github.com/moonfun/moonfun-portal/upload"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// LoadPortalConfig loads the portal config from the given path, or from the
// environment (MOONFUN_ prefix) when configPath is nil.
func LoadPortalConfig(configPath *string) (*PortalConfig, error) {
	v := viper.New()

	if configPath == nil {
		// if no file expect envs
		config, err := loadEnv(v)
		if err != nil {
			return nil, fmt.Errorf("failed to load env config: %w", err)
		}
		return config, nil
	}

	config, err := loadFile(v, *configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load file config: %w", err)
	}
	return config, nil
}

func loadEnv(v *viper.Viper) (*PortalConfig, error) {
	// godotenv might fail if the .env file is missing, but env can be
	// applied through docker, systemd or other means, so skip the error
	_ = godotenv.Load()
	v.SetEnvPrefix("MOONFUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	var config PortalConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal env config: %w", err)
	}
	if err := verifyConfig(&config); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return &config, nil
}

// bindEnvKeys binds each config key to its env var so Unmarshal sees env
// values when no config file is loaded (env-only mode).
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"host", "port", "allowed_origins",
		"rate_per_minute", "max_concurrent_requests",
		"initial_price", "price_increment", "creator_allocation", "slippage_bps",
		"max_image_bytes", "imgbb_api_key",
		"cache_dir", "cache_max_dimension",
		"rpc_url", "backup_rpc_urls", "indexer_url", "token_address", "poll_seconds",
		"service_name", "service_version", "environment",
		"enable_tracing", "use_otlp_traces", "otlp_traces_url",
		"enable_metrics", "use_prometheus", "use_otlp_metrics", "otlp_metrics_url",
		"enable_logs", "use_otlp_logs", "otlp_logs_url",
		"insecure_otlp", "development_mode",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func loadFile(v *viper.Viper, configPath string) (*PortalConfig, error) {
	if !strings.HasSuffix(configPath, ".toml") {
		return nil, fmt.Errorf("config file must be a toml file")
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config PortalConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := verifyConfig(&config); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return &config, nil
}

func verifyConfig(config *PortalConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}
	if config.RPCURL == "" {
		return fmt.Errorf("rpc_url is required")
	}
	if config.TokenAddress == "" {
		return fmt.Errorf("token_address is required")
	}
	if config.SlippageBps >= 10000 {
		return fmt.Errorf("slippage_bps must be below 10000")
	}
	if config.MaxImageBytes < 0 {
		return fmt.Errorf("max_image_bytes must not be negative")
	}
	return nil
}

// CurveParams converts the configured curve constants into curve.Params,
// falling back to the reference deployment for any field left empty.
func (c *PortalConfig) CurveParams() (curve.Params, error) {
	params := curve.DefaultParams()

	if c.InitialPrice != "" {
		p, err := decimal.NewFromString(c.InitialPrice)
		if err != nil {
			return curve.Params{}, fmt.Errorf("bad initial_price: %w", err)
		}
		params.InitialPrice = p
	}
	if c.PriceIncrement != "" {
		p, err := decimal.NewFromString(c.PriceIncrement)
		if err != nil {
			return curve.Params{}, fmt.Errorf("bad price_increment: %w", err)
		}
		params.PriceIncrement = p
	}
	if c.CreatorAllocation != "" {
		p, err := decimal.NewFromString(c.CreatorAllocation)
		if err != nil {
			return curve.Params{}, fmt.Errorf("bad creator_allocation: %w", err)
		}
		params.CreatorAllocation = p
	}
	if c.SlippageBps != 0 {
		params.SlippageBps = c.SlippageBps
	}

	if err := params.Validate(); err != nil {
		return curve.Params{}, err
	}
	return params, nil
}

// UploadLimits returns the configured upload ceiling.
func (c *PortalConfig) UploadLimits() upload.Limits {
	if c.MaxImageBytes <= 0 {
		return upload.DefaultLimits()
	}
	return upload.Limits{MaxBytes: c.MaxImageBytes}
}
