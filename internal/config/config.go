package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	defaultAppEnv       = "dev"
	defaultAppLogLevel  = "info"
	defaultAppHTTPAddr  = ":8085"
	defaultLedgerPath   = "/data/db/engine_state.db"
	defaultAuditLogPath = "/data/db/engine_audit.db"
	defaultBrokerURL    = "https://paper-api.alpaca.markets"
	defaultFetchLimit   = 100
)

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = defaultAppEnv
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultAppLogLevel
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		c.App.HTTPAddr = defaultAppHTTPAddr
	}
	if strings.TrimSpace(c.Store.LedgerPath) == "" {
		c.Store.LedgerPath = defaultLedgerPath
	}
	if strings.TrimSpace(c.Store.AuditLogPath) == "" {
		c.Store.AuditLogPath = defaultAuditLogPath
	}
	if strings.TrimSpace(c.Broker.BaseURL) == "" {
		c.Broker.BaseURL = defaultBrokerURL
	}
	if c.Broker.OrderFetchLimit <= 0 {
		c.Broker.OrderFetchLimit = defaultFetchLimit
	}
}

func validate(c *Config) error {
	switch strings.ToLower(strings.TrimSpace(c.App.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug/info/warn/error, got %q", c.App.LogLevel)
	}
	if !strings.Contains(c.App.HTTPAddr, ":") {
		return fmt.Errorf("app.http_addr must contain a port, got %q", c.App.HTTPAddr)
	}
	if c.Broker.OrderFetchLimit > 500 {
		return fmt.Errorf("broker.order_fetch_limit must be <= 500, got %d", c.Broker.OrderFetchLimit)
	}
	return nil
}
