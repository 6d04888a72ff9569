package config

// Config is the main configuration carrier.
type Config struct {
	App    AppConfig    `toml:"app"`
	Store  StoreConfig  `toml:"store"`
	Broker BrokerConfig `toml:"broker"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

// StoreConfig points at the engine's sqlite files. Both are opened
// read-mostly; the engine owns the writes.
type StoreConfig struct {
	LedgerPath   string `toml:"ledger_path"`
	AuditLogPath string `toml:"audit_log_path"`
}

// BrokerConfig describes the brokerage API access.
type BrokerConfig struct {
	Enabled         bool   `toml:"enabled"`
	BaseURL         string `toml:"base_url"`
	OrderFetchLimit int    `toml:"order_fetch_limit"`
}
