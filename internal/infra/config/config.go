package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is built once at startup and passed by pointer to everything that needs it.
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	App      AppConfig      `mapstructure:"app"`
}

type TelegramConfig struct {
	Token          string `mapstructure:"token"`
	UpdateTimeout  int    `mapstructure:"update_timeout"`  // long-poll timeout, seconds
	HandlerTimeout int    `mapstructure:"handler_timeout"` // per-update ceiling, seconds
}

// ChainConfig describes the network the bot reports on. ExplorerChainID is the numeric id
// used by the Etherscan v2 API; DexChainID is the DexScreener chain slug.
type ChainConfig struct {
	Name            string `mapstructure:"name"`
	ExplorerChainID int64  `mapstructure:"explorer_chain_id"`
	DexChainID      string `mapstructure:"dex_chain_id"`
	ExplorerName    string `mapstructure:"explorer_name"`
	AddressURL      string `mapstructure:"address_url"` // printf template, one %s
	ChartURL        string `mapstructure:"chart_url"`   // printf template, one %s
}

type UpstreamConfig struct {
	EtherscanURL    string        `mapstructure:"etherscan_url"`
	EtherscanAPIKey string        `mapstructure:"etherscan_api_key"`
	CoinGeckoURL    string        `mapstructure:"coingecko_url"`
	DexScreenerURL  string        `mapstructure:"dexscreener_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxResponseSize int64         `mapstructure:"max_response_size"`
}

type AnalysisConfig struct {
	TransferLimit int    `mapstructure:"transfer_limit"`
	MaxSummaries  int    `mapstructure:"max_summaries"`
	TrendingQuery string `mapstructure:"trending_query"`
	TrendingTopN  int    `mapstructure:"trending_top_n"`
}

type AppConfig struct {
	LogsDir  string `mapstructure:"logs_dir"`
	LogLevel string `mapstructure:"log_level"`
	OpsAddr  string `mapstructure:"ops_addr"` // empty disables /health and /metrics
}

// LoadConfig reads configuration in increasing priority:
// 1. defaults
// 2. config.yaml
// 3. .env file
// 4. environment
// 5. command line flags (only those registered on flags)
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setupEnvAliases(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Names used by the original deployment.
	v.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	v.BindEnv("upstream.etherscan_api_key", "ETHERSCAN_API_KEY")

	v.BindEnv("telegram.update_timeout", "TELEGRAM_UPDATE_TIMEOUT")
	v.BindEnv("telegram.handler_timeout", "TELEGRAM_HANDLER_TIMEOUT")

	v.BindEnv("chain.name", "CHAIN_NAME")
	v.BindEnv("chain.explorer_chain_id", "CHAIN_EXPLORER_ID")
	v.BindEnv("chain.dex_chain_id", "CHAIN_DEX_ID")

	v.BindEnv("upstream.etherscan_url", "ETHERSCAN_URL")
	v.BindEnv("upstream.coingecko_url", "COINGECKO_URL")
	v.BindEnv("upstream.dexscreener_url", "DEXSCREENER_URL")
	v.BindEnv("upstream.timeout", "UPSTREAM_TIMEOUT")

	v.BindEnv("analysis.transfer_limit", "TRANSFER_LIMIT")
	v.BindEnv("analysis.max_summaries", "MAX_SUMMARIES")

	v.BindEnv("app.logs_dir", "LOGS_DIR")
	v.BindEnv("app.log_level", "LOG_LEVEL")
	v.BindEnv("app.ops_addr", "OPS_ADDR")
}

func setDefaults(v *viper.Viper) {
	// Telegram
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.update_timeout", 60)
	v.SetDefault("telegram.handler_timeout", 30)

	// Chain (Base mainnet)
	v.SetDefault("chain.name", "Base")
	v.SetDefault("chain.explorer_chain_id", 8453)
	v.SetDefault("chain.dex_chain_id", "base")
	v.SetDefault("chain.explorer_name", "Basescan")
	v.SetDefault("chain.address_url", "https://basescan.org/address/%s")
	v.SetDefault("chain.chart_url", "https://dexscreener.com/base/%s")

	// Upstream
	v.SetDefault("upstream.etherscan_url", "https://api.etherscan.io/v2/api")
	v.SetDefault("upstream.etherscan_api_key", "")
	v.SetDefault("upstream.coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("upstream.dexscreener_url", "https://api.dexscreener.com")
	v.SetDefault("upstream.timeout", 5*time.Second)
	v.SetDefault("upstream.max_response_size", 10*1024*1024) // 10MB

	// Analysis
	v.SetDefault("analysis.transfer_limit", 30)
	v.SetDefault("analysis.max_summaries", 8)
	v.SetDefault("analysis.trending_query", "base")
	v.SetDefault("analysis.trending_top_n", 10)

	// App
	v.SetDefault("app.logs_dir", "logs")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.ops_addr", "")
}

func validateConfig(cfg *Config) error {
	if cfg.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	if cfg.Analysis.TransferLimit <= 0 {
		return fmt.Errorf("analysis.transfer_limit must be positive")
	}
	if !strings.Contains(cfg.Chain.AddressURL, "%s") || !strings.Contains(cfg.Chain.ChartURL, "%s") {
		return fmt.Errorf("chain.address_url and chain.chart_url must contain %%s")
	}
	return nil
}

// RequireBot checks what the Telegram front-end needs on top of the base validation.
func (c *Config) RequireBot() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required (env: TELEGRAM_TOKEN)")
	}
	return c.RequireExplorer()
}

// RequireExplorer checks the explorer key used by balance and transfer lookups.
func (c *Config) RequireExplorer() error {
	if c.Upstream.EtherscanAPIKey == "" {
		return fmt.Errorf("upstream.etherscan_api_key is required (env: ETHERSCAN_API_KEY)")
	}
	return nil
}

func (c *Config) HandlerTimeout() time.Duration {
	if c.Telegram.HandlerTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Telegram.HandlerTimeout) * time.Second
}
