package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/fundterm/agent"
	"github.com/etnz/fundterm/loader"
	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables overriding the configuration file.
const (
	EnvDataDir  = "FUNDTERM_DATA_DIR"
	EnvLogLevel = "FUNDTERM_LOG_LEVEL"
	EnvEODHDKey = "EODHD_API_KEY"
)

// Config is the content of fundterm.toml.
type Config struct {
	BaseCurrency    string   `toml:"base_currency"`
	DisplayCurrency string   `toml:"display_currency"`
	Currencies      []string `toml:"currencies"` // cycle order of the display currency

	Data    DataConfig    `toml:"data"`
	Remote  RemoteConfig  `toml:"remote"`
	EODHD   EODHDConfig   `toml:"eodhd"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Assist  AssistConfig  `toml:"assist"`
}

// DataConfig locates the data files.
type DataConfig struct {
	Dir          string `toml:"dir"`
	Transactions string `toml:"transactions"`
	Prices       string `toml:"prices"`
	Splits       string `toml:"splits"`
	Fx           string `toml:"fx"`
	Metadata     string `toml:"metadata"`
}

// RemoteConfig configures the HTTP source. The data directory is used when
// BaseURL is empty.
type RemoteConfig struct {
	BaseURL           string  `toml:"base_url"`
	CacheDir          string  `toml:"cache_dir"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	PricesPath        string  `toml:"prices_path"` // jsonpath
	FxPath            string  `toml:"fx_path"`     // jsonpath
}

// EODHDConfig enables eodhd.com as the source of quotes and splits when the
// API key is set.
type EODHDConfig struct {
	APIKey   string            `toml:"api_key"`
	Exchange string            `toml:"exchange"`
	Tickers  map[string]string `toml:"tickers"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

// AssistConfig configures the assistant.
type AssistConfig struct {
	Model string `toml:"model"`
}

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() *Config {
	return &Config{
		BaseCurrency: "USD",
		Data: DataConfig{
			Dir:          ".",
			Transactions: loader.DefaultTransactions,
			Prices:       loader.DefaultPrices,
			Splits:       loader.DefaultSplits,
			Fx:           loader.DefaultFx,
			Metadata:     loader.DefaultMetadata,
		},
		Remote: RemoteConfig{
			RequestsPerSecond: loader.DefaultRateLimit,
			Burst:             loader.DefaultRateLimit,
			PricesPath:        "$",
			FxPath:            "$",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Assist: AssistConfig{Model: agent.DefaultModel},
	}
}

// LoadConfig reads path over the defaults and applies the environment overrides.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(config)
	config.BaseCurrency = strings.ToUpper(config.BaseCurrency)
	config.DisplayCurrency = strings.ToUpper(config.DisplayCurrency)
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		config.Data.Dir = dir
	}
	if key := os.Getenv(EnvEODHDKey); key != "" {
		config.EODHD.APIKey = key
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Logging.Level = level
	}
}
