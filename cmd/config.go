package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/returns"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the pfa configuration.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Policy PolicyConfig `toml:"policy"`
	Log    LogConfig    `toml:"log"`
	Render RenderConfig `toml:"render"`
}

// DataConfig locates the input files.
type DataConfig struct {
	Ledger    string `toml:"ledger"`    // JSONL transactions
	Prices    string `toml:"prices"`    // JSONL closes, or a JSON document with PricesPath
	Policy    string `toml:"policy"`    // JSON cash policy, replaces the [policy] section
	Benchmark string `toml:"benchmark"` // benchmark ticker in the prices
	Portfolio string `toml:"portfolio"` // restrict the ledger to one portfolio id
	// PricesPath is a JSONPath selecting the benchmark [{date, close}] in the prices file.
	PricesPath string `toml:"prices_path"`
	// Calendar is the state date axis: "trading" (US market days) or "daily".
	Calendar string `toml:"calendar"`
}

// PolicyConfig is the inline cash policy.
type PolicyConfig struct {
	Currency string                `toml:"currency"`
	DayCount float64               `toml:"day_count"`
	APY      []returns.RawAPYEntry `toml:"apy"`
	// PostingDay is the day of month monthly interest is posted on, 0 for the last day.
	PostingDay int `toml:"posting_day"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// RenderConfig holds terminal rendering configuration.
type RenderConfig struct {
	// Style is a glamour standard style, "auto", or "raw" to print plain markdown.
	Style string `toml:"style"`
	Width int    `toml:"width"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Ledger:    "transactions.jsonl",
			Prices:    "prices.jsonl",
			Benchmark: "SPY",
			Calendar:  "trading",
		},
		Policy: PolicyConfig{
			Currency: returns.DefaultCurrency,
			DayCount: returns.DefaultDayCount,
		},
		Log: LogConfig{
			Level:  "warning",
			Format: "text",
		},
		Render: RenderConfig{
			Style: "auto",
			Width: 120,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
//
// Files are merged in order, later files override earlier ones. Missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// Environment variables overriding the configuration files.
const (
	EnvLedger    = "PFA_LEDGER"
	EnvPrices    = "PFA_PRICES"
	EnvPolicy    = "PFA_POLICY"
	EnvBenchmark = "PFA_BENCHMARK"
	EnvLogLevel  = "PFA_LOG_LEVEL"
	EnvLogFormat = "PFA_LOG_FORMAT"
)

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv(EnvLedger); v != "" {
		config.Data.Ledger = v
	}
	if v := os.Getenv(EnvPrices); v != "" {
		config.Data.Prices = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		config.Data.Policy = v
	}
	if v := os.Getenv(EnvBenchmark); v != "" {
		config.Data.Benchmark = strings.ToUpper(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		config.Log.Format = v
	}
}

// CashPolicy returns the normalized cash policy: the policy file when set, else the
// [policy] section.
func (c *Config) CashPolicy() (returns.CashPolicy, error) {
	if c.Data.Policy == "" {
		return returns.NormalizeCashPolicy(returns.RawCashPolicy{
			Currency:    c.Policy.Currency,
			APYTimeline: c.Policy.APY,
			DayCount:    c.Policy.DayCount,
		}), nil
	}
	f, err := os.Open(c.Data.Policy)
	if err != nil {
		return returns.CashPolicy{}, fmt.Errorf("failed to open cash policy: %w", err)
	}
	defer f.Close()
	policy, err := returns.DecodeCashPolicy(f)
	if err != nil {
		return returns.CashPolicy{}, fmt.Errorf("%s: %w", c.Data.Policy, err)
	}
	return policy, nil
}
