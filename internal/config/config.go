package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the tunables of the preview pipeline: parser options and
// the risk defaults applied when a user has no settings of their own.
type Config struct {
	Parser ParserConfig `json:"parser"`
	Risk   RiskConfig   `json:"risk"`
}

// ParserConfig holds command parser options.
type ParserConfig struct {
	QuoteAsset  string `json:"quote_asset"`
	LeverageCap int    `json:"leverage_cap"`
}

// RiskConfig holds the fallback risk settings.
type RiskConfig struct {
	DefaultLeverage int             `json:"default_leverage"`
	LeverageCap     int             `json:"leverage_cap"`
	MaxSlippageBps  int             `json:"max_slippage_bps"`
	FeeRate         decimal.Decimal `json:"fee_rate"`

	// PresetsPath points at an optional TOML file of named risk presets.
	PresetsPath string `json:"presets_path"`
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present; a missing file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	feeRate, err := getEnvAsDecimal("RISK_FEE_RATE", "0.0004")
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config := &Config{
		Parser: ParserConfig{
			QuoteAsset:  getEnv("PARSER_QUOTE_ASSET", "USDT"),
			LeverageCap: getEnvAsInt("PARSER_LEVERAGE_CAP", 125),
		},
		Risk: RiskConfig{
			DefaultLeverage: getEnvAsInt("RISK_DEFAULT_LEVERAGE", 1),
			LeverageCap:     getEnvAsInt("RISK_LEVERAGE_CAP", 20),
			MaxSlippageBps:  getEnvAsInt("RISK_MAX_SLIPPAGE_BPS", 50),
			FeeRate:         feeRate,
			PresetsPath:     getEnv("RISK_PRESETS_PATH", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Parser.QuoteAsset == "" {
		return fmt.Errorf("PARSER_QUOTE_ASSET must not be empty")
	}
	if c.Parser.LeverageCap < 1 {
		return fmt.Errorf("invalid parser leverage cap: %d", c.Parser.LeverageCap)
	}
	if c.Risk.DefaultLeverage < 1 {
		return fmt.Errorf("invalid default leverage: %d", c.Risk.DefaultLeverage)
	}
	if c.Risk.LeverageCap < c.Risk.DefaultLeverage {
		return fmt.Errorf("risk leverage cap %d below default leverage %d",
			c.Risk.LeverageCap, c.Risk.DefaultLeverage)
	}
	if c.Risk.MaxSlippageBps < 0 {
		return fmt.Errorf("invalid max slippage: %d bps", c.Risk.MaxSlippageBps)
	}
	if c.Risk.FeeRate.IsNegative() {
		return fmt.Errorf("invalid fee rate: %s", c.Risk.FeeRate.String())
	}
	return nil
}

// RiskPreset is one named entry in the presets file.
type RiskPreset struct {
	DefaultLeverage int    `toml:"default_leverage"`
	LeverageCap     int    `toml:"leverage_cap"`
	MaxSlippageBps  int    `toml:"max_slippage_bps"`
	FeeRate         string `toml:"fee_rate"`
}

// riskPresetsFile is the TOML document shape: [presets.<name>] tables.
type riskPresetsFile struct {
	Presets map[string]RiskPreset `toml:"presets"`
}

// LoadRiskPresets reads named risk presets from a TOML file, e.g.:
//
//	[presets.conservative]
//	default_leverage = 1
//	leverage_cap = 3
//	max_slippage_bps = 20
//	fee_rate = "0.0004"
func LoadRiskPresets(path string) (map[string]RiskPreset, error) {
	var file riskPresetsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read risk presets %s: %w", path, err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("risk presets %s defines no presets", path)
	}

	for name, preset := range file.Presets {
		if preset.DefaultLeverage < 1 || preset.LeverageCap < preset.DefaultLeverage {
			return nil, fmt.Errorf("preset %q has inconsistent leverage", name)
		}
		if preset.FeeRate != "" {
			if _, err := decimal.NewFromString(preset.FeeRate); err != nil {
				return nil, fmt.Errorf("preset %q has bad fee rate %q", name, preset.FeeRate)
			}
		}
	}
	return file.Presets, nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: bad decimal %q", key, value)
	}
	return d, nil
}
