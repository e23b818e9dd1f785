package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"feeCompare/internal/finance"
	"feeCompare/internal/funds"
)

type FundConfig struct {
	Symbol       string  `yaml:"symbol" validate:"required"`
	ExpenseRatio float64 `yaml:"expense_ratio" validate:"gte=0"`
}

type Config struct {
	// LookbackYears is converted to days as years*365.
	LookbackYears  int          `yaml:"lookback_years" default:"25" validate:"gt=0"`
	PeriodsPerYear int          `yaml:"periods_per_year" default:"252" validate:"gt=0"`
	IndexFunds     []FundConfig `yaml:"index_funds" validate:"dive"`
	ActiveFunds    []FundConfig `yaml:"active_funds" validate:"dive"`

	DBPath       string        `yaml:"db_path" default:"feecompare.db"`
	CacheTTL     time.Duration `yaml:"cache_ttl" default:"12h" validate:"gte=0"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" default:"20s" validate:"gt=0"`
	FetchPause   time.Duration `yaml:"fetch_pause" default:"120ms" validate:"gte=0"`
	ChartPath    string        `yaml:"chart_path" default:"cumulative_returns.png"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model" default:"gpt-4o-mini"`
	} `yaml:"openai"`
}

var validate = validator.New()

// Load reads the YAML file at path (optional: empty means defaults only),
// applies defaults and environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("%w: parse config: %v", finance.ErrConfiguration, err)
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FEECOMPARE_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("FEECOMPARE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TELEGRAM_CHAT_ID %q: %v", finance.ErrConfiguration, v, err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	return nil
}

// Validate checks field constraints. Failures wrap finance.ErrConfiguration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q (value %v)", finance.ErrConfiguration, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", finance.ErrConfiguration, err)
	}
	return nil
}

// Registry builds the fund registry. With no funds configured at all the
// built-in registry is used.
func (c *Config) Registry() (*funds.Registry, error) {
	if len(c.IndexFunds) == 0 && len(c.ActiveFunds) == 0 {
		return funds.Default(), nil
	}
	return funds.New(toFunds(c.IndexFunds), toFunds(c.ActiveFunds))
}

func toFunds(in []FundConfig) []funds.Fund {
	out := make([]funds.Fund, len(in))
	for i, f := range in {
		out[i] = funds.Fund{Symbol: f.Symbol, ExpenseRatio: decimal.NewFromFloat(f.ExpenseRatio)}
	}
	return out
}

// Window returns the lookback window ending at now.
func (c *Config) Window(now time.Time) (start, end time.Time) {
	return now.AddDate(0, 0, -c.LookbackYears*365), now
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}
