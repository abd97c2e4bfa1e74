// Package config loads and validates simulation configurations. A config
// is plain data: it is validated eagerly, converted once into the core's
// value types, and never re-read mid-run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration flags an invalid configuration. Raised before any
// simulation loop starts; one bad config never aborts sibling runs.
var ErrConfiguration = errors.New("config: invalid configuration")

// Config is the complete input for one simulation run.
type Config struct {
	Name       string           `json:"name" yaml:"name"`
	Data       DataConfig       `json:"data" yaml:"data"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Account    AccountConfig    `json:"account" yaml:"account"`
	Brokerage  BrokerageConfig  `json:"brokerage" yaml:"brokerage"`
	Strategy   StrategyConfig   `json:"strategy" yaml:"strategy"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
}

// DataConfig points at the historical bar data.
type DataConfig struct {
	Path string `json:"path" yaml:"path"` // daily bar CSV, .xz accepted
}

// SimulationConfig bounds the run window.
type SimulationConfig struct {
	Start  string `json:"start" yaml:"start"` // 2006-01-02; empty = series start
	End    string `json:"end,omitempty" yaml:"end,omitempty"`
	Warmup int    `json:"warmup" yaml:"warmup"` // extra history bars for signals
}

// AccountConfig sets up the cash ledger.
type AccountConfig struct {
	OpeningBalance string `json:"opening_balance" yaml:"opening_balance"`
	InterestRate   string `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty"` // annual fraction, e.g. "0.015"
	DepositEvery   string `json:"deposit_every,omitempty" yaml:"deposit_every,omitempty"` // "weekly", "monthly" or empty
	DepositAmount  string `json:"deposit_amount,omitempty" yaml:"deposit_amount,omitempty"`
}

// BrokerageConfig selects the fee structures.
type BrokerageConfig struct {
	Fee           FeeConfig  `json:"fee" yaml:"fee"`
	ManagementFee *FeeConfig `json:"management_fee,omitempty" yaml:"management_fee,omitempty"`
}

// FeeConfig is the serialized form of the closed fee variants.
type FeeConfig struct {
	Kind   string       `json:"kind" yaml:"kind"` // "none", "flat", "percent", "laddered", "rate"
	Amount string       `json:"amount,omitempty" yaml:"amount,omitempty"`
	Rate   string       `json:"rate,omitempty" yaml:"rate,omitempty"`
	Min    string       `json:"min,omitempty" yaml:"min,omitempty"`
	Tiers  []TierConfig `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// TierConfig is one laddered tier: marginal rate from an inclusive bound.
type TierConfig struct {
	From string `json:"from" yaml:"from"`
	Rate string `json:"rate" yaml:"rate"`
}

// StrategyConfig selects the entry/exit policies.
type StrategyConfig struct {
	Kind        string  `json:"kind" yaml:"kind"`                       // "interval", "ma-cross", "rsi"
	Value       string  `json:"value,omitempty" yaml:"value,omitempty"` // order value per entry
	Every       int     `json:"every,omitempty" yaml:"every,omitempty"` // interval: trading days
	Fast        int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow        int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	Period      int     `json:"period,omitempty" yaml:"period,omitempty"`
	Lower       float64 `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper       float64 `json:"upper,omitempty" yaml:"upper,omitempty"`
	ValidDays   int     `json:"valid_days,omitempty" yaml:"valid_days,omitempty"`
	OnShortfall string  `json:"on_shortfall,omitempty" yaml:"on_shortfall,omitempty"` // "delete" (default) or "resubmit"
}

// JournalConfig selects the persistence sink.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "sqlite", "csv" or empty for none
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	EventsFile string `json:"events_file,omitempty" yaml:"events_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	Workers    int    `json:"workers,omitempty" yaml:"workers,omitempty"`
	QueueDepth int    `json:"queue_depth,omitempty" yaml:"queue_depth,omitempty"`
}

// LoadFromFile loads a config from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("%w: parse (tried YAML and JSON): %v", ErrConfiguration, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBatch loads a file holding a list of configs.
func LoadBatch(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var cfgs []Config
	if err := yaml.Unmarshal(data, &cfgs); err != nil {
		if jerr := json.Unmarshal(data, &cfgs); jerr != nil {
			return nil, fmt.Errorf("%w: parse batch (tried YAML and JSON): %v", ErrConfiguration, err)
		}
	}
	// Per-config validation happens at build time so one bad entry does
	// not abort its siblings.
	return cfgs, nil
}

// Validate checks everything that can be checked without touching data
// files. Returns an error wrapping ErrConfiguration.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
	}

	if c.Data.Path == "" {
		return fail("data.path is required")
	}
	if c.Simulation.Warmup < 0 {
		return fail("simulation.warmup must not be negative")
	}
	for _, d := range []struct{ name, val string }{
		{"simulation.start", c.Simulation.Start},
		{"simulation.end", c.Simulation.End},
	} {
		if d.val == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d.val); err != nil {
			return fail("%s: bad date %q", d.name, d.val)
		}
	}
	if c.Account.OpeningBalance == "" {
		return fail("account.opening_balance is required")
	}
	switch c.Account.DepositEvery {
	case "", "weekly", "monthly":
	default:
		return fail("account.deposit_every must be weekly or monthly, got %q", c.Account.DepositEvery)
	}
	if c.Account.DepositEvery != "" && c.Account.DepositAmount == "" {
		return fail("account.deposit_amount is required with deposit_every")
	}
	switch c.Brokerage.Fee.Kind {
	case "", "none", "flat", "percent", "laddered":
	default:
		return fail("brokerage.fee.kind %q unknown", c.Brokerage.Fee.Kind)
	}
	if m := c.Brokerage.ManagementFee; m != nil {
		switch m.Kind {
		case "", "none", "rate", "laddered":
		default:
			return fail("brokerage.management_fee.kind %q unknown", m.Kind)
		}
	}
	switch c.Strategy.Kind {
	case "interval", "ma-cross", "rsi":
	default:
		return fail("strategy.kind %q unknown (interval, ma-cross, rsi)", c.Strategy.Kind)
	}
	switch c.Strategy.OnShortfall {
	case "", "delete", "resubmit":
	default:
		return fail("strategy.on_shortfall must be delete or resubmit, got %q", c.Strategy.OnShortfall)
	}
	switch c.Journal.Type {
	case "", "sqlite", "csv":
	default:
		return fail("journal.type %q unknown", c.Journal.Type)
	}
	return nil
}

// StartDate returns the parsed start date; zero when unset. Call after
// Validate.
func (c *Config) StartDate() time.Time { return parseDay(c.Simulation.Start) }

// EndDate returns the parsed end date; zero when unset.
func (c *Config) EndDate() time.Time { return parseDay(c.Simulation.End) }

func parseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse("2006-01-02", s)
	return t
}
