package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Name: "base",
		Data: DataConfig{Path: "prices.csv"},
		Simulation: SimulationConfig{
			Start: "2024-03-01",
			End:   "2024-03-30",
		},
		Account:   AccountConfig{OpeningBalance: "1000"},
		Brokerage: BrokerageConfig{Fee: FeeConfig{Kind: "none"}},
		Strategy:  StrategyConfig{Kind: "interval", Every: 7, Value: "100"},
	}
}

func TestValidateOK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "missing data path",
			mutate: func(c *Config) { c.Data.Path = "" },
			want:   "data.path",
		},
		{
			name:   "negative warmup",
			mutate: func(c *Config) { c.Simulation.Warmup = -1 },
			want:   "warmup",
		},
		{
			name:   "bad start date",
			mutate: func(c *Config) { c.Simulation.Start = "03/01/2024" },
			want:   "bad date",
		},
		{
			name:   "missing opening balance",
			mutate: func(c *Config) { c.Account.OpeningBalance = "" },
			want:   "opening_balance",
		},
		{
			name:   "bad deposit frequency",
			mutate: func(c *Config) { c.Account.DepositEvery = "daily" },
			want:   "deposit_every",
		},
		{
			name: "deposit without amount",
			mutate: func(c *Config) {
				c.Account.DepositEvery = "weekly"
				c.Account.DepositAmount = ""
			},
			want: "deposit_amount",
		},
		{
			name:   "unknown fee kind",
			mutate: func(c *Config) { c.Brokerage.Fee.Kind = "tiered" },
			want:   "fee.kind",
		},
		{
			name: "unknown management fee kind",
			mutate: func(c *Config) {
				c.Brokerage.ManagementFee = &FeeConfig{Kind: "percent"}
			},
			want: "management_fee.kind",
		},
		{
			name:   "unknown strategy",
			mutate: func(c *Config) { c.Strategy.Kind = "momentum" },
			want:   "strategy.kind",
		},
		{
			name:   "bad shortfall action",
			mutate: func(c *Config) { c.Strategy.OnShortfall = "retry" },
			want:   "on_shortfall",
		},
		{
			name:   "unknown journal type",
			mutate: func(c *Config) { c.Journal.Type = "postgres" },
			want:   "journal.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "error should wrap ErrConfiguration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

const yamlConfig = `
name: dca
data:
  path: prices.csv
simulation:
  start: 2024-03-01
  end: 2024-03-30
  warmup: 0
account:
  opening_balance: "1000"
  deposit_every: weekly
  deposit_amount: "100"
brokerage:
  fee:
    kind: percent
    rate: "0.001"
    min: "1"
strategy:
  kind: interval
  every: 7
  value: "100"
journal:
  type: sqlite
  db_path: runs.db
`

func TestLoadFromFileYAML(t *testing.T) {
	path := writeFile(t, "cfg.yaml", yamlConfig)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "dca", cfg.Name)
	assert.Equal(t, "prices.csv", cfg.Data.Path)
	assert.Equal(t, "weekly", cfg.Account.DepositEvery)
	assert.Equal(t, "percent", cfg.Brokerage.Fee.Kind)
	assert.Equal(t, 7, cfg.Strategy.Every)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "2024-03-01", cfg.StartDate().Format("2006-01-02"))
	assert.Equal(t, "2024-03-30", cfg.EndDate().Format("2006-01-02"))
}

func TestLoadFromFileJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		"name": "dca",
		"data": {"path": "prices.csv"},
		"account": {"opening_balance": "1000"},
		"strategy": {"kind": "interval", "every": 7, "value": "100"}
	}`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dca", cfg.Name)
	assert.True(t, cfg.StartDate().IsZero())
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "data:\n  path: prices.csv\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestLoadBatch(t *testing.T) {
	path := writeFile(t, "batch.yaml", `
- name: a
  data: {path: a.csv}
  account: {opening_balance: "1000"}
  strategy: {kind: interval, every: 7, value: "100"}
- name: b
  data: {path: b.csv}
  account: {opening_balance: "2000"}
  strategy: {kind: momentum}
`)
	cfgs, err := LoadBatch(path)
	require.NoError(t, err)
	require.Len(t, cfgs, 2)
	assert.Equal(t, "a", cfgs[0].Name)

	// The second entry is invalid; LoadBatch leaves validation to the
	// build step so the first entry still runs.
	assert.NoError(t, cfgs[0].Validate())
	assert.Error(t, cfgs[1].Validate())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
