package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/config"
	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/indicators"
	"github.com/rustyeddy/stratsim/journal"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/pkg/id"
	"github.com/rustyeddy/stratsim/sim"
	"github.com/rustyeddy/stratsim/strategy"
)

const drainTimeout = 10 * time.Second

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s: bad amount %q", config.ErrConfiguration, field, s)
	}
	return d, nil
}

func buildFee(fc config.FeeConfig) (broker.FeeSchedule, error) {
	switch fc.Kind {
	case "", "none":
		return broker.NoFee(), nil
	case "flat":
		amount, err := parseAmount("fee.amount", fc.Amount)
		if err != nil {
			return broker.FeeSchedule{}, err
		}
		return broker.FlatFee(amount)
	case "percent":
		rate, err := parseAmount("fee.rate", fc.Rate)
		if err != nil {
			return broker.FeeSchedule{}, err
		}
		min := decimal.Zero
		if fc.Min != "" {
			if min, err = parseAmount("fee.min", fc.Min); err != nil {
				return broker.FeeSchedule{}, err
			}
		}
		return broker.PercentFee(rate, min)
	case "laddered":
		tiers, err := buildTiers(fc.Tiers)
		if err != nil {
			return broker.FeeSchedule{}, err
		}
		return broker.LadderedFee(tiers)
	}
	return broker.FeeSchedule{}, fmt.Errorf("%w: fee kind %q", config.ErrConfiguration, fc.Kind)
}

func buildMgmtFee(fc *config.FeeConfig) (broker.ManagementFee, error) {
	if fc == nil || fc.Kind == "" || fc.Kind == "none" {
		return broker.NoManagementFee(), nil
	}
	switch fc.Kind {
	case "rate":
		rate, err := parseAmount("management_fee.rate", fc.Rate)
		if err != nil {
			return broker.ManagementFee{}, err
		}
		return broker.RateManagementFee(rate)
	case "laddered":
		tiers, err := buildTiers(fc.Tiers)
		if err != nil {
			return broker.ManagementFee{}, err
		}
		return broker.LadderedManagementFee(tiers)
	}
	return broker.ManagementFee{}, fmt.Errorf("%w: management fee kind %q", config.ErrConfiguration, fc.Kind)
}

func buildTiers(tcs []config.TierConfig) ([]broker.Tier, error) {
	tiers := make([]broker.Tier, 0, len(tcs))
	for i, tc := range tcs {
		from, err := parseAmount(fmt.Sprintf("tiers[%d].from", i), tc.From)
		if err != nil {
			return nil, err
		}
		rate, err := parseAmount(fmt.Sprintf("tiers[%d].rate", i), tc.Rate)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, broker.Tier{From: from, Rate: rate})
	}
	return tiers, nil
}

func buildPolicies(sc config.StrategyConfig) (strategy.EntryPolicy, strategy.ExitPolicy, error) {
	onShortfall := strategy.Delete
	if sc.OnShortfall == "resubmit" {
		onShortfall = strategy.Resubmit
	}

	value := decimal.Zero
	if sc.Value != "" {
		var err error
		if value, err = parseAmount("strategy.value", sc.Value); err != nil {
			return nil, nil, err
		}
	}

	switch sc.Kind {
	case "interval":
		if sc.Every <= 0 {
			return nil, nil, fmt.Errorf("%w: strategy.every must be positive", config.ErrConfiguration)
		}
		return strategy.NewIntervalEntry(sc.Every, value, onShortfall), strategy.NoExit{}, nil

	case "ma-cross":
		if sc.Fast <= 0 || sc.Slow <= sc.Fast {
			return nil, nil, fmt.Errorf("%w: ma-cross needs 0 < fast < slow", config.ErrConfiguration)
		}
		// Entry and exit each get their own provider instance; stateful
		// providers must be evaluated exactly once per day.
		entry := &strategy.SignalEntry{
			Provider:    &indicators.MACross{Fast: sc.Fast, Slow: sc.Slow, Exponential: true},
			Value:       value,
			ValidDays:   sc.ValidDays,
			OnShortfall: onShortfall,
		}
		exit := &strategy.SignalExit{
			Provider:  &indicators.MACross{Fast: sc.Fast, Slow: sc.Slow, Exponential: true},
			ValidDays: sc.ValidDays,
		}
		return entry, exit, nil

	case "rsi":
		if sc.Period <= 0 {
			return nil, nil, fmt.Errorf("%w: rsi needs a positive period", config.ErrConfiguration)
		}
		lower, upper := sc.Lower, sc.Upper
		if lower == 0 {
			lower = 30
		}
		if upper == 0 {
			upper = 70
		}
		entry := &strategy.SignalEntry{
			Provider:    &indicators.RSIBands{Period: sc.Period, Lower: lower, Upper: upper},
			Value:       value,
			ValidDays:   sc.ValidDays,
			OnShortfall: onShortfall,
		}
		exit := &strategy.SignalExit{
			Provider:  &indicators.RSIBands{Period: sc.Period, Lower: lower, Upper: upper},
			ValidDays: sc.ValidDays,
		}
		return entry, exit, nil
	}
	return nil, nil, fmt.Errorf("%w: strategy kind %q", config.ErrConfiguration, sc.Kind)
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "":
		return nil, nil
	case "sqlite":
		path := jc.DBPath
		if path == "" {
			path = "./stratsim.sqlite"
		}
		return journal.NewSQLite(path)
	case "csv":
		events := jc.EventsFile
		if events == "" {
			events = "./events.csv"
		}
		runs := jc.RunsFile
		if runs == "" {
			runs = "./runs.csv"
		}
		return journal.NewCSV(events, runs)
	}
	return nil, fmt.Errorf("%w: journal type %q", config.ErrConfiguration, jc.Type)
}

// buildRun turns a validated config into an independent run closure.
// Everything — series, ledgers, bus, listeners — is built inside the
// closure so batch runs share nothing.
func buildRun(cfg config.Config, log zerolog.Logger) sim.NamedRun {
	name := cfg.Name
	if name == "" {
		name = cfg.Data.Path
	}
	return sim.NamedRun{
		Name: name,
		Run: func(ctx context.Context) (sim.Report, error) {
			if err := cfg.Validate(); err != nil {
				return sim.Report{}, err
			}

			series, err := market.LoadCSV(cfg.Data.Path)
			if err != nil {
				return sim.Report{}, err
			}

			opening, err := parseAmount("account.opening_balance", cfg.Account.OpeningBalance)
			if err != nil {
				return sim.Report{}, err
			}
			rate := decimal.Zero
			if cfg.Account.InterestRate != "" {
				if rate, err = parseAmount("account.interest_rate", cfg.Account.InterestRate); err != nil {
					return sim.Report{}, err
				}
			}
			sched := account.DepositSchedule{Every: account.DepositFrequency(cfg.Account.DepositEvery)}
			if sched.Every != account.DepositNone {
				if sched.Amount, err = parseAmount("account.deposit_amount", cfg.Account.DepositAmount); err != nil {
					return sim.Report{}, err
				}
			}

			fees, err := buildFee(cfg.Brokerage.Fee)
			if err != nil {
				return sim.Report{}, err
			}
			mgmt, err := buildMgmtFee(cfg.Brokerage.ManagementFee)
			if err != nil {
				return sim.Report{}, err
			}
			entry, exit, err := buildPolicies(cfg.Strategy)
			if err != nil {
				return sim.Report{}, err
			}

			opened := cfg.StartDate()
			if opened.IsZero() {
				opened = series.First()
			}

			bus := event.NewBus()
			cash, err := account.NewCash(opening, opened, rate, sched, bus)
			if err != nil {
				return sim.Report{}, err
			}
			brokerage := broker.New(series.Instrument(), fees, mgmt, bus)

			engine := sim.NewEngine(series, sim.Window{
				Start:  cfg.StartDate(),
				End:    cfg.EndDate(),
				Warmup: cfg.Simulation.Warmup,
			}, cash, brokerage, entry, exit, bus)

			j, err := openJournal(cfg.Journal)
			if err != nil {
				return sim.Report{}, err
			}
			runID := id.Run()
			var w *journal.Writer
			if j != nil {
				w = journal.NewWriter(runID, j, cfg.Journal.Workers, cfg.Journal.QueueDepth, log)
				engine.Subscribe(w)
			}

			rep, runErr := engine.Run(ctx)

			if w != nil {
				w.Close(drainTimeout)
			}
			if j != nil {
				if runErr == nil {
					if err := j.RecordRun(runID, rep); err != nil {
						log.Error().Err(err).Str("run", runID).Msg("record run failed")
					}
				}
				if err := j.Close(); err != nil {
					log.Error().Err(err).Str("run", runID).Msg("close journal failed")
				}
			}
			return rep, runErr
		},
	}
}
