// Package sim drives the deterministic daily simulation: chronological
// bar replay, the order retry step, policy evaluation, and ordered event
// delivery. The loop is single-threaded and does no IO; anything slow
// lives behind the journal's queue.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/event"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
	"github.com/rustyeddy/stratsim/stats"
	"github.com/rustyeddy/stratsim/strategy"
)

// ErrUnsupportedAction is returned when a policy answers an
// insufficient-funds failure with something other than Delete or
// Resubmit. It is a configuration fault and aborts the run.
var ErrUnsupportedAction = errors.New("sim: unsupported insufficient-funds action")

// Window selects the simulated date range. Zero End means the end of the
// series; Warmup is the number of history bars policies need before the
// first simulated day.
type Window struct {
	Start  time.Time
	End    time.Time
	Warmup int
}

// fundsPolicy is the slice of a policy the retry step needs.
type fundsPolicy interface {
	OnInsufficientFunds(o *order.Order) strategy.Action
}

// pending pairs an outstanding order with the policy that emitted it, so
// an execution failure can be routed back to its origin.
type pending struct {
	ord    *order.Order
	origin fundsPolicy
}

// Engine owns one simulation run: the ledgers, the outstanding order
// set, the policies, and the event bus. Engines share nothing; parallel
// runs each build their own.
type Engine struct {
	series *market.Series
	window Window

	cash      *account.Cash
	brokerage *broker.Brokerage
	entry     strategy.EntryPolicy
	exit      strategy.ExitPolicy

	bus         *event.Bus
	aggregator  *stats.Aggregator
	roi         *stats.Chain
	outstanding []pending
	ran         bool
}

// NewEngine wires a run. The statistics aggregator and ROI chain are
// registered first so their view of the stream is complete; additional
// listeners subscribe via Subscribe before Run.
func NewEngine(series *market.Series, window Window, cash *account.Cash, brokerage *broker.Brokerage, entry strategy.EntryPolicy, exit strategy.ExitPolicy, bus *event.Bus) *Engine {
	e := &Engine{
		series:     series,
		window:     window,
		cash:       cash,
		brokerage:  brokerage,
		entry:      entry,
		exit:       exit,
		bus:        bus,
		aggregator: stats.NewAggregator(),
		roi:        stats.NewChain(),
	}
	bus.Subscribe(e.aggregator)
	bus.Subscribe(e.roi, event.KindNetWorth)
	return e
}

// Subscribe registers an additional listener on the run's bus.
func (e *Engine) Subscribe(l event.Listener, kinds ...event.Kind) {
	e.bus.Subscribe(l, kinds...)
}

// Run replays the window chronologically. Each day: the cash ledger
// advances, the yearly management fee is applied, every outstanding
// order is retried oldest-first, then the exit and entry policies are
// asked for new orders. The final bar's net worth event is the terminal
// one. Run may be called once per engine.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	if e.ran {
		return Report{}, errors.New("sim: engine already ran")
	}
	e.ran = true

	w, err := e.series.SimWindow(e.window.Start, e.window.End, e.window.Warmup)
	if err != nil {
		return Report{}, err
	}

	history := make([]market.Bar, 0, len(w.Lookback)+len(w.Bars))
	history = append(history, w.Lookback...)

	for i, bar := range w.Bars {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		if err := e.cash.Advance(bar.Date); err != nil {
			return Report{}, err
		}
		e.brokerage.ApplyManagementFee(bar)

		if err := e.retryOutstanding(bar); err != nil {
			return Report{}, err
		}

		history = append(history, bar)
		if o := e.exit.Evaluate(bar, history, e.brokerage); o != nil {
			e.outstanding = append(e.outstanding, pending{ord: o, origin: e.exit})
		}
		if o := e.entry.Evaluate(bar, history, e.brokerage, e.cash); o != nil {
			e.outstanding = append(e.outstanding, pending{ord: o, origin: e.entry})
		}

		e.bus.Publish(event.NetWorthEvent{
			Date:        bar.Date,
			CashBalance: e.cash.Balance(),
			EquityValue: e.brokerage.Value(bar),
			NetWorth:    e.cash.Balance().Add(e.brokerage.Value(bar)),
			Final:       i == len(w.Bars)-1,
		})
	}

	last := w.Bars[len(w.Bars)-1]
	e.bus.Publish(event.Complete{Date: last.Date})

	return e.report(w, last), nil
}

// retryOutstanding walks the outstanding set oldest-first: validity,
// then trigger, then execution. Orders that expire are dropped silently;
// orders whose execution fails on funds are resolved by their origin
// policy. Orders created today are retried for the first time tomorrow.
func (e *Engine) retryOutstanding(bar market.Bar) error {
	keep := e.outstanding[:0]
	for _, p := range e.outstanding {
		o := p.ord

		// Before the validity window: pending, carried unchanged.
		if !o.Validity.NotBefore.IsZero() && bar.Date.Before(o.Validity.NotBefore) {
			keep = append(keep, p)
			continue
		}
		// Past the validity window: expired, no event.
		if !o.Validity.NotAfter.IsZero() && bar.Date.After(o.Validity.NotAfter) {
			continue
		}

		if !o.Trigger.Met(bar) {
			keep = append(keep, p)
			continue
		}

		executed, err := e.execute(o, bar)
		if err == nil {
			if executed {
				e.bus.Publish(event.OrderEvent{
					Date: bar.Date, Action: event.OrderExecuted,
					OrderID: o.ID, Side: string(o.Side), Value: o.Value,
				})
			}
			continue
		}

		if errors.Is(err, broker.ErrInsufficientHoldings) {
			e.bus.Publish(event.OrderEvent{
				Date: bar.Date, Action: event.OrderDeleted,
				OrderID: o.ID, Side: string(o.Side), Value: o.Value,
				Reason: "INSUFFICIENT_HOLDINGS",
			})
			continue
		}
		if !errors.Is(err, account.ErrInsufficientFunds) {
			return err
		}

		switch p.origin.OnInsufficientFunds(o) {
		case strategy.Delete:
			e.bus.Publish(event.OrderEvent{
				Date: bar.Date, Action: event.OrderDeleted,
				OrderID: o.ID, Side: string(o.Side), Value: o.Value,
				Reason: "INSUFFICIENT_FUNDS",
			})
		case strategy.Resubmit:
			keep = append(keep, p)
		default:
			return fmt.Errorf("%w: order %s", ErrUnsupportedAction, o.ID)
		}
	}
	e.outstanding = keep
	return nil
}

// execute applies the order to the ledgers. The second return is false
// when the order was consumed without a fill (an exit with nothing held).
func (e *Engine) execute(o *order.Order, bar market.Bar) (bool, error) {
	switch o.Side {
	case order.Entry:
		if _, err := e.brokerage.Buy(o, bar, e.cash); err != nil {
			return false, err
		}
		return true, nil
	case order.Exit:
		if !e.brokerage.Quantity().IsPositive() {
			// Nothing to close; the order dissolves without an event.
			return false, nil
		}
		if _, err := e.brokerage.Sell(o, bar, e.cash); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, fmt.Errorf("sim: order %s has unknown side %q", o.ID, o.Side)
}

func (e *Engine) report(w market.Window, last market.Bar) Report {
	balance := e.cash.Balance()
	equity := e.brokerage.Value(last)
	return Report{
		Instrument:   e.series.Instrument(),
		Start:        w.Bars[0].Date,
		End:          last.Date,
		Bars:         len(w.Bars),
		FinalBalance: balance,
		FinalEquity:  equity,
		FinalNet:     balance.Add(equity),
		Counters:     e.aggregator.Snapshot(),
		Cumulative:   e.roi.Cumulative(),
		TotalROI:     e.roi.Total(),
		DailyROI:     e.roi.Outputs(stats.Daily),
		MonthlyROI:   e.roi.Outputs(stats.Monthly),
		YearlyROI:    e.roi.Outputs(stats.Yearly),
	}
}
