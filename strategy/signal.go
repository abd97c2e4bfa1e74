package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/stratsim/account"
	"github.com/rustyeddy/stratsim/broker"
	"github.com/rustyeddy/stratsim/market"
	"github.com/rustyeddy/stratsim/order"
)

// SignalEntry wraps a SignalProvider: a Buy decision becomes a
// fixed-value entry order. ValidDays bounds the order's validity window;
// zero means unbounded.
type SignalEntry struct {
	Provider    SignalProvider
	Value       decimal.Decimal
	ValidDays   int
	OnShortfall Action
}

func (p *SignalEntry) Evaluate(bar market.Bar, window []market.Bar, _ *broker.Brokerage, _ *account.Cash) *order.Order {
	if p.Provider.Evaluate(window) != Buy {
		return nil
	}
	o := order.New(order.Entry, bar.Date)
	o.Value = p.Value
	o.Trigger = order.Trigger{Kind: order.TriggerImmediate}
	if p.ValidDays > 0 {
		o.Validity.NotAfter = bar.Date.AddDate(0, 0, p.ValidDays)
	}
	return o
}

func (p *SignalEntry) OnInsufficientFunds(_ *order.Order) Action { return p.OnShortfall }

// SignalExit wraps a SignalProvider: a Sell decision becomes an exit
// order closing the entire holding. Days without a holding are skipped.
type SignalExit struct {
	Provider  SignalProvider
	ValidDays int
}

func (p *SignalExit) Evaluate(bar market.Bar, window []market.Bar, b *broker.Brokerage) *order.Order {
	if !b.Quantity().IsPositive() {
		return nil
	}
	if p.Provider.Evaluate(window) != Sell {
		return nil
	}
	o := order.New(order.Exit, bar.Date)
	o.Trigger = order.Trigger{Kind: order.TriggerImmediate}
	if p.ValidDays > 0 {
		o.Validity.NotAfter = bar.Date.AddDate(0, 0, p.ValidDays)
	}
	return o
}

// Exit orders never debit cash, so this path is unreachable in practice;
// Delete keeps the lifecycle total regardless.
func (p *SignalExit) OnInsufficientFunds(_ *order.Order) Action { return Delete }

// ConfirmedBy gates a primary provider's decision on a confirming
// provider agreeing within Days trading days. Hold is emitted while the
// primary's decision waits for confirmation.
type ConfirmedBy struct {
	Primary   SignalProvider
	Confirmer SignalProvider
	Days      int

	pending    Signal
	pendingAge int
}

func (c *ConfirmedBy) Evaluate(window []market.Bar) Signal {
	p := c.Primary.Evaluate(window)
	conf := c.Confirmer.Evaluate(window)

	if p == Buy || p == Sell {
		c.pending = p
		c.pendingAge = 0
	} else if c.pending != Hold {
		c.pendingAge++
		if c.pendingAge > c.Days {
			c.pending = Hold
		}
	}

	if c.pending != Hold && conf == c.pending {
		out := c.pending
		c.pending = Hold
		return out
	}
	return Hold
}
